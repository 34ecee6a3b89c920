package cache

import (
	"time"
)

// CacheService is the block cache: once a domain is diagnosed hard-blocked,
// its note is stored under a TTL so further input URLs on the same domain
// short-circuit without another fetch. A nil service disables caching.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
