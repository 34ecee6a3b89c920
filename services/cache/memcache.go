package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheService is the memcache-backed block cache. Block notes live under
// "blocked:<domain>" keys so concurrent runs against the same memcache share
// the blocklist.
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService connects the block cache to a memcache server.
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get retrieves a stored block note; a miss returns memcache.ErrCacheMiss.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a block note under the block TTL.
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
}

// Delete clears a domain's block entry before the TTL runs out.
func (m *MemcacheService) Delete(key string) error {
	return m.client.Delete(key)
}
