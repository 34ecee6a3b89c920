package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Input/output
	InputFile   string
	ExcelPath   string
	DepositsCSV string
	SitesCSV    string

	// Crawl limits
	Concurrency     int
	RequestTimeout  time.Duration
	MaxPagesPerSite int
	MaxLinksPerPage int
	MaxJSONURLs     int
	RequestsPerSec  float64

	// Block cache (memcache); empty address disables the cache
	MemcacheAddr string
	BlockTTL     time.Duration

	// Redis publishing; disabled unless REDIS_PUBLISH=true
	RedisPublish         bool
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	concurrency, _ := strconv.Atoi(getEnv("CONCURRENCY", "4"))
	timeoutSec, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "25"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES_PER_SITE", "20"))
	maxLinks, _ := strconv.Atoi(getEnv("MAX_LINKS_PER_PAGE", "200"))
	maxJSONURLs, _ := strconv.Atoi(getEnv("MAX_JSON_URLS", "40"))
	rps, _ := strconv.ParseFloat(getEnv("REQUESTS_PER_SECOND", "2"), 64)
	blockTTLSec, _ := strconv.Atoi(getEnv("BLOCK_TTL_SECONDS", "3600"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))

	return Config{
		InputFile:   getEnv("INPUT_FILE", "banks_urls.txt"),
		ExcelPath:   getEnv("OUTPUT_XLSX", "result.xlsx"),
		DepositsCSV: getEnv("OUTPUT_CSV", "result.csv"),
		SitesCSV:    getEnv("OUTPUT_SITES_CSV", "sites_status.csv"),

		Concurrency:     concurrency,
		RequestTimeout:  time.Duration(timeoutSec) * time.Second,
		MaxPagesPerSite: maxPages,
		MaxLinksPerPage: maxLinks,
		MaxJSONURLs:     maxJSONURLs,
		RequestsPerSec:  rps,

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),
		BlockTTL:     time.Duration(blockTTLSec) * time.Second,

		RedisPublish:         getEnv("REDIS_PUBLISH", "false") == "true",
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "deposits"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,

		Environment: getEnv("DEPOSITS_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input file must not be empty")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.MaxPagesPerSite < 1 {
		return fmt.Errorf("max pages per site must be at least 1, got %d", c.MaxPagesPerSite)
	}
	if c.MaxLinksPerPage < 1 {
		return fmt.Errorf("max links per page must be at least 1, got %d", c.MaxLinksPerPage)
	}
	if c.RedisPublish && c.RedisAddr == "" {
		return fmt.Errorf("redis publishing enabled but no redis address configured")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
