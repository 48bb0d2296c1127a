package config

import (
	"os"
	"strconv"
	"time"
)

// CacheConfig controls the read-through response cache on public GET
// endpoints and the media URL cache.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration // response cache entries
	MediaTTL     time.Duration // resolved image URLs
	Prefix       string
	MaxBodyBytes int // responses larger than this are not cached
}

// LoadCacheConfig reads cache settings from the environment, with
// defaults suitable for development.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenv("CACHE_ENABLED", "true") == "true",
		TTL:          parseDur(getenv("CACHE_TTL", "30s")),
		MediaTTL:     parseDur(getenv("MEDIA_URL_TTL", "4h")),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
