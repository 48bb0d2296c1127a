// Package config loads application configuration from environment
// variables. Required variables abort startup with a fatal log when
// missing; optional subsystems (Redis cache, rate limiting) degrade to
// defaults or no-ops.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field maps to an
// environment variable.
type Config struct {
	Env            string        // APP_ENV (dev/test/prod)
	Port           string        // APP_PORT, HTTP listen port
	DBUser         string        // DB_USER
	DBPass         string        // DB_PASS (optional)
	DBHost         string        // DB_HOST
	DBPort         string        // DB_PORT
	DBName         string        // DB_NAME
	DBMaxOpen      int           // DB_MAX_OPEN_CONNS (default 25)
	DBMaxIdle      int           // DB_MAX_IDLE_CONNS (default 25)
	DBConnLifetime time.Duration // DB_CONN_MAX_LIFETIME (default 30m)
	JWTSecret      string        // JWT_SECRET, HS256 signing secret
	AccessTTLMin   int           // ACCESS_TOKEN_TTL_MIN
	RefreshTTLDays int           // REFRESH_TOKEN_TTL_DAYS
	BcryptCost     int           // BCRYPT_COST
	MediaBaseURL   string        // MEDIA_BASE_URL, public base for show images (optional)
	MediaRoot      string        // MEDIA_ROOT, local directory uploads are written to
}

// Load reads configuration from the environment. Missing required
// variables terminate the process.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMaxOpen:      atoi(getenv("DB_MAX_OPEN_CONNS", "25")),
		DBMaxIdle:      atoi(getenv("DB_MAX_IDLE_CONNS", "25")),
		DBConnLifetime: parseDur(getenv("DB_CONN_MAX_LIFETIME", "30m")),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		MediaBaseURL:   os.Getenv("MEDIA_BASE_URL"),
		MediaRoot:      getenv("MEDIA_ROOT", "media"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() plus integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
