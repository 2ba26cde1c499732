package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config collects every knob the service reads from the environment.
// main calls godotenv.Load first, so a local .env file works too.
type Config struct {
	Port        string
	UpstreamURL string // printf template with one %s for the username

	FetchMode string        // "live" or "mock"
	FetchRate time.Duration // minimum interval between upstream requests

	CacheBackend string // "memory" or "sqlite"
	CacheTTL     time.Duration
	CacheDBPath  string

	PageCapacity   int
	NonceTTL       time.Duration
	RequestTimeout time.Duration

	AuditPath string
	SeedPath  string
}

func Load() (Config, error) {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		UpstreamURL:  getenv("UPSTREAM_URL", "http://www.tipidpc.com/useritems.php?username=%s"),
		FetchMode:    getenv("FETCH_MODE", "live"),
		CacheBackend: getenv("CACHE_BACKEND", "memory"),
		CacheDBPath:  getenv("CACHE_DB_PATH", "data/pricelists.db"),
		AuditPath:    getenv("AUDIT_PATH", "data/events.json"),
		SeedPath:     getenv("SEED_PATH", "input/owners.csv"),
	}

	var err error
	if cfg.FetchRate, err = duration("FETCH_RATE", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = duration("CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.NonceTTL, err = duration("NONCE_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = duration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	capacity := getenv("PAGE_CAPACITY", "72")
	cfg.PageCapacity, err = strconv.Atoi(capacity)
	if err != nil || cfg.PageCapacity <= 0 {
		return Config{}, fmt.Errorf("PAGE_CAPACITY must be a positive integer, got %q", capacity)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
