package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is resolved once in main and handed to constructors.
type Config struct {
	Addr        string
	DatabaseURL string

	CacheBackend    string // "memory" | "redis"
	RedisURL        string
	CacheTTL        time.Duration
	CacheMaxEntries int
	CacheOpTimeout  time.Duration

	PageSizeDefault int
	PageSizeMax     int

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ClockSkew  time.Duration

	OpenLibraryURL string
	LookupTimeout  time.Duration
	LookupRPS      int

	EnrichWorkers int
	EnrichBuffer  int

	CoverMirrorEnabled bool

	CORSOrigins []string
	Debug       bool
}

// Load reads the environment once. DATABASE_URL and AUTH_JWT_SECRET are
// required; everything else has a sensible default.
func Load() (Config, error) {
	cfg := Config{
		Addr:        envStr("PORT", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		CacheBackend:    strings.ToLower(envStr("CACHE_BACKEND", "memory")),
		RedisURL:        os.Getenv("REDIS_URL"),
		CacheTTL:        envDur("CACHE_TTL", "5m"),
		CacheMaxEntries: envInt("CACHE_MAX_ENTRIES", 1000),
		CacheOpTimeout:  envDur("CACHE_OP_TIMEOUT", "150ms"),

		PageSizeDefault: envInt("PAGE_SIZE_DEFAULT", 20),
		PageSizeMax:     envInt("PAGE_SIZE_MAX", 100),

		JWTSecret:  os.Getenv("AUTH_JWT_SECRET"),
		AccessTTL:  envDur("AUTH_ACCESS_TTL", "30m"),
		RefreshTTL: envDur("AUTH_REFRESH_TTL", "168h"),
		ClockSkew:  envDur("AUTH_CLOCK_SKEW", "60s"),

		OpenLibraryURL: envStr("OPENLIBRARY_BASE_URL", "https://openlibrary.org"),
		LookupTimeout:  envDur("OPENLIBRARY_TIMEOUT", "10s"),
		LookupRPS:      envInt("OPENLIBRARY_RPS", 3),

		EnrichWorkers: envInt("ENRICH_WORKERS", 2),
		EnrichBuffer:  envInt("ENRICH_BUFFER", 1000),

		CoverMirrorEnabled: envBool("COVER_MIRROR_ENABLED", false),

		CORSOrigins: splitCSV(envStr("CORS_ORIGINS", "http://localhost:5173")),
		Debug:       envBool("DEBUG", false),
	}

	if !strings.HasPrefix(cfg.Addr, ":") {
		cfg.Addr = ":" + cfg.Addr
	}
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("AUTH_JWT_SECRET not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Printf("[config] AUTH_JWT_SECRET is shorter than 32 bytes; use a stronger secret in production")
	}
	if cfg.CacheBackend != "memory" && cfg.CacheBackend != "redis" {
		return cfg, errors.New("CACHE_BACKEND must be \"memory\" or \"redis\"")
	}
	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		return cfg, errors.New("REDIS_URL not set (required for CACHE_BACKEND=redis)")
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key, def string) time.Duration {
	s := def
	if v := os.Getenv(key); v != "" {
		s = v
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
