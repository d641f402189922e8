package validate

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Env validates security tuning that lives outside the main config struct
// (the password package reads ARGON2_* directly). Fail-fast on bad values.
func Env() error {
	if err := envMinUint("ARGON2_MEMORY", 65536); err != nil { // >= 64MiB
		return fmt.Errorf("ARGON2_MEMORY: %w", err)
	}
	if err := envMinUint("ARGON2_ITER", 2); err != nil {
		return fmt.Errorf("ARGON2_ITER: %w", err)
	}
	if err := envMinUint("ARGON2_PAR", 1); err != nil {
		return fmt.Errorf("ARGON2_PAR: %w", err)
	}
	return nil
}

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func HardeningWarnings(accessTTL, refreshTTL time.Duration, redisURL string) []string {
	var warns []string

	if accessTTL > time.Hour {
		warns = append(warns, fmt.Sprintf("access token TTL %s is > 1h; consider shorter access tokens", accessTTL))
	}
	if refreshTTL < 24*time.Hour {
		warns = append(warns, fmt.Sprintf("refresh token TTL %s is < 24h; users may be logged out too often", refreshTTL))
	}
	if redisURL != "" && strings.HasPrefix(redisURL, "redis://") && !strings.Contains(redisURL, "localhost") && !strings.Contains(redisURL, "127.0.0.1") {
		warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for remote instances")
	}
	if os.Getenv("ARGON2_MEMORY") == "" || os.Getenv("ARGON2_ITER") == "" {
		warns = append(warns, "ARGON2_* not explicitly set; using code defaults. Set strong values in production")
	}

	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(rdb *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := rdb.Ping(ctx).Result()
	return err
}

func envMinUint(key string, min uint64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil // unset -> code defaults apply elsewhere
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("not a number: %v", err)
	}
	if n < min {
		return fmt.Errorf("must be >= %d", min)
	}
	return nil
}
