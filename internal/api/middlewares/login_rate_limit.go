package middlewares

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginRateLimit throttles credential endpoints per client IP with a plain
// INCR+EXPIRE counter. Fail-open: no Redis, no IP, or a Redis error lets the
// request through.
func LoginRateLimit(rdb *redis.Client, max int, window time.Duration, next http.Handler) http.Handler {
	if max < 1 {
		max = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if ip == "" || rdb == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.Background()
		key := "rl:login:" + ip

		n, err := rdb.Incr(ctx, key).Result()
		if err == nil && n == 1 {
			_ = rdb.Expire(ctx, key, window).Err()
		}
		if err == nil && n > int64(max) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			http.Error(w, "too many attempts", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
