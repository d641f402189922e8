package middlewares

import (
	"net/http"
	"os"
	"strconv"
)

// defaultBodyLimit caps request bodies. JSON handlers apply their own
// tighter cap on top; this one also covers future non-JSON endpoints.
const defaultBodyLimit = 10 << 20

// BodySizeLimit wraps mutating requests in a MaxBytesReader. Override the
// limit with MAX_BODY_SIZE (bytes).
func BodySizeLimit(next http.Handler) http.Handler {
	limit := int64(defaultBodyLimit)
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
