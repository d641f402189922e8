package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/api/middlewares"
	"github.com/mirtitov/library-catalog/internal/validate"
)

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !validate.IsUUID(id) {
		apperr.Write(w, r, apperr.Validation([]apperr.FieldError{
			{Field: "id", Code: "invalid", Message: "id must be a UUID"},
		}))
		return "", false
	}
	return id, true
}

// adminID is always present: the route chain runs inside RequireAuth.
func adminID(ctx context.Context) string {
	id, _ := middlewares.UserIDFrom(ctx)
	return id
}

func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 25
	}
	return page, size
}

func parseTimeParam(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

func rateKey(action, adminID string) string { return "admin:rl:" + action + ":" + adminID }

// checkRateLimit throttles per admin per action. Fail-open without Redis;
// destructive endpoints stay usable on memory-cache deployments.
func (h *Handler) checkRateLimit(ctx context.Context, w http.ResponseWriter, r *http.Request, action, adminID string, limit int, window time.Duration) bool {
	if h.RDB == nil {
		return true
	}
	pipe := h.RDB.TxPipeline()
	incr := pipe.Incr(ctx, rateKey(action, adminID))
	pipe.Expire(ctx, rateKey(action, adminID), window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true
	}
	if int(incr.Val()) > limit {
		apperr.WriteStatus(w, r, http.StatusTooManyRequests, "Too Many Requests", "admin action rate limit exceeded")
		return false
	}
	return true
}
