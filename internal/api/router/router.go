package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mirtitov/library-catalog/internal/api/handlers/books"
	"github.com/mirtitov/library-catalog/internal/api/handlers/health"
	"github.com/mirtitov/library-catalog/internal/api/middlewares"
	"github.com/mirtitov/library-catalog/internal/auth"
	"github.com/mirtitov/library-catalog/internal/cache"
	"github.com/mirtitov/library-catalog/internal/catalog"
	"github.com/mirtitov/library-catalog/internal/enrich"
	jwtutil "github.com/mirtitov/library-catalog/internal/security/jwt"
)

// Deps carries everything the routes need; main builds it once.
type Deps struct {
	DB     *sql.DB
	RDB    *redis.Client // nil on memory-cache deployments
	Cache  cache.Store
	Svc    *catalog.Service
	Queue  *enrich.Queue
	Tokens *jwtutil.Manager
}

// Router mounts the /api/v1 surface. Reads are public; writes need a valid
// access token; deletes and /admin/* also need the admin role.
func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	authed := func(next http.Handler) http.Handler {
		return middlewares.RequireAuth(d.DB, d.Tokens, next)
	}
	adminOnly := func(next http.Handler) http.Handler {
		return authed(middlewares.RequireAdmin(next))
	}

	// Health
	mux.HandleFunc("GET /api/v1/health", health.New(d.DB, d.Cache).Check)

	// Books
	bh := books.New(d.Svc, d.Queue)
	mux.HandleFunc("GET /api/v1/books", bh.List)
	mux.Handle("POST /api/v1/books", authed(http.HandlerFunc(bh.Create)))
	mux.HandleFunc("GET /api/v1/books/{id}", bh.Get)
	mux.HandleFunc("GET /api/v1/books/{id}/cover", bh.Cover)
	mux.Handle("PATCH /api/v1/books/{id}", authed(http.HandlerFunc(bh.Patch)))
	mux.Handle("DELETE /api/v1/books/{id}", adminOnly(http.HandlerFunc(bh.Delete)))

	// Auth. Register and login carry their own per-IP limiter on top of the
	// global ones; both fail open without Redis.
	ah := auth.New(auth.NewSQLStore(d.DB), d.Tokens)
	mux.Handle("POST /api/v1/auth/register",
		middlewares.LoginRateLimit(d.RDB, 5, 15*time.Minute, http.HandlerFunc(ah.Register)))
	mux.Handle("POST /api/v1/auth/login",
		middlewares.LoginRateLimit(d.RDB, 10, 5*time.Minute, http.HandlerFunc(ah.Login)))
	mux.HandleFunc("POST /api/v1/auth/refresh", ah.Refresh)
	mux.Handle("GET /api/v1/auth/me", authed(http.HandlerFunc(ah.Me)))

	mountAdmin(mux, d, bh, adminOnly)

	return mux
}
