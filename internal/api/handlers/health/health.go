package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/mirtitov/library-catalog/internal/api/httpx"
	"github.com/mirtitov/library-catalog/internal/cache"
)

const probeTimeout = 500 * time.Millisecond

type Response struct {
	Status   string `json:"status"` // healthy | degraded | unhealthy
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Handler reports service health and dependency reachability.
type Handler struct {
	DB    *sql.DB
	Cache cache.Store
}

func New(db *sql.DB, cs cache.Store) *Handler { return &Handler{DB: db, Cache: cs} }

// GET /api/v1/health
//
// The database is load-bearing, so an unreachable database reports 503.
// The cache is fail-open and only degrades the report.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	resp := Response{Status: "healthy", Database: "connected", Cache: "connected"}
	code := http.StatusOK

	if err := h.DB.PingContext(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		code = http.StatusServiceUnavailable
	}
	if err := h.Cache.Ping(ctx); err != nil {
		resp.Cache = "disconnected"
		if resp.Status == "healthy" {
			resp.Status = "degraded"
		}
	}

	httpx.WriteJSON(w, code, resp)
}
