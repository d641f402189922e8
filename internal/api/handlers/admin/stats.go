package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/api/httpx"
)

const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = 30 * time.Second
)

// GET /api/v1/admin/stats
//
// Counts are snapshotted for 30s; the dashboard polls harder than these
// queries deserve.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if b, err := h.Cache.Get(ctx, statsCacheKey); err == nil {
		var stats StatsResponse
		if json.Unmarshal(b, &stats) == nil {
			httpx.WriteJSON(w, http.StatusOK, stats)
			return
		}
	}

	stats, err := h.fetchStats(ctx)
	if err != nil {
		apperr.HandleDBError(w, r, err, "Failed to load stats")
		return
	}

	if b, err := json.Marshal(stats); err == nil {
		_ = h.Cache.Set(ctx, statsCacheKey, b, statsCacheTTL)
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) fetchStats(ctx context.Context) (StatsResponse, error) {
	usersTotal, usersActive, err := h.Sto.CountUsers(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	booksTotal, booksAvailable, err := h.Sto.CountBooks(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	signups, err := h.Sto.CountSignupsLast24h(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	return StatsResponse{
		UsersTotal:     usersTotal,
		UsersActive:    usersActive,
		BooksTotal:     booksTotal,
		BooksAvailable: booksAvailable,
		SignupsLast24h: signups,
	}, nil
}
