package admin

import (
	"net/http"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/api/httpx"
)

// GET /api/v1/admin/audit
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := pageParams(r)

	items, total, err := h.Sto.ListAudit(r.Context(), AuditFilter{
		ActorID:  q.Get("actor_id"),
		TargetID: q.Get("target_id"),
		Action:   q.Get("action"),
		Since:    parseTimeParam(q.Get("since")),
		Until:    parseTimeParam(q.Get("until")),
		Page:     page,
		Size:     size,
	})
	if err != nil {
		apperr.HandleDBError(w, r, err, "Failed to list audit entries")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"data": items, "total": total, "page": page, "size": size,
	})
}
