package books

import (
	"net/http"

	"github.com/mirtitov/library-catalog/internal/api/httpx"
	"github.com/mirtitov/library-catalog/internal/validate"
)

// GET /api/v1/books/{id}
//
// Enrichment is on unless ?enrich=false: a hit that is already enriched is
// served from cache, otherwise the row is merged inline on a best-effort
// basis.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	enrich := true
	if p := validate.ParseBoolParam(r.URL.Query().Get("enrich")); p != nil {
		enrich = *p
	}

	b, err := h.Svc.GetBook(r.Context(), id, enrich)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}
