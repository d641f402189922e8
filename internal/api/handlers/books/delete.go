package books

import (
	"net/http"

	"github.com/mirtitov/library-catalog/internal/api/httpx"
)

// DELETE /api/v1/books/{id}
//
// Deleting the same id twice reports 404 on the second call.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.DeleteBook(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
