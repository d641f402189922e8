package books

import (
	"net/http"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/api/httpx"
)

// POST /api/v1/books
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	b, err := h.Svc.CreateBook(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Lookup data arrives later; the create response is never blocked on it.
	if h.Queue != nil {
		h.Queue.Enqueue(b.ID)
	}

	w.Header().Set("Location", "/api/v1/books/"+b.ID)
	httpx.WriteJSON(w, http.StatusCreated, b)
}
