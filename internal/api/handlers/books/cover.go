package books

import (
	"errors"
	"net/http"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/api/httpx"
	"github.com/mirtitov/library-catalog/internal/catalog"
)

// GET /api/v1/books/{id}/cover
//
// Redirects to a fresh presigned URL for the mirrored cover, or to the
// origin URL when the cover was never mirrored.
func (h *Handler) Cover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	loc, err := h.Svc.CoverLocation(r.Context(), id)
	if err != nil {
		writeCoverError(w, r, err)
		return
	}
	http.Redirect(w, r, loc, http.StatusTemporaryRedirect)
}

// POST /api/v1/admin/books/{id}/cover/mirror
func (h *Handler) MirrorCover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.Svc.MirrorCover(r.Context(), id)
	if err != nil {
		writeCoverError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func writeCoverError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNoCoverStorage):
		apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Service Unavailable", "cover storage is not configured")
	case errors.Is(err, catalog.ErrNoCover):
		apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "book has no cover")
	default:
		writeServiceError(w, r, err)
	}
}
