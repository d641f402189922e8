package books

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mirtitov/library-catalog/internal/api/httpx"
	"github.com/mirtitov/library-catalog/internal/catalog"
	"github.com/mirtitov/library-catalog/internal/validate"
)

// GET /api/v1/books
//
// Filters: title, author, genre (substring, case-insensitive), year,
// yearFrom, yearTo, available. Paging: page, pageSize.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, size := validate.ClampPage(q.Get("page"), q.Get("pageSize"), 20, 100)

	query := catalog.ListQuery{
		Title:     strings.TrimSpace(q.Get("title")),
		Author:    strings.TrimSpace(q.Get("author")),
		Genre:     strings.TrimSpace(q.Get("genre")),
		Year:      atoiOrZero(q.Get("year")),
		YearFrom:  atoiOrZero(q.Get("yearFrom")),
		YearTo:    atoiOrZero(q.Get("yearTo")),
		Available: validate.ParseBoolParam(q.Get("available")),
		Page:      page,
		PageSize:  size,
	}

	pageOut, err := h.Svc.ListBooks(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pageOut)
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
