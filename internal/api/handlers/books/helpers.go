package books

import (
	"errors"
	"net/http"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/catalog"
	"github.com/mirtitov/library-catalog/internal/validate"
)

// pathID pulls {id} out of the route and rejects anything that is not a
// UUID before the service layer sees it.
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

// writeServiceError translates catalog errors into problem responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		fields := make([]apperr.FieldError, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			fields = append(fields, apperr.FieldError{Field: f.Field, Code: "invalid", Message: f.Message})
		}
		apperr.Write(w, r, apperr.Validation(fields))
	case errors.Is(err, catalog.ErrDuplicateISBN):
		apperr.Write(w, r, apperr.Problem{
			Status: http.StatusConflict,
			Title:  "Conflict",
			Detail: "a book with this ISBN already exists",
			FieldErrors: []apperr.FieldError{
				{Field: "isbn", Code: "unique", Message: "already exists"},
			},
		})
	case errors.Is(err, catalog.ErrNotFound):
		apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "book not found")
	default:
		apperr.HandleDBError(w, r, err, "Failed to process book")
	}
}
