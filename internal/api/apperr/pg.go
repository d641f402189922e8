package apperr

import (
	"errors"
	"net/http"
	"strings"

	pgconnlegacy "github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5/pgconn"
)

// Map well-known constraint names to fields (extend as you add constraints)
var constraintField = map[string]string{
	"books_isbn_key":     "isbn",
	"books_year_check":   "year",
	"books_pages_check":  "pages",
	"users_email_key":    "email",
	"users_username_key": "username",
	"users_role_check":   "role",
}

// Guess a field from a column name present in PG error detail
func fieldFromDetail(detail string) string {
	// crude but useful
	for _, k := range []string{"isbn", "email", "username", "title", "author", "book_id", "user_id", "id"} {
		if strings.Contains(detail, k) {
			return k
		}
	}
	return ""
}

func fieldFromConstraint(c string) string {
	if f, ok := constraintField[c]; ok {
		return f
	}
	return ""
}

// pgDetails pulls the SQLSTATE and friends out of err. Both the pgx/v5 and
// the older pgconn error types are matched so the mapping works no matter
// which driver generation produced the error.
func pgDetails(err error) (code, constraint, column, detail, message string, ok bool) {
	var v5 *pgconn.PgError
	if errors.As(err, &v5) {
		return v5.Code, v5.ConstraintName, v5.ColumnName, v5.Detail, v5.Message, true
	}
	var v1 *pgconnlegacy.PgError
	if errors.As(err, &v1) {
		return v1.Code, v1.ConstraintName, v1.ColumnName, v1.Detail, v1.Message, true
	}
	return "", "", "", "", "", false
}

// FromPG maps a Postgres error to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	code, constraint, column, detail, message, ok := pgDetails(err)
	if !ok {
		return Problem{}, false
	}

	// Defaults
	p := Problem{
		Title:  "Database error",
		Status: 500,
		Detail: strings.TrimSpace(message),
	}

	// Helpful field detection
	field := fieldFromConstraint(constraint)
	if field == "" && detail != "" {
		field = fieldFromDetail(detail)
	}

	// SQLSTATE switch
	switch code {
	case "23505": // unique_violation
		p.Status = 409
		p.Title = "Conflict"
		if field == "" {
			field = "resource"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "unique", Message: "value already exists"}}
		p.Detail = ""
	case "23503": // foreign_key_violation
		p.Status = 409
		p.Title = "Conflict"
		if field == "" {
			field = "resource"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "fk", Message: "resource is referenced by other records"}}
		p.Detail = ""
	case "23502": // not_null_violation
		p.Status = 400
		p.Title = "Bad Request"
		if field == "" && column != "" {
			field = column
		}
		if field == "" {
			field = "field"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "not_null", Message: "required field is missing"}}
		p.Detail = ""
	case "23514": // check_violation
		p.Status = 422
		p.Title = "Unprocessable Entity"
		if field == "" {
			field = "field"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "check", Message: "constraint failed"}}
		p.Detail = ""
	case "22P02": // invalid_text_representation (e.g., bad UUID)
		p.Status = 400
		p.Title = "Bad Request"
		if field == "" {
			// common case: path param id/uuid
			field = "id"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "invalid", Message: "invalid format"}}
		p.Detail = ""
	case "22001": // string_data_right_truncation
		p.Status = 400
		p.Title = "Bad Request"
		if field == "" {
			field = "field"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "too_long", Message: "value is too long"}}
		p.Detail = ""
	case "40001": // serialization_failure
		p.Status = 409
		p.Title = "Conflict"
		p.Detail = "transaction conflict, please retry"
		p.Retryable = true
	case "40P01": // deadlock_detected
		p.Status = 409
		p.Title = "Conflict"
		p.Detail = "deadlock detected, please retry"
		p.Retryable = true
	default:
		// keep default 500 with minimal detail
		p.Title = "Database error"
		p.Detail = ""
	}

	return p, true
}

// HandleDBError maps err to a Problem and writes it. Returns true if handled.
func HandleDBError(w http.ResponseWriter, r *http.Request, err error, fallbackTitle string) bool {
	if err == nil {
		return false
	}
	if p, ok := FromPG(err); ok {
		Write(w, r, p)
		return true
	}
	// not a PG error: generic 500
	Write(w, r, Problem{Status: 500, Title: fallbackTitle})
	return true
}
