package books

import (
	"context"
	"strconv"
	"strings"

	"github.com/mirtitov/library-catalog/internal/models"
	"github.com/mirtitov/library-catalog/internal/store/dbx"
)

// Update applies only the provided fields and returns the updated row.
// sql.ErrNoRows when the book does not exist.
func Update(ctx context.Context, db dbx.Getter, id string, f UpdateFields) (models.Book, error) {
	set := []string{}
	args := []any{}
	i := 1

	add := func(col string, v any) {
		set = append(set, col+" = $"+strconv.Itoa(i))
		args = append(args, v)
		i++
	}

	if f.Title != nil {
		add("title", *f.Title)
	}
	if f.Author != nil {
		add("author", *f.Author)
	}
	if f.Year != nil {
		add("year", *f.Year)
	}
	if f.Genre != nil {
		add("genre", *f.Genre)
	}
	if f.Pages != nil {
		add("pages", *f.Pages)
	}
	if f.Available != nil {
		add("available", *f.Available)
	}
	if f.ISBN != nil {
		add("isbn", nullIfEmpty(f.ISBN))
	}
	if f.Description != nil {
		add("description", nullIfEmpty(f.Description))
	}
	set = append(set, "updated_at = now()")

	q := `UPDATE books SET ` + strings.Join(set, ", ") +
		` WHERE book_id = $` + strconv.Itoa(i) +
		` RETURNING ` + bookColumns
	args = append(args, id)

	return scanBook(db.QueryRowContext(ctx, q, args...))
}

// SetExtra persists the enrichment payload without touching updated_at:
// lookups annotate a row, they do not edit it.
func SetExtra(ctx context.Context, db dbx.Execer, id string, e *models.Enrichment) error {
	extra, err := marshalExtra(e)
	if err != nil {
		return err
	}
	const q = `UPDATE books SET extra = $1 WHERE book_id = $2`
	_, err = db.ExecContext(ctx, q, extra, id)
	return err
}
