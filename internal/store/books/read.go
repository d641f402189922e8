package books

import (
	"context"

	"github.com/mirtitov/library-catalog/internal/models"
	"github.com/mirtitov/library-catalog/internal/store/dbx"
)

// GetByID returns sql.ErrNoRows when the book does not exist.
func GetByID(ctx context.Context, db dbx.Getter, id string) (models.Book, error) {
	const q = `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1`
	return scanBook(db.QueryRowContext(ctx, q, id))
}

// ExistsISBN is the pre-insert duplicate check; the unique index still
// backstops races.
func ExistsISBN(ctx context.Context, db dbx.Getter, isbn string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`
	var exists bool
	err := db.QueryRowContext(ctx, q, isbn).Scan(&exists)
	return exists, err
}
