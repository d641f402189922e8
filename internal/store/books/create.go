package books

import (
	"context"

	"github.com/google/uuid"
	"github.com/mirtitov/library-catalog/internal/models"
	"github.com/mirtitov/library-catalog/internal/store/dbx"
)

// Create inserts the book and fills ID/CreatedAt/UpdatedAt on b. The unique
// index on isbn is the backstop for concurrent duplicate creates.
func Create(ctx context.Context, db dbx.Getter, b *models.Book) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	extra, err := marshalExtra(b.Extra)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO books (book_id, title, author, year, genre, pages, available, isbn, description, extra)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at, updated_at`
	return db.QueryRowContext(ctx, q,
		b.ID, b.Title, b.Author, b.Year, b.Genre, b.Pages, b.Available,
		nullIfEmpty(b.ISBN), nullIfEmpty(b.Description), extra,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}
