package books

import (
	"database/sql"
	"encoding/json"

	"github.com/mirtitov/library-catalog/internal/models"
)

const bookColumns = `book_id, title, author, year, genre, pages, available, isbn, description, extra, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(rs rowScanner) (models.Book, error) {
	var (
		b     models.Book
		isbn  sql.NullString
		descr sql.NullString
		extra []byte
	)
	err := rs.Scan(
		&b.ID, &b.Title, &b.Author, &b.Year, &b.Genre, &b.Pages, &b.Available,
		&isbn, &descr, &extra, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.Book{}, err
	}
	if isbn.Valid {
		b.ISBN = &isbn.String
	}
	if descr.Valid {
		b.Description = &descr.String
	}
	if len(extra) > 0 {
		var e models.Enrichment
		if json.Unmarshal(extra, &e) == nil && e.Enriched() {
			b.Extra = &e
		}
	}
	return b, nil
}

func marshalExtra(e *models.Enrichment) (any, error) {
	if e == nil {
		return nil, nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func nullIfEmpty(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
