package books

import (
	"context"

	"github.com/mirtitov/library-catalog/internal/models"
	"github.com/mirtitov/library-catalog/internal/store/dbx"
)

// Store bundles the package functions behind one receiver so callers can
// depend on a small interface instead of *sql.DB.
type Store struct {
	db dbx.DB
}

func NewStore(db dbx.DB) *Store { return &Store{db: db} }

func (s *Store) Create(ctx context.Context, b *models.Book) error {
	return Create(ctx, s.db, b)
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Book, error) {
	return GetByID(ctx, s.db, id)
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Book, int, error) {
	return List(ctx, s.db, f)
}

func (s *Store) Update(ctx context.Context, id string, f UpdateFields) (models.Book, error) {
	return Update(ctx, s.db, id, f)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return Delete(ctx, s.db, id)
}

func (s *Store) ExistsISBN(ctx context.Context, isbn string) (bool, error) {
	return ExistsISBN(ctx, s.db, isbn)
}

func (s *Store) SetExtra(ctx context.Context, id string, e *models.Enrichment) error {
	return SetExtra(ctx, s.db, id, e)
}
