package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mirtitov/library-catalog/internal/models"
)

// CoverStorage re-hosts cover images in an object-storage bucket. The s3
// package provides the implementation.
type CoverStorage interface {
	Mirror(ctx context.Context, key, srcURL string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// EnableCoverMirror wires optional object storage for cover re-hosting.
// Without it MirrorCover reports ErrNoCoverStorage and CoverLocation falls
// back to the origin URL.
func (s *Service) EnableCoverMirror(cs CoverStorage) { s.covers = cs }

// MirrorCover copies the book's enriched cover into object storage and
// records the object key in extra. cover_url stays untouched as the origin
// reference.
func (s *Service) MirrorCover(ctx context.Context, id string) (models.Book, error) {
	if s.covers == nil {
		return models.Book{}, ErrNoCoverStorage
	}

	b, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		return models.Book{}, err
	}
	if b.Extra == nil || b.Extra.CoverURL == "" {
		return models.Book{}, ErrNoCover
	}

	// Timestamped keys keep old objects valid for presigned URLs already
	// handed out.
	key := fmt.Sprintf("covers/%s-%d.jpg", b.ID, time.Now().Unix())
	if err := s.covers.Mirror(ctx, key, b.Extra.CoverURL); err != nil {
		return models.Book{}, err
	}

	extra := *b.Extra
	extra.CoverKey = key
	if err := s.store.SetExtra(ctx, b.ID, &extra); err != nil {
		return models.Book{}, err
	}
	s.invalidateBook(ctx, id)

	b, err = s.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	return b, err
}

// CoverLocation resolves where a client should fetch the cover: a fresh
// presigned URL when mirrored, the origin URL otherwise.
func (s *Service) CoverLocation(ctx context.Context, id string) (string, error) {
	b, err := s.GetBook(ctx, id, false)
	if err != nil {
		return "", err
	}
	if b.Extra != nil && b.Extra.CoverKey != "" && s.covers != nil {
		return s.covers.PresignGet(ctx, b.Extra.CoverKey)
	}
	if b.Extra != nil && b.Extra.CoverURL != "" {
		return b.Extra.CoverURL, nil
	}
	return "", ErrNoCover
}
