package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mirtitov/library-catalog/internal/cache"
	"github.com/mirtitov/library-catalog/internal/models"
	"github.com/mirtitov/library-catalog/internal/store/books"
	"github.com/mirtitov/library-catalog/internal/validate"
)

// BookStore is the persistence port; the SQL implementation lives in
// store/books.
type BookStore interface {
	Create(ctx context.Context, b *models.Book) error
	GetByID(ctx context.Context, id string) (models.Book, error)
	List(ctx context.Context, f books.ListFilter) ([]models.Book, int, error)
	Update(ctx context.Context, id string, f books.UpdateFields) (models.Book, error)
	Delete(ctx context.Context, id string) error
	ExistsISBN(ctx context.Context, isbn string) (bool, error)
	SetExtra(ctx context.Context, id string, e *models.Enrichment) error
}

// LookupClient resolves bibliographic metadata; failures and no-matches are
// absorbed by the service, never surfaced to the request.
type LookupClient interface {
	Enrich(ctx context.Context, title, author, isbn string) (*models.Enrichment, error)
}

type Config struct {
	CacheTTL        time.Duration
	PageSizeDefault int
	PageSizeMax     int
}

// Service coordinates store, cache and lookup for the read/write paths.
// Cache policy is cache-aside with fail-open: any cache error is logged and
// treated as a miss.
type Service struct {
	store  BookStore
	cache  cache.Store
	lookup LookupClient
	covers CoverStorage // optional; see EnableCoverMirror
	cfg    Config
}

func New(store BookStore, cs cache.Store, lookup LookupClient, cfg Config) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.PageSizeDefault < 1 {
		cfg.PageSizeDefault = 20
	}
	if cfg.PageSizeMax < cfg.PageSizeDefault {
		cfg.PageSizeMax = 100
	}
	return &Service{store: store, cache: cs, lookup: lookup, cfg: cfg}
}

// ---- inputs ----

type CreateInput struct {
	Title       string
	Author      string
	Year        int
	Genre       string
	Pages       int
	Available   *bool // defaults to true
	ISBN        string
	Description string
}

type UpdateInput struct {
	Title       *string
	Author      *string
	Year        *int
	Genre       *string
	Pages       *int
	Available   *bool
	ISBN        *string
	Description *string
}

type ListQuery struct {
	Title     string
	Author    string
	Genre     string
	Year      int
	YearFrom  int
	YearTo    int
	Available *bool
	Page      int
	PageSize  int
}

// ---- write path ----

// CreateBook validates, pre-checks ISBN uniqueness, inserts, then bumps the
// list generation. The unique index backstops concurrent duplicate creates.
func (s *Service) CreateBook(ctx context.Context, in CreateInput) (models.Book, error) {
	b, err := s.validateCreate(in)
	if err != nil {
		return models.Book{}, err
	}

	if b.ISBN != nil {
		taken, err := s.store.ExistsISBN(ctx, *b.ISBN)
		if err != nil {
			return models.Book{}, err
		}
		if taken {
			return models.Book{}, ErrDuplicateISBN
		}
	}

	if err := s.store.Create(ctx, &b); err != nil {
		if isUniqueViolation(err) {
			return models.Book{}, ErrDuplicateISBN
		}
		return models.Book{}, err
	}

	s.bumpListGeneration(ctx)
	return b, nil
}

// UpdateBook applies a partial patch. An empty patch returns the current row
// unchanged.
func (s *Service) UpdateBook(ctx context.Context, id string, in UpdateInput) (models.Book, error) {
	fields, err := s.validateUpdate(in)
	if err != nil {
		return models.Book{}, err
	}
	if fields.Empty() {
		b, err := s.store.GetByID(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Book{}, ErrNotFound
		}
		return b, err
	}

	b, err := s.store.Update(ctx, id, fields)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return models.Book{}, ErrDuplicateISBN
		}
		return models.Book{}, err
	}

	s.invalidateBook(ctx, id)
	s.bumpListGeneration(ctx)
	return b, nil
}

// DeleteBook removes the row; a repeat delete reports ErrNotFound.
func (s *Service) DeleteBook(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.invalidateBook(ctx, id)
	s.bumpListGeneration(ctx)
	return nil
}

// ---- read path ----

// GetBook serves from cache when possible. With enrich set, a book without
// lookup data triggers a best-effort Open Library fetch; lookup failures
// still return the stored book.
func (s *Service) GetBook(ctx context.Context, id string, enrich bool) (models.Book, error) {
	if b, ok := s.cachedBook(ctx, id); ok {
		if !enrich || b.Extra.Enriched() {
			return b, nil
		}
	}

	b, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		return models.Book{}, err
	}

	if enrich && !b.Extra.Enriched() {
		s.enrichInline(ctx, &b)
	}

	s.cacheBook(ctx, b)
	return b, nil
}

// ListBooks never enriches; a page is served from cache under the current
// list generation or fetched and cached on miss.
func (s *Service) ListBooks(ctx context.Context, q ListQuery) (models.BookPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize < 1:
		q.PageSize = s.cfg.PageSizeDefault
	case q.PageSize > s.cfg.PageSizeMax:
		q.PageSize = s.cfg.PageSizeMax
	}

	key := s.listKey(ctx, q)
	if b, err := s.cache.Get(ctx, key); err == nil {
		var page models.BookPage
		if json.Unmarshal(b, &page) == nil {
			return page, nil
		}
		log.Printf("[catalog][cache] decode %s failed (treating as miss)", key)
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("[catalog][cache] get %s failed: %v (treating as miss)", key, err)
	}

	items, total, err := s.store.List(ctx, books.ListFilter{
		Title: q.Title, Author: q.Author, Genre: q.Genre,
		Year: q.Year, YearFrom: q.YearFrom, YearTo: q.YearTo,
		Available: q.Available,
		Page:      q.Page, PageSize: q.PageSize,
	})
	if err != nil {
		return models.BookPage{}, err
	}

	page := models.BookPage{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		Pages:    models.PageCount(total, q.PageSize),
	}
	if b, err := json.Marshal(page); err == nil {
		if err := s.cache.Set(ctx, key, b, s.cfg.CacheTTL); err != nil {
			log.Printf("[catalog][cache] set %s failed: %v", key, err)
		}
	}
	return page, nil
}

// EnrichBook is the background-queue entry point: fetch lookup data for a
// book that has none yet and persist it.
func (s *Service) EnrichBook(ctx context.Context, id string) error {
	b, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if b.Extra.Enriched() {
		return nil
	}

	extra, err := s.fetchEnrichment(ctx, b)
	if err != nil {
		return err
	}
	if err := s.store.SetExtra(ctx, id, extra); err != nil {
		return err
	}
	// drop any cached un-enriched copy; next read re-caches the merged row
	s.invalidateBook(ctx, id)
	return nil
}

// ---- internals ----

func (s *Service) enrichInline(ctx context.Context, b *models.Book) {
	extra, err := s.fetchEnrichment(ctx, *b)
	if err != nil {
		log.Printf("[catalog] enrichment for %s skipped: %v", b.ID, err)
		return
	}
	if err := s.store.SetExtra(ctx, b.ID, extra); err != nil {
		log.Printf("[catalog] persisting enrichment for %s failed: %v", b.ID, err)
		return
	}
	b.Extra = extra
}

func (s *Service) fetchEnrichment(ctx context.Context, b models.Book) (*models.Enrichment, error) {
	isbn := ""
	if b.ISBN != nil {
		isbn = *b.ISBN
	}
	return s.lookup.Enrich(ctx, b.Title, b.Author, isbn)
}

func (s *Service) cachedBook(ctx context.Context, id string) (models.Book, bool) {
	key := cache.BookKey(id)
	b, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("[catalog][cache] get %s failed: %v (treating as miss)", key, err)
		}
		return models.Book{}, false
	}
	var book models.Book
	if err := json.Unmarshal(b, &book); err != nil {
		log.Printf("[catalog][cache] decode %s failed (treating as miss)", key)
		return models.Book{}, false
	}
	return book, true
}

func (s *Service) cacheBook(ctx context.Context, b models.Book) {
	key := cache.BookKey(b.ID)
	buf, err := json.Marshal(b)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, buf, s.cfg.CacheTTL); err != nil {
		log.Printf("[catalog][cache] set %s failed: %v", key, err)
	}
}

func (s *Service) invalidateBook(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cache.BookKey(id)); err != nil {
		log.Printf("[catalog][cache] delete %s failed: %v", cache.BookKey(id), err)
	}
}

func (s *Service) bumpListGeneration(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, cache.VersionKey); err != nil {
		log.Printf("[catalog][cache] generation bump failed: %v", err)
	}
}

// listVersion reads the current generation; fail-open to 1 keeps lists
// served (at worst TTL-stale) when the counter is unreachable.
func (s *Service) listVersion(ctx context.Context) int64 {
	b, err := s.cache.Get(ctx, cache.VersionKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("[catalog][cache] version read failed: %v (using 1)", err)
		}
		return 1
	}
	if v, err := strconv.ParseInt(string(b), 10, 64); err == nil && v > 0 {
		return v
	}
	return 1
}

func (s *Service) listKey(ctx context.Context, q ListQuery) string {
	av := ""
	if q.Available != nil {
		av = strconv.FormatBool(*q.Available)
	}
	return cache.ListKey(s.listVersion(ctx),
		"t="+strings.ToLower(q.Title),
		"a="+strings.ToLower(q.Author),
		"g="+q.Genre,
		"y="+strconv.Itoa(q.Year),
		"yf="+strconv.Itoa(q.YearFrom),
		"yt="+strconv.Itoa(q.YearTo),
		"av="+av,
		"p="+strconv.Itoa(q.Page),
		"ps="+strconv.Itoa(q.PageSize),
	)
}

// ---- validation ----

const (
	titleMax  = 500
	authorMax = 300
	genreMax  = 100
	descrMax  = 5000
	yearMin   = 1000
	yearMax   = 2100
)

func (s *Service) validateCreate(in CreateInput) (models.Book, error) {
	ve := &ValidationError{}
	b := models.Book{Available: true}

	if v, err := validate.RequireBounded("title", in.Title, 1, titleMax); err != nil {
		ve.add("title", err.Error())
	} else {
		b.Title = v
	}
	if v, err := validate.RequireBounded("author", in.Author, 1, authorMax); err != nil {
		ve.add("author", err.Error())
	} else {
		b.Author = v
	}
	if v, err := validate.RequireBounded("genre", in.Genre, 1, genreMax); err != nil {
		ve.add("genre", err.Error())
	} else {
		b.Genre = v
	}
	if err := validate.IntInRange("year", in.Year, yearMin, yearMax); err != nil {
		ve.add("year", err.Error())
	} else {
		b.Year = in.Year
	}
	if in.Pages <= 0 {
		ve.add("pages", "pages must be greater than 0")
	} else {
		b.Pages = in.Pages
	}
	if in.Available != nil {
		b.Available = *in.Available
	}
	if in.ISBN != "" {
		if v, err := validate.NormalizeISBN(in.ISBN); err != nil {
			ve.add("isbn", err.Error())
		} else {
			b.ISBN = &v
		}
	}
	if in.Description != "" {
		if v, err := validate.OptionalBounded("description", in.Description, descrMax); err != nil {
			ve.add("description", err.Error())
		} else if v != "" {
			b.Description = &v
		}
	}

	if err := ve.orNil(); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

func (s *Service) validateUpdate(in UpdateInput) (books.UpdateFields, error) {
	ve := &ValidationError{}
	var f books.UpdateFields

	if in.Title != nil {
		if v, err := validate.RequireBounded("title", *in.Title, 1, titleMax); err != nil {
			ve.add("title", err.Error())
		} else {
			f.Title = &v
		}
	}
	if in.Author != nil {
		if v, err := validate.RequireBounded("author", *in.Author, 1, authorMax); err != nil {
			ve.add("author", err.Error())
		} else {
			f.Author = &v
		}
	}
	if in.Genre != nil {
		if v, err := validate.RequireBounded("genre", *in.Genre, 1, genreMax); err != nil {
			ve.add("genre", err.Error())
		} else {
			f.Genre = &v
		}
	}
	if in.Year != nil {
		if err := validate.IntInRange("year", *in.Year, yearMin, yearMax); err != nil {
			ve.add("year", err.Error())
		} else {
			f.Year = in.Year
		}
	}
	if in.Pages != nil {
		if *in.Pages <= 0 {
			ve.add("pages", "pages must be greater than 0")
		} else {
			f.Pages = in.Pages
		}
	}
	if in.Available != nil {
		f.Available = in.Available
	}
	if in.ISBN != nil {
		if v, err := validate.NormalizeISBN(*in.ISBN); err != nil {
			ve.add("isbn", err.Error())
		} else {
			f.ISBN = &v
		}
	}
	if in.Description != nil {
		if v, err := validate.OptionalBounded("description", *in.Description, descrMax); err != nil {
			ve.add("description", err.Error())
		} else {
			f.Description = &v
		}
	}

	if err := ve.orNil(); err != nil {
		return books.UpdateFields{}, err
	}
	return f, nil
}

func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
