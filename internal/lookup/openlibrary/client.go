package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/mirtitov/library-catalog/internal/models"
	"golang.org/x/time/rate"
)

// ErrNoMatch means the search ran fine but found nothing usable.
var ErrNoMatch = errors.New("openlibrary: no match")

const coverURLFmt = "https://covers.openlibrary.org/b/id/%d-L.jpg"

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	timeout    time.Duration
	limiter    *rate.Limiter
}

// New builds a search client with a per-call timeout and a client-side rate
// limit so bursts of cache misses cannot hammer the upstream.
func New(baseURL string, timeout time.Duration, rps int) *Client {
	if baseURL == "" {
		baseURL = "https://openlibrary.org"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if rps < 1 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout + time.Second},
		baseURL:    baseURL,
		userAgent:  "library-catalog/1.0",
		timeout:    timeout,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	CoverID          int      `json:"cover_i"`
	Subject          []string `json:"subject"`
	Publisher        []string `json:"publisher"`
	Language         []string `json:"language"`
	RatingsAverage   float64  `json:"ratings_average"`
	FirstPublishYear int      `json:"first_publish_year"`
	EditionCount     int      `json:"edition_count"`
}

// SearchByISBN queries /search.json?isbn=... (one hit is enough).
func (c *Client) SearchByISBN(ctx context.Context, isbn string) (*models.Enrichment, error) {
	q := url.Values{}
	q.Set("isbn", isbn)
	q.Set("limit", "1")
	return c.search(ctx, q)
}

// SearchByTitleAuthor is the fallback when no ISBN is on record.
func (c *Client) SearchByTitleAuthor(ctx context.Context, title, author string) (*models.Enrichment, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("author", author)
	q.Set("limit", "1")
	return c.search(ctx, q)
}

// Enrich tries ISBN first, then falls back to title+author. The fallback is
// skipped once the context is done.
func (c *Client) Enrich(ctx context.Context, title, author, isbn string) (*models.Enrichment, error) {
	if isbn != "" {
		e, err := c.SearchByISBN(ctx, isbn)
		if err == nil {
			return e, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return c.SearchByTitleAuthor(ctx, title, author)
}

func (c *Client) search(ctx context.Context, q url.Values) (*models.Enrichment, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openlibrary: unexpected status code: %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("openlibrary: decode: %w", err)
	}
	if len(sr.Docs) == 0 {
		return nil, ErrNoMatch
	}
	e := extract(sr.Docs[0])
	if !e.Enriched() {
		return nil, ErrNoMatch
	}
	return e, nil
}

func extract(d searchDoc) *models.Enrichment {
	e := &models.Enrichment{}
	if d.CoverID > 0 {
		e.CoverURL = fmt.Sprintf(coverURLFmt, d.CoverID)
	}
	if len(d.Subject) > 0 {
		e.Subjects = NormalizeSubjects(d.Subject, 10)
	}
	if len(d.Publisher) > 0 {
		e.Publisher = d.Publisher[0]
	}
	if len(d.Language) > 0 {
		e.Language = d.Language[0]
	}
	if d.RatingsAverage > 0 {
		e.Rating = math.Round(d.RatingsAverage*100) / 100
	}
	if d.FirstPublishYear > 0 {
		e.FirstPublishYear = d.FirstPublishYear
	}
	if d.EditionCount > 0 {
		e.EditionCount = d.EditionCount
	}
	return e
}

