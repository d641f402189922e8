package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/mirtitov/library-catalog/internal/cache"
	"github.com/mirtitov/library-catalog/internal/models"
)

// Cached wraps Client with cache-aside storage of lookup responses so repeat
// misses for the same book do not re-hit the upstream within the TTL. Only
// successful lookups are cached; no-match answers are asked again next time.
type Cached struct {
	client *Client
	store  cache.Store
	ttl    time.Duration
}

func NewCached(client *Client, store cache.Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cached{client: client, store: store, ttl: ttl}
}

func (c *Cached) Enrich(ctx context.Context, title, author, isbn string) (*models.Enrichment, error) {
	key := cache.LookupQueryKey(title, author)
	if isbn != "" {
		key = cache.LookupISBNKey(isbn)
	}

	if b, err := c.store.Get(ctx, key); err == nil {
		var e models.Enrichment
		if json.Unmarshal(b, &e) == nil && e.Enriched() {
			return &e, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("[lookup][cache] get failed: %v (treating as miss)", err)
	}

	e, err := c.client.Enrich(ctx, title, author, isbn)
	if err != nil {
		return nil, err
	}

	if b, merr := json.Marshal(e); merr == nil {
		if serr := c.store.Set(ctx, key, b, c.ttl); serr != nil {
			log.Printf("[lookup][cache] set failed: %v", serr)
		}
	}
	return e, nil
}
