package admin

import (
	"github.com/redis/go-redis/v9"

	"github.com/mirtitov/library-catalog/internal/cache"
)

// Handler serves the /admin surface. Cache backs the stats snapshot; RDB is
// optional and only throttles destructive admin actions.
type Handler struct {
	Sto   Store
	Cache cache.Store
	RDB   *redis.Client
}

func NewHandler(store Store, cs cache.Store, rdb *redis.Client) *Handler {
	return &Handler{Sto: store, Cache: cs, RDB: rdb}
}
