package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	mw "github.com/mirtitov/library-catalog/internal/api/middlewares"
	"github.com/mirtitov/library-catalog/internal/api/router"
	"github.com/mirtitov/library-catalog/internal/cache"
	"github.com/mirtitov/library-catalog/internal/catalog"
	"github.com/mirtitov/library-catalog/internal/config"
	"github.com/mirtitov/library-catalog/internal/enrich"
	"github.com/mirtitov/library-catalog/internal/lookup/openlibrary"
	jwtutil "github.com/mirtitov/library-catalog/internal/security/jwt"
	s3storage "github.com/mirtitov/library-catalog/internal/storage/s3"
	storebooks "github.com/mirtitov/library-catalog/internal/store/books"
	"github.com/mirtitov/library-catalog/internal/store/pgconnect"
	"github.com/mirtitov/library-catalog/internal/validate"
	"github.com/mirtitov/library-catalog/pkg/utils"
)

// lookupCacheTTL is how long Open Library responses are reused. Book
// metadata barely changes, so a day saves a lot of upstream calls.
const lookupCacheTTL = 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	if err := validate.Env(); err != nil {
		log.Fatalf("[config] %v", err)
	}
	for _, warn := range validate.HardeningWarnings(cfg.AccessTTL, cfg.RefreshTTL, cfg.RedisURL) {
		log.Printf("[config] warning: %s", warn)
	}

	db, err := pgconnect.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[db] %v", err)
	}
	defer db.Close()
	log.Printf("[db] connected")

	// rdb stays nil on memory-cache deployments; everything downstream
	// that takes it fails open.
	var (
		cs  cache.Store
		rdb *redis.Client
	)
	if cfg.CacheBackend == "redis" {
		rdb, err = cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("[cache] %v", err)
		}
		if err := validate.PingRedis(rdb, 3*time.Second); err != nil {
			log.Fatalf("[cache] redis ping: %v", err)
		}
		cs = cache.NewRedis(rdb, cfg.CacheOpTimeout)
		log.Printf("[cache] redis backend ready")
	} else {
		cs = cache.NewMemory(cfg.CacheMaxEntries)
		log.Printf("[cache] memory backend ready (max %d entries)", cfg.CacheMaxEntries)
	}

	tokens := jwtutil.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, cfg.ClockSkew)

	lookup := openlibrary.NewCached(
		openlibrary.New(cfg.OpenLibraryURL, cfg.LookupTimeout, cfg.LookupRPS),
		cs, lookupCacheTTL,
	)

	svc := catalog.New(storebooks.NewStore(db), cs, lookup, catalog.Config{
		CacheTTL:        cfg.CacheTTL,
		PageSizeDefault: cfg.PageSizeDefault,
		PageSizeMax:     cfg.PageSizeMax,
	})

	if cfg.CoverMirrorEnabled {
		s3c, err := s3storage.New(context.Background())
		if err != nil {
			log.Fatalf("[s3] %v", err)
		}
		svc.EnableCoverMirror(s3storage.NewCoverMirror(s3c))
		log.Printf("[s3] cover mirroring enabled")
	}

	queue := enrich.Start(svc, cfg.EnrichBuffer, cfg.EnrichWorkers)

	handler := router.Router(router.Deps{
		DB:     db,
		RDB:    rdb,
		Cache:  cs,
		Svc:    svc,
		Queue:  queue,
		Tokens: tokens,
	})

	tb := mw.NewRedisTokenBucket(rdb, 5, 20, mw.PerIPKey("tb"))
	sw := mw.NewRedisSlidingWindow(rdb, 3000, time.Hour, mw.PerIPKey("sw"))

	chain := utils.ApplyMiddleware(
		handler,
		mw.RequestID,
		mw.Recovery,
		mw.Cors(cfg.CORSOrigins),
		mw.ResponseTimeMiddleware,
		mw.HPP(mw.QueryParams()),
		mw.BodySizeLimit,
		tb.Middleware,
		sw.Middleware,
		mw.Compression,
		mw.SecurityHeaders,
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      chain,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[http] listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[http] %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("[http] shutting down")

	// Drain in-flight requests first; they may still enqueue enrichment.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[http] shutdown: %v", err)
	}
	queue.Shutdown()

	log.Printf("[http] stopped")
}
