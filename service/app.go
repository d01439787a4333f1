package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"newsportal/app/cache"
	"newsportal/app/client"
	"newsportal/app/config"
	"newsportal/app/metrics"
	"newsportal/app/repositories"
	"newsportal/app/routes"

	"github.com/dgraph-io/badger/v4"
)

const (
	gcInterval     = 10 * time.Minute
	gcDiscardRatio = 0.5
)

// RunAppServer starts the news portal and blocks until ctx is cancelled
func RunAppServer(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	configure(cfg)

	db, err := repositories.OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	go collectGarbage(ctx, db, log)

	m := metrics.NewPrometheusProvider()

	var api client.API = client.NewPostClient(cfg.API, log, m)
	if cfg.Redis.Enabled() {
		store, err := cache.NewRedisStore(cfg.Redis, log)
		if err != nil {
			log.Warn("Post cache disabled", slog.String("error", err.Error()))
		} else {
			defer store.Close()
			api = client.NewCachedPostClient(api, store, cfg.Redis.TTL, log, m)
		}
	}

	router, err := routes.SetupRoutes(routes.Dependencies{
		Config:   cfg,
		API:      api,
		Sessions: repositories.NewBadgerSessionRepository(db, cfg.Session.TTL),
		Uploads:  repositories.NewBadgerUploadRepository(db, cfg.Session.TTL),
		Metrics:  m,
		Log:      log,
	})
	if err != nil {
		return err
	}

	log.Info("Starting news portal",
		slog.String("env", cfg.Env),
		slog.String("api", cfg.API.BaseURL),
		slog.String("database", dbPath),
	)
	m.SetServiceHealth(true)
	defer m.SetServiceHealth(false)

	return routes.StartServer(ctx, cfg.ListenAddr(), router, log)
}

// collectGarbage reclaims value log space left behind by expired sessions.
func collectGarbage(ctx context.Context, db *badger.DB, log *slog.Logger) {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := db.RunValueLogGC(gcDiscardRatio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				log.Warn("Value log GC failed", slog.String("error", err.Error()))
			}
		}
	}
}
