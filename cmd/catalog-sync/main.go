package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"characterhub/database"
	"characterhub/internal/api/repository"
	"characterhub/internal/cache"
	"characterhub/internal/catalog"
	"characterhub/internal/catalog/jikan"
	"characterhub/internal/catalog/tmdb"
	"characterhub/internal/config"
	"characterhub/internal/ingestion"
	"characterhub/internal/logging"
)

// catalog-sync runs one full sync pass and exits. Meant for cron or a
// one-off seed after deploy.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cacheClient, err := cache.New(ctx, cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, cache invalidation skipped")
		cacheClient = nil
	}
	defer cacheClient.Close()

	catalogs := catalog.NewRegistry(
		tmdb.NewAdapter(tmdb.NewClient(cfg.TMDBAPIURL, cfg.TMDBAccessToken)),
		jikan.NewAdapter(jikan.NewClient(cfg.JikanAPIURL)),
	)

	syncService := ingestion.NewSyncService(
		catalogs,
		repository.NewCharacterRepository(db),
		cacheClient,
		ingestion.SyncConfig{MediaLimit: cfg.SyncMediaLimit, WorkerCount: cfg.SyncWorkerCount},
	)

	report, err := syncService.SyncAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("sync failed")
	}
	log.Info().
		Int("media_queued", report.MediaQueued).
		Int("media_failed", report.MediaFailed).
		Int("characters", report.CharactersUpserted).
		Msg("sync finished")
}
