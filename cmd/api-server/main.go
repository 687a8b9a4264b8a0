package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"characterhub/database"
	"characterhub/internal/api/handler"
	"characterhub/internal/api/middleware"
	"characterhub/internal/api/repository"
	"characterhub/internal/api/service"
	"characterhub/internal/cache"
	"characterhub/internal/catalog"
	"characterhub/internal/catalog/jikan"
	"characterhub/internal/catalog/tmdb"
	"characterhub/internal/config"
	"characterhub/internal/ingestion"
	"characterhub/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close(db)

	// Redis is optional: a nil client degrades to an always-miss cache.
	ctx := context.Background()
	cacheClient, err := cache.New(ctx, cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, caching disabled")
		cacheClient = nil
	}
	defer cacheClient.Close()

	catalogs := catalog.NewRegistry(
		tmdb.NewAdapter(tmdb.NewClient(cfg.TMDBAPIURL, cfg.TMDBAccessToken)),
		jikan.NewAdapter(jikan.NewClient(cfg.JikanAPIURL)),
	)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := service.NewUserService(userRepo, reviewRepo)
	characterService := service.NewCharacterService(characterRepo, reviewRepo, catalogs, cacheClient)
	reviewService := service.NewReviewService(reviewRepo, likeRepo, characterRepo, characterService)
	searchService := service.NewSearchService(catalogs, characterRepo, cacheClient)
	syncService := ingestion.NewSyncService(catalogs, characterRepo, cacheClient, ingestion.SyncConfig{
		MediaLimit:  cfg.SyncMediaLimit,
		WorkerCount: cfg.SyncWorkerCount,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.Auth(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := r.Group("/api")
	handler.NewAuthHandler(authService).RegisterRoutes(api)
	handler.NewCharacterHandler(characterService, syncService).RegisterRoutes(api, requireAuth)
	handler.NewReviewHandler(reviewService, userService).RegisterRoutes(api, requireAuth, optionalAuth)
	handler.NewUserHandler(userService).RegisterRoutes(api)
	handler.NewSearchHandler(searchService).RegisterRoutes(api)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Info().Str("addr", addr).Msg("api server listening")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
