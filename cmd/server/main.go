package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/gpu-wars/internal/config"
	"github.com/freeeve/gpu-wars/internal/handler"
	"github.com/freeeve/gpu-wars/internal/logger"
	"github.com/freeeve/gpu-wars/internal/middleware"
	"github.com/freeeve/gpu-wars/internal/repository"
	"github.com/freeeve/gpu-wars/internal/repository/postgres"
	redisrepo "github.com/freeeve/gpu-wars/internal/repository/redis"
	"github.com/freeeve/gpu-wars/internal/repository/sqlite"
	"github.com/freeeve/gpu-wars/internal/service"
	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Config load failed")
	}
	logger.Init(cfg.LogLevel, cfg.Dev, cfg.LogFile)
	log.Info().Str("store", cfg.LeaderboardStore).Bool("cache", cfg.RedisURL != "").Msg("Config loaded")

	// Catalog
	var catalog *gpuwars.Catalog
	if cfg.CatalogPath != "" {
		catalog, err = gpuwars.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Catalog load failed")
		}
	}

	// Database
	db, leaderboardRepo, matchRepo, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis
	var cache repository.LeaderboardCache
	if cfg.RedisURL != "" {
		redisClient, err := redisrepo.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		cache = redisClient
	}

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	lbSvc := service.NewLeaderboardService(leaderboardRepo, cache, wsHub)

	// Handlers
	mux := handler.NewMux(
		handler.NewLeaderboardHandler(lbSvc),
		handler.NewMatchHandler(leaderboardRepo, matchRepo, lbSvc, wsHub, catalog, cfg.EventLogDir),
		handler.NewWSHandler(wsHub),
	)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Recover, middleware.Logger, middleware.CORS(cfg.CORSOrigins), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}

// openStore connects the configured leaderboard backend and returns its repos.
func openStore(cfg *config.Config) (*sql.DB, repository.LeaderboardRepository, repository.MatchRepository, error) {
	if cfg.LeaderboardStore == config.StorePostgres {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return db, postgres.NewLeaderboardRepo(db), postgres.NewMatchRepo(db), nil
	}

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info().Str("path", cfg.SQLitePath).Msg("SQLite store opened")
	return db, sqlite.NewLeaderboardRepo(db), sqlite.NewMatchRepo(db), nil
}
