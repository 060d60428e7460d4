package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/maxviazov/match-tracker-service/internal/config"
	"github.com/maxviazov/match-tracker-service/internal/handler"
	"github.com/maxviazov/match-tracker-service/internal/logger"
	"github.com/maxviazov/match-tracker-service/internal/repository"
	"github.com/maxviazov/match-tracker-service/internal/repository/postgres"
	"github.com/maxviazov/match-tracker-service/internal/service"
)

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatalf("❌ Postgres connection failed: %v", err)
	}
	defer repo.Close()

	pool := repo.Pool()
	players := postgres.NewPlayerRepository(pool)
	matches := postgres.NewMatchRepository(pool)
	stats := postgres.NewStatsRepository(pool)
	tx := postgres.NewTxManager(pool)

	clock := clockwork.NewRealClock()
	playerSvc := service.NewPlayerService(players, appLogger)
	matchSvc := service.NewMatchService(matches, players, tx, clock, appLogger)
	statsSvc := service.NewStatsService(stats, matches, players, tx, appLogger)

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	handler.Register(r, postgres.NewPinger(pool), playerSvc, matchSvc, statsSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
	appLogger.Info().Msg("✅ Service stopped")
}
