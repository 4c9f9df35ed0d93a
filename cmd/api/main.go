// Habit tracker API server.
//
// Wires configuration, storage, services, the nightly stats refresher, and the
// HTTP router, then serves until an interrupt arrives.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/habittracker/habit-tracker-backend/internal/api"
	"github.com/habittracker/habit-tracker-backend/internal/core/service"
	"github.com/habittracker/habit-tracker-backend/internal/infrastructure/config"
	mongodb "github.com/habittracker/habit-tracker-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/habittracker/habit-tracker-backend/internal/infrastructure/db/redis"
	"github.com/habittracker/habit-tracker-backend/internal/infrastructure/queue"
	"github.com/habittracker/habit-tracker-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Habit Tracker API
// @version         1.0
// @description     Backend service for tracking habits, completion streaks, and per-user statistics.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	habitRepo := mongodb.NewHabitRepository(db)
	completionRepo := mongodb.NewCompletionRepository(db)
	authRepo := mongodb.NewAuthRepository(db)

	for _, ensure := range []func(context.Context) error{
		habitRepo.EnsureIndexes,
		completionRepo.EnsureIndexes,
		authRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Services ---
	habitLock := redisdb.NewHabitLock(rdb)
	habitService := service.NewHabitService(habitRepo, completionRepo, habitLock, cfg.Stats.RateWindowDays, log)
	statsService := service.NewStatsService(habitRepo, completionRepo, cfg.Stats.WeeklyWindowDays, cfg.Stats.TopHabitsLimit, log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Nightly derived-stats refresh ---
	dispatcher := queue.NewDispatcher(cfg.Refresh.Workers, habitService, log)
	dispatcher.Start(ctx)
	refresher := queue.NewRefresher(habitRepo, dispatcher, log)
	refresher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Habits:    habitService,
		Stats:     statsService,
		Auth:      authService,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
