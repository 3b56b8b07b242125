package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/ai-shopping-assistant/backend/internal/cache"
	"example.com/ai-shopping-assistant/backend/internal/config"
	"example.com/ai-shopping-assistant/backend/internal/database"
	"example.com/ai-shopping-assistant/backend/internal/server"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx := context.Background()
	deps := server.Dependencies{}

	if cfg.Database.Enabled {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()

		if err := database.EnsureSchema(ctx, db); err != nil {
			logger.Error("failed to prepare database schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
		deps.DB = db
	}

	if cfg.Redis.Enabled() {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, exchange rates will not be cached", slog.String("error", err.Error()))
		} else {
			defer func() {
				_ = redisCache.Close()
			}()
			deps.RatesCache = redisCache
		}
	}

	e := server.New(cfg, logger, deps)
	httpServer := server.NewHTTPServer(cfg.Server, e)

	go func() {
		logger.Info("http server starting",
			slog.String("addr", httpServer.Addr),
			slog.String("ai_provider", cfg.AI.Provider),
			slog.String("rates_provider", cfg.Currency.Provider),
			slog.Bool("database", deps.DB != nil),
			slog.Bool("rates_cache", deps.RatesCache != nil))
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
