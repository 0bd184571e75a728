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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"textaug/internal/api"
	"textaug/internal/config"
	"textaug/internal/wordstore"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store api.WordStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		ws := wordstore.New(client)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := ws.Ping(pingCtx); err != nil {
			logger.Warn("redis is not reachable, word sets will fail until it is",
				slog.String("addr", cfg.Redis.Addr), slog.String("error", err.Error()))
		}
		cancel()
		store = ws
	} else {
		logger.Info("redis address is empty, word sets are disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	handlers := api.NewHandlers(store, api.Limits{
		MaxThreads: cfg.Server.MaxThreads,
		MaxItems:   cfg.Server.MaxItems,
	}, cfg.Augmenter, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
}
