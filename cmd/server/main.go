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

	"github.com/joho/godotenv"

	"github.com/iliyamo/messmate/internal/app"
	"github.com/iliyamo/messmate/internal/config"
	"github.com/iliyamo/messmate/internal/queue"
	"github.com/iliyamo/messmate/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}
	cfg := config.Load()
	logging.Setup(os.Stderr, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	a, err := app.New(ctx, cfg, rdb)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.SeedDemo {
		if err := a.Seeder.Seed(ctx, false); err != nil {
			slog.Error("seed failed", "error", err)
		}
	}

	if cfg.AMQPEnabled {
		go func() {
			if err := queue.StartActivityConsumer(ctx, cfg.RabbitURL, cfg.ActivityLogDir); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("activity consumer stopped", "error", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		slog.Info("listening", "addr", addr, "env", cfg.Env, "kv", cfg.KVBackend)
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
