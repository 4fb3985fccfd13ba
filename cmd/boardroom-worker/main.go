package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"boardroom/internal/config"
	"boardroom/internal/db"
	"boardroom/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWorkerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.NewPostgres(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	reap := func() {
		cutoff := time.Now().Add(-cfg.GameTTL)
		n, err := st.ReapIdle(ctx, cutoff)
		if err != nil {
			logger.Error("reap failed", "err", err)
			return
		}
		if n > 0 {
			logger.Info("reaped idle games", "count", n, "cutoff", cutoff)
		}
	}

	runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("BOARDROOM_WORKER_RUN_ONCE")), "true")
	if runOnce {
		reap()
		logger.Info("worker run-once completed")
		return
	}

	ticker := time.NewTicker(cfg.ReapEvery)
	defer ticker.Stop()

	logger.Info("worker started", "reap_every", cfg.ReapEvery.String(), "game_ttl", cfg.GameTTL.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			reap()
		}
	}
}
