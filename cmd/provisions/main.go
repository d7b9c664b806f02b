package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/provisions/internal/backup"
	"github.com/dukerupert/provisions/internal/config"
	"github.com/dukerupert/provisions/internal/database"
	"github.com/dukerupert/provisions/internal/logging"
	"github.com/dukerupert/provisions/internal/notify"
	"github.com/dukerupert/provisions/internal/server"
	"github.com/dukerupert/provisions/internal/store"
	"github.com/dukerupert/provisions/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	hub := websocket.NewHub(logging.Component(logger, "websocket"))
	notifier := notify.Multi(notify.NewLogger(logging.Component(logger, "notify")), hub)
	docs := store.NewDocumentStore(store.NewKVStore(db), cfg.StorageKey, notifier, logging.Component(logger, "store"))

	if err := docs.Initialize(); err != nil {
		slog.Error("initialize document", "error", err)
		os.Exit(1)
	}
	if cfg.SeedItemPool {
		if _, err := docs.SeedItemPool(); err != nil {
			slog.Warn("seed item pool", "error", err)
		}
	}

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		},
		Passphrase: cfg.BackupPassphrase,
		Hour:       cfg.BackupHour,
		Retention:  cfg.BackupRetention(),
	}
	srv := server.New(db, docs, hub, backupCfg, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	srv.BackupManager().Start(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("provisions starting",
			"addr", cfg.Addr(),
			"db", cfg.DBPath,
			"size", docs.FormattedDataSize(),
			"backups", cfg.BackupsEnabled(),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	stop()
	srv.BackupManager().Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
