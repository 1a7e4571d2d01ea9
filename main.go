package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/strideworks/form.report/internal/api"
	"github.com/strideworks/form.report/internal/config"
	"github.com/strideworks/form.report/internal/db"
	"github.com/strideworks/form.report/internal/monitoring"
	"github.com/strideworks/form.report/internal/version"
)

var (
	listen        = flag.String("listen", envOr("FORM_REPORT_LISTEN", ":8080"), "Listen address")
	dbFile        = flag.String("db", envOr("FORM_REPORT_DB", "form_report.db"), "SQLite database path")
	configPath    = flag.String("config", "", "Optional tuning config JSON path")
	migrationsDir = flag.String("migrations", "migrations", "Migrations directory")
	debug         = flag.Bool("debug", false, "Enable debug logging")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()
	flag.Parse()

	logger := monitoring.Setup(*debug)

	if *listen == "" {
		logger.Error("listen address is required")
		os.Exit(1)
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			logger.Error("failed to load tuning config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	database, err := db.Open(*dbFile)
	if err != nil {
		logger.Error("failed to open database", "path", *dbFile, "err", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.MigrateUp(*migrationsDir); err != nil {
		logger.Error("failed to run migrations", "dir", *migrationsDir, "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(api.NewServer(database, cfg).ServeMux()),
	}

	go func() {
		logger.Info("listening", "addr", *listen, "db", *dbFile,
			"version", version.Version, "git_sha", version.GitSHA, "build_time", version.BuildTime)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
	}
	logger.Info("graceful shutdown complete")
}
