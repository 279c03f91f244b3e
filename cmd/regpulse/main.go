package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/regpulse/internal/core/config"
	"github.com/aevon-lab/regpulse/internal/dashboard"
	"github.com/aevon-lab/regpulse/internal/migrations"
	"github.com/aevon-lab/regpulse/internal/server"
	"github.com/aevon-lab/regpulse/internal/source"
	"github.com/aevon-lab/regpulse/internal/source/postgres"
)

func main() {
	configPath := flag.String("config", "regpulse.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Mode == "debug" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Record Source
	checks := make(map[string]server.HealthChecker)
	src, closeSrc, err := newSource(cfg, checks)
	if err != nil {
		slog.Error("Failed to initialize record source", "type", cfg.Source.Type, "error", err)
		os.Exit(1)
	}
	defer closeSrc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Build the initial dataset snapshot
	dashboardSvc := dashboard.NewService(src, dashboard.Options{
		CacheSize:     cfg.Dashboard.CacheSize,
		ReloadEnabled: cfg.Dashboard.ReloadEnabled,
	})
	if _, err := dashboardSvc.Load(ctx); err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}
	checks["dataset"] = dashboardSvc

	// 4. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode, checks)
	dashboardSvc.RegisterRoutes(srv.Engine)

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// newSource builds the configured record source. Sources that hold external
// resources register a health check and return a non-trivial close func.
func newSource(cfg *corecfg.Config, checks map[string]server.HealthChecker) (source.Source, func(), error) {
	noop := func() {}

	switch cfg.Source.Type {
	case corecfg.SourceSynthetic:
		return source.NewSynthetic(cfg.Source.Years, cfg.Source.Seed), noop, nil

	case corecfg.SourceFile:
		return source.NewFiles(cfg.Source.Files...), noop, nil

	case corecfg.SourcePostgres:
		db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		adapter, err := postgres.NewAdapter(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		checks["database"] = adapter
		return adapter, func() {
			if err := adapter.Close(); err != nil {
				slog.Error("Failed to close postgres source", "error", err)
			}
		}, nil
	}

	return nil, nil, fmt.Errorf("unsupported source type %q", cfg.Source.Type)
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
