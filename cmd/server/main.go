package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/config"
	"github.com/entdash/backoffice/internal/repository/postgres"
	"github.com/entdash/backoffice/internal/scheduler"
	"github.com/entdash/backoffice/internal/server/handlers"
	"github.com/entdash/backoffice/internal/server/router"
	statssvc "github.com/entdash/backoffice/internal/service/stats"
	summarysvc "github.com/entdash/backoffice/internal/service/summary"
	"github.com/entdash/backoffice/pkg/clients/webhook"
	"github.com/entdash/backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	if err := postgres.Migrate(cfg.Database.URL, baseLogger.Named("migrate")); err != nil {
		baseLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	repo, err := postgres.New(context.Background(), cfg.Database.URL, baseLogger.Named("repo.postgres"))
	if err != nil {
		baseLogger.Fatal("failed to init postgres repository", zap.Error(err))
	}
	defer repo.Close()

	summaryService := summarysvc.NewService(repo, cfg.Summary, baseLogger.Named("svc.summary"))
	statsService := statssvc.NewService(repo, cfg.Summary, baseLogger.Named("svc.stats"))

	summaryHandler := handlers.NewSummaryHandler(summaryService, cfg.Summary, baseLogger.Named("handlers.summary"))
	statsHandler := handlers.NewStatsHandler(statsService, baseLogger.Named("handlers.stats"))
	engine := router.New(summaryHandler, statsHandler, baseLogger.Named("router"))

	// The snapshot job only runs when a webhook receiver is configured.
	if cfg.Notifier.WebhookURL != "" {
		notifier := webhook.NewClient(cfg.Notifier)
		sched := scheduler.NewScheduler(*cfg, summaryService, notifier, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	} else {
		baseLogger.Warn("snapshot webhook url missing, scheduled cycle snapshots disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
