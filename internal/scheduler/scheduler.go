package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/config"
	"github.com/entdash/backoffice/internal/domain/models"
	"github.com/entdash/backoffice/internal/service/summary"
	"github.com/entdash/backoffice/pkg/clients/webhook"
)

// Scheduler runs the daily cycle-snapshot job: shortly after the business-day
// boundary it aggregates the cycle that just closed and posts it to the
// configured webhook.
type Scheduler struct {
	cron       *cron.Cron
	summarySvc summary.Summarizer
	notifier   webhook.Client
	cfg        config.Config
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, summarySvc summary.Summarizer, notifier webhook.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := cron.New(cron.WithLocation(cfg.Summary.Location()))

	return &Scheduler{
		cron:       c,
		summarySvc: summarySvc,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers and starts the snapshot job.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Scheduler.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Scheduler.CronSchedule, s.sendCycleSnapshot)
	if err != nil {
		s.logger.Error("failed to schedule cycle snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendCycleSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The job fires after the boundary, so the cycle that just closed is
	// yesterday's date.
	cycleDate := time.Now().In(s.cfg.Summary.Location()).AddDate(0, 0, -1).Format("2006-01-02")
	s.logger.Info("generating cycle snapshot", zap.String("cycle_date", cycleDate))

	result, err := s.summarySvc.TeamCycleSummary(ctx, models.SummaryFilter{
		StartDate: cycleDate,
		EndDate:   cycleDate,
	})
	if err != nil {
		s.logger.Error("failed to generate cycle snapshot", zap.Error(err))
		return
	}

	snapshot := webhook.Snapshot{
		CycleDate:   cycleDate,
		GeneratedAt: time.Now().UTC(),
		Data:        result.Data,
		Daily:       result.Daily,
	}

	if err := s.notifier.SendSnapshot(ctx, snapshot); err != nil {
		s.logger.Error("failed to deliver cycle snapshot", zap.Error(err))
		return
	}

	s.logger.Info("cycle snapshot delivered", zap.String("cycle_date", cycleDate))
}
