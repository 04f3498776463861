package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/config"
	"github.com/entdash/backoffice/internal/domain/models"
	"github.com/entdash/backoffice/internal/repository/postgres"
)

// Provider exposes the dashboard stat lookups to the HTTP layer.
type Provider interface {
	RechargeTotal(ctx context.Context, rng models.RangeKind, ent string) (models.StatTotal, error)
	RedeemTotal(ctx context.Context, rng models.RangeKind, ent string) (models.StatTotal, error)
	BonusTotal(ctx context.Context, rng models.RangeKind, ent string) (models.StatTotal, error)
	UniqueUsers(ctx context.Context, rng models.RangeKind, ent string) (models.StatCount, error)
	PendingCount(ctx context.Context, activity models.ActivityType, ent string) (models.StatCount, error)
	Teams(ctx context.Context) ([]models.Team, error)
}

// Service computes windowed card totals for the operations dashboard. All
// money sums reuse the summary accept rules so cards agree with the cycle
// report.
type Service struct {
	repo   postgres.Repository
	cfg    config.SummaryConfig
	loc    *time.Location
	logger *zap.Logger

	// now is swappable for window tests.
	now func() time.Time
}

// NewService wires a new stats service instance.
func NewService(repo postgres.Repository, cfg config.SummaryConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		cfg:    cfg,
		loc:    cfg.Location(),
		logger: logger,
		now:    time.Now,
	}
}

// RechargeTotal sums accepted recharge amounts over the requested window.
func (s *Service) RechargeTotal(ctx context.Context, rng models.RangeKind, ent string) (models.StatTotal, error) {
	return s.total(ctx, rng, ent, func(ctx context.Context, w Window, teamID string) (decimal.Decimal, error) {
		return s.repo.RechargeTotal(ctx, w.Start, w.End, teamID, s.cfg.RechargeAcceptStatuses)
	})
}

// RedeemTotal sums counted redeem amounts over the requested window.
func (s *Service) RedeemTotal(ctx context.Context, rng models.RangeKind, ent string) (models.StatTotal, error) {
	return s.total(ctx, rng, ent, func(ctx context.Context, w Window, teamID string) (decimal.Decimal, error) {
		return s.repo.RedeemTotal(ctx, w.Start, w.End, teamID, s.cfg.RedeemMinStatus)
	})
}

// BonusTotal sums bonus amounts on accepted recharges over the requested window.
func (s *Service) BonusTotal(ctx context.Context, rng models.RangeKind, ent string) (models.StatTotal, error) {
	return s.total(ctx, rng, ent, func(ctx context.Context, w Window, teamID string) (decimal.Decimal, error) {
		return s.repo.BonusTotal(ctx, w.Start, w.End, teamID, s.cfg.RechargeAcceptStatuses)
	})
}

// UniqueUsers counts distinct recharging accounts over the requested window.
func (s *Service) UniqueUsers(ctx context.Context, rng models.RangeKind, ent string) (models.StatCount, error) {
	teamID, err := s.resolveEnt(ctx, ent)
	if err != nil {
		return models.StatCount{}, err
	}

	window := WindowFor(rng, s.now().In(s.loc), s.cfg.CycleBoundaryHour)
	count, err := s.repo.UniqueRechargeAccounts(ctx, window.Start, window.End, teamID)
	if err != nil {
		return models.StatCount{}, err
	}

	return models.StatCount{
		Range:     rng,
		Ent:       entLabel(ent),
		StartDate: &window.Start,
		EndDate:   &window.End,
		Count:     count,
	}, nil
}

// PendingCount counts open requests in one activity queue, unwindowed.
func (s *Service) PendingCount(ctx context.Context, activity models.ActivityType, ent string) (models.StatCount, error) {
	teamID, err := s.resolveEnt(ctx, ent)
	if err != nil {
		return models.StatCount{}, err
	}

	count, err := s.repo.PendingCount(ctx, activity, teamID)
	if err != nil {
		return models.StatCount{}, err
	}

	return models.StatCount{
		Activity: activity,
		Ent:      entLabel(ent),
		Count:    count,
	}, nil
}

// Teams returns the team directory.
func (s *Service) Teams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

type sumFunc func(ctx context.Context, w Window, teamID string) (decimal.Decimal, error)

func (s *Service) total(ctx context.Context, rng models.RangeKind, ent string, sum sumFunc) (models.StatTotal, error) {
	teamID, err := s.resolveEnt(ctx, ent)
	if err != nil {
		return models.StatTotal{}, err
	}

	window := WindowFor(rng, s.now().In(s.loc), s.cfg.CycleBoundaryHour)
	total, err := sum(ctx, window, teamID)
	if err != nil {
		return models.StatTotal{}, err
	}

	value, _ := total.Round(2).Float64()
	return models.StatTotal{
		Range:     rng,
		Ent:       entLabel(ent),
		StartDate: window.Start,
		EndDate:   window.End,
		Total:     value,
	}, nil
}

// resolveEnt maps an ent shorthand to a team id; empty or "all" means no team
// filter. An unknown code errors so the dashboard does not silently show
// all-team numbers under a specific ent label.
func (s *Service) resolveEnt(ctx context.Context, ent string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(ent))
	if normalized == "" || normalized == "all" {
		return "", nil
	}

	ids, err := s.repo.TeamIDsByCodes(ctx, []string{normalized})
	if err != nil {
		return "", fmt.Errorf("resolve ent %q: %w", ent, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("unknown ent %q", ent)
	}
	return ids[0], nil
}

func entLabel(ent string) string {
	normalized := strings.ToLower(strings.TrimSpace(ent))
	if normalized == "" {
		return "all"
	}
	return normalized
}
