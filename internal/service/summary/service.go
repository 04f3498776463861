package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/config"
	"github.com/entdash/backoffice/internal/domain/models"
	"github.com/entdash/backoffice/internal/repository/postgres"
)

// Summarizer produces team-cycle summaries for the HTTP layer and the
// snapshot scheduler.
type Summarizer interface {
	TeamCycleSummary(ctx context.Context, filter models.SummaryFilter) (models.CycleSummary, error)
}

// Service orchestrates fetching the raw transaction windows and handing them to
// the aggregator.
type Service struct {
	repo       postgres.Repository
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewService wires a new summary service instance.
func NewService(repo postgres.Repository, cfg config.SummaryConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		aggregator: NewAggregator(cfg, logger),
		logger:     logger,
	}
}

// TeamCycleSummary fetches recharge and redeem requests for the filter window
// and aggregates them into team and daily rollups. The raw fetch window is
// widened by one calendar day on each side because the cycle-date shift can
// move a record across midnight; the aggregator narrows back down on the
// derived cycle date.
func (s *Service) TeamCycleSummary(ctx context.Context, filter models.SummaryFilter) (models.CycleSummary, error) {
	start, end, err := fetchWindow(filter.StartDate, filter.EndDate)
	if err != nil {
		return models.CycleSummary{}, err
	}

	var teamIDs []string
	if len(filter.TeamCodes) > 0 {
		teamIDs, err = s.repo.TeamIDsByCodes(ctx, filter.TeamCodes)
		if err != nil {
			return models.CycleSummary{}, fmt.Errorf("resolve team filter: %w", err)
		}
		if len(teamIDs) == 0 {
			s.logger.Warn("team filter matched no teams", zap.Strings("team_codes", filter.TeamCodes))
			return s.aggregator.Aggregate(Input{StartDate: filter.StartDate, EndDate: filter.EndDate}), nil
		}
	}

	recharges, err := s.repo.ListRecharges(ctx, start, end, teamIDs)
	if err != nil {
		return models.CycleSummary{}, fmt.Errorf("fetch recharge requests: %w", err)
	}

	redeems, err := s.repo.ListRedeems(ctx, start, end, teamIDs)
	if err != nil {
		return models.CycleSummary{}, fmt.Errorf("fetch redeem requests: %w", err)
	}

	fallback, err := s.teamCodeFallback(ctx, recharges, redeems)
	if err != nil {
		return models.CycleSummary{}, err
	}

	s.logger.Debug("aggregating cycle summary",
		zap.Int("recharges", len(recharges)),
		zap.Int("redeems", len(redeems)),
		zap.String("start_date", filter.StartDate),
		zap.String("end_date", filter.EndDate))

	return s.aggregator.Aggregate(Input{
		Recharges:     recharges,
		Redeems:       redeems,
		TeamCodesByID: fallback,
		StartDate:     filter.StartDate,
		EndDate:       filter.EndDate,
	}), nil
}

// teamCodeFallback side-loads codes for rows whose joined team code came back
// blank, so whitespace-damaged relations still land under their real team.
func (s *Service) teamCodeFallback(ctx context.Context, recharges []models.RechargeRecord, redeems []models.RedeemRecord) (map[string]string, error) {
	missing := make(map[string]struct{})
	for _, rec := range recharges {
		if strings.TrimSpace(rec.TeamCode) == "" && rec.TeamID != "" {
			missing[rec.TeamID] = struct{}{}
		}
	}
	for _, rec := range redeems {
		if strings.TrimSpace(rec.TeamCode) == "" && rec.TeamID != "" {
			missing[rec.TeamID] = struct{}{}
		}
	}

	if len(missing) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}

	fallback, err := s.repo.TeamCodesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load team code fallback: %w", err)
	}
	return fallback, nil
}

// fetchWindow converts the inclusive cycle-date bounds into a raw created_at
// window, one day wider on each side. Empty bounds stay effectively unbounded.
func fetchWindow(startDate, endDate string) (time.Time, time.Time, error) {
	start := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

	if startDate != "" {
		parsed, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q: %w", startDate, err)
		}
		start = parsed.AddDate(0, 0, -1)
	}

	if endDate != "" {
		parsed, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: %w", endDate, err)
		}
		end = parsed.AddDate(0, 0, 1).Add(24*time.Hour - time.Millisecond)
	}

	return start, end, nil
}
