package summary

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/config"
	"github.com/entdash/backoffice/internal/domain/models"
)

// totalRowCode labels the synthetic grand-total row.
const totalRowCode = "Total"

// unknownTeamCode is assigned when neither the joined relation nor the
// fallback map resolves a team, so those amounts still reach the totals.
const unknownTeamCode = "Unknown"

var numericStatus = regexp.MustCompile(`^[0-9]+$`)

// cycleKey is the grouping identity: one accumulator per cycle date and team.
type cycleKey struct {
	date string
	team string
}

type teamDayAggregate struct {
	totalIn     decimal.Decimal
	bonusAmount decimal.Decimal
	totalRedeem decimal.Decimal
}

// Input is one aggregation run's worth of raw material. Records are expected to
// cover a window one day wider than [StartDate, EndDate] on each side; the
// aggregator re-filters on the derived cycle date.
type Input struct {
	Recharges []models.RechargeRecord
	Redeems   []models.RedeemRecord

	// TeamCodesByID resolves rows whose joined team code came back blank.
	TeamCodesByID map[string]string

	// Inclusive YYYY-MM-DD bounds on the cycle date; empty means unbounded.
	StartDate string
	EndDate   string
}

// Aggregator folds recharge and redeem records into team-level and day-level
// summaries under the shifted business-day rule. It is a pure transform: fresh
// accumulators per call, no retained state.
//
// Data-quality policy, by contract: records with non-numeric or missing
// process_status are skipped, unresolvable teams become "Unknown", and blank
// amounts arrive zero-coalesced from the store. None of these conditions error;
// the upstream data is known to be dirty and the report must tolerate it.
type Aggregator struct {
	shiftHours      int
	boundaryHour    int
	acceptStatuses  map[int]bool
	redeemMinStatus int
	excludedTeams   map[string]bool
	logger          *zap.Logger
}

// NewAggregator builds an aggregator from the summary policy config.
func NewAggregator(cfg config.SummaryConfig, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}

	accept := make(map[int]bool, len(cfg.RechargeAcceptStatuses))
	for _, s := range cfg.RechargeAcceptStatuses {
		accept[s] = true
	}

	excluded := make(map[string]bool, len(cfg.ExcludedTeamCodes))
	for _, code := range cfg.ExcludedTeamCodes {
		excluded[strings.ToLower(code)] = true
	}

	return &Aggregator{
		shiftHours:      cfg.CycleShiftHours,
		boundaryHour:    cfg.CycleBoundaryHour,
		acceptStatuses:  accept,
		redeemMinStatus: cfg.RedeemMinStatus,
		excludedTeams:   excluded,
		logger:          logger,
	}
}

// Aggregate runs the full transform: group, date-filter, roll up, sort.
func (a *Aggregator) Aggregate(input Input) models.CycleSummary {
	groups := make(map[cycleKey]*teamDayAggregate)

	for _, rec := range input.Recharges {
		status, ok := parseStatus(rec.ProcessStatus)
		if !ok || !a.acceptStatuses[status] {
			if !ok && rec.ProcessStatus != "" {
				a.logger.Debug("skip recharge with malformed status",
					zap.String("id", rec.ID), zap.String("process_status", rec.ProcessStatus))
			}
			continue
		}

		team := resolveTeamCode(rec.TeamCode, rec.TeamID, input.TeamCodesByID)
		if a.excludedTeams[strings.ToLower(team)] {
			continue
		}

		key := cycleKey{date: CycleDate(rec.CreatedAt, a.shiftHours, a.boundaryHour), team: team}
		agg := lookup(groups, key)
		agg.totalIn = agg.totalIn.Add(rec.Amount)
		agg.bonusAmount = agg.bonusAmount.Add(rec.BonusAmount)
	}

	for _, rec := range input.Redeems {
		status, ok := parseStatus(rec.ProcessStatus)
		if !ok || status < a.redeemMinStatus {
			if !ok && rec.ProcessStatus != "" {
				a.logger.Debug("skip redeem with malformed status",
					zap.String("id", rec.ID), zap.String("process_status", rec.ProcessStatus))
			}
			continue
		}

		team := resolveTeamCode(rec.TeamCode, rec.TeamID, input.TeamCodesByID)
		if a.excludedTeams[strings.ToLower(team)] {
			continue
		}

		key := cycleKey{date: CycleDate(rec.CreatedAt, a.shiftHours, a.boundaryHour), team: team}
		agg := lookup(groups, key)
		agg.totalRedeem = agg.totalRedeem.Add(rec.TotalAmount)
	}

	// Second filter pass on the derived cycle date. This is what makes the
	// caller's one-day fetch widening safe: records pulled in by the widening
	// whose cycle date lands outside the requested bounds drop out here.
	for key := range groups {
		if input.StartDate != "" && key.date < input.StartDate {
			delete(groups, key)
			continue
		}
		if input.EndDate != "" && key.date > input.EndDate {
			delete(groups, key)
		}
	}

	teamRollup := make(map[string]*teamDayAggregate)
	dailyRollup := make(map[string]*teamDayAggregate)
	for key, agg := range groups {
		team := ensure(teamRollup, key.team)
		team.totalIn = team.totalIn.Add(agg.totalIn)
		team.bonusAmount = team.bonusAmount.Add(agg.bonusAmount)
		team.totalRedeem = team.totalRedeem.Add(agg.totalRedeem)

		day := ensure(dailyRollup, key.date)
		day.totalIn = day.totalIn.Add(agg.totalIn)
		day.bonusAmount = day.bonusAmount.Add(agg.bonusAmount)
		day.totalRedeem = day.totalRedeem.Add(agg.totalRedeem)
	}

	var grand teamDayAggregate
	data := make([]models.TeamTotal, 0, len(teamRollup)+1)
	for team, agg := range teamRollup {
		data = append(data, teamTotalRow(team, agg))
		grand.totalIn = grand.totalIn.Add(agg.totalIn)
		grand.bonusAmount = grand.bonusAmount.Add(agg.bonusAmount)
		grand.totalRedeem = grand.totalRedeem.Add(agg.totalRedeem)
	}
	data = append(data, teamTotalRow(totalRowCode, &grand))

	sort.SliceStable(data, func(i, j int) bool {
		return lessTeamRows(data[i].TeamCode, data[j].TeamCode)
	})

	daily := make([]models.DailyTotal, 0, len(dailyRollup))
	for date, agg := range dailyRollup {
		daily = append(daily, models.DailyTotal{
			Date:               date,
			In:                 round2(agg.totalIn),
			Out:                round2(agg.totalRedeem),
			TotalCreditsLoaded: round2(agg.totalIn.Add(agg.bonusAmount)),
			Bonus:              round2(agg.bonusAmount),
			HoldingPct:         holdingPct(agg.totalIn, agg.totalRedeem),
		})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	return models.CycleSummary{Data: data, Daily: daily}
}

func teamTotalRow(team string, agg *teamDayAggregate) models.TeamTotal {
	return models.TeamTotal{
		TeamCode:           team,
		In:                 round2(agg.totalIn),
		Out:                round2(agg.totalRedeem),
		TotalCreditsLoaded: round2(agg.totalIn.Add(agg.bonusAmount)),
		Bonus:              round2(agg.bonusAmount),
		BonusPct:           bonusPct(agg.totalIn, agg.bonusAmount),
		HoldingPct:         holdingPct(agg.totalIn, agg.totalRedeem),
	}
}

// lessTeamRows orders team rows by the numeric suffix of the team code
// ("ent3" before "ent12"), with the Total row pinned last. Codes without
// digits sort as zero; ties fall back to the code string so output stays
// deterministic across runs.
func lessTeamRows(a, b string) bool {
	if a == totalRowCode {
		return false
	}
	if b == totalRowCode {
		return true
	}
	na, nb := teamNumber(a), teamNumber(b)
	if na != nb {
		return na < nb
	}
	return a < b
}

func teamNumber(code string) int {
	var digits strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

// parseStatus accepts only unsigned decimal literals; anything else, including
// the negative cancelled/rejected codes, does not count. Surrounding
// whitespace is tolerated for both record kinds.
func parseStatus(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if !numericStatus.MatchString(trimmed) {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return n, true
}

func resolveTeamCode(joined, teamID string, fallback map[string]string) string {
	if code := strings.TrimSpace(joined); code != "" {
		return code
	}
	if code := strings.TrimSpace(fallback[teamID]); code != "" {
		return code
	}
	return unknownTeamCode
}

func lookup(groups map[cycleKey]*teamDayAggregate, key cycleKey) *teamDayAggregate {
	if agg, ok := groups[key]; ok {
		return agg
	}
	agg := &teamDayAggregate{}
	groups[key] = agg
	return agg
}

func ensure(rollup map[string]*teamDayAggregate, key string) *teamDayAggregate {
	if agg, ok := rollup[key]; ok {
		return agg
	}
	agg := &teamDayAggregate{}
	rollup[key] = agg
	return agg
}

func bonusPct(in, bonus decimal.Decimal) float64 {
	if in.IsZero() {
		return 0
	}
	return round2(bonus.Div(in).Mul(decimal.NewFromInt(100)))
}

func holdingPct(in, out decimal.Decimal) float64 {
	if in.IsZero() {
		return 0
	}
	return round2(in.Sub(out).Div(in).Mul(decimal.NewFromInt(100)))
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
