package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/entdash/backoffice/internal/domain/models"
)

// Dashboard stat queries. Windows are start-inclusive and end-exclusive, and an
// empty teamID means all teams. The status predicates mirror the summary
// accept rules so card totals line up with the cycle report.

// RechargeTotal sums accepted recharge amounts inside the window.
func (r *PostgresRepository) RechargeTotal(ctx context.Context, start, end time.Time, teamID string, acceptStatuses []int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM recharge_requests
		WHERE created_at >= $1
		  AND created_at < $2
		  AND process_status = ANY($3::text[])
		  AND ($4 = '' OR team_id = $4::uuid)
	`

	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, query, start, end, statusStrings(acceptStatuses), teamID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum recharge amounts: %w", err)
	}
	return total, nil
}

// BonusTotal sums bonus amounts on accepted recharges inside the window.
func (r *PostgresRepository) BonusTotal(ctx context.Context, start, end time.Time, teamID string, acceptStatuses []int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(bonus_amount), 0)
		FROM recharge_requests
		WHERE created_at >= $1
		  AND created_at < $2
		  AND process_status = ANY($3::text[])
		  AND ($4 = '' OR team_id = $4::uuid)
	`

	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, query, start, end, statusStrings(acceptStatuses), teamID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum bonus amounts: %w", err)
	}
	return total, nil
}

// RedeemTotal sums redeem amounts whose numeric status reaches minStatus.
func (r *PostgresRepository) RedeemTotal(ctx context.Context, start, end time.Time, teamID string, minStatus int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM redeem_requests
		WHERE created_at >= $1
		  AND created_at < $2
		  AND process_status ~ '^[0-9]+$'
		  AND process_status::int >= $3
		  AND ($4 = '' OR team_id = $4::uuid)
	`

	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, query, start, end, minStatus, teamID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum redeem amounts: %w", err)
	}
	return total, nil
}

// UniqueRechargeAccounts counts distinct recharging accounts inside the window.
func (r *PostgresRepository) UniqueRechargeAccounts(ctx context.Context, start, end time.Time, teamID string) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT account_id)
		FROM recharge_requests
		WHERE created_at >= $1
		  AND created_at < $2
		  AND account_id IS NOT NULL
		  AND ($3 = '' OR team_id = $3::uuid)
	`

	var count int64
	err := r.pool.QueryRow(ctx, query, start, end, teamID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unique accounts: %w", err)
	}
	return count, nil
}

// PendingCount counts open requests in one activity queue.
func (r *PostgresRepository) PendingCount(ctx context.Context, activity models.ActivityType, teamID string) (int64, error) {
	table, ok := pendingTables[activity]
	if !ok {
		return 0, fmt.Errorf("unknown activity type %q", activity)
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE process_status = ANY($1::text[])
		  AND ($2 = '' OR team_id = $2::uuid)
	`, table)

	var count int64
	err := r.pool.QueryRow(ctx, query, statusStrings(models.PendingStatusesFor(activity)), teamID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending %s requests: %w", activity, err)
	}
	return count, nil
}

// pendingTables maps activity queues to their backing tables. Keys are the only
// values ever interpolated into PendingCount's query text.
var pendingTables = map[models.ActivityType]string{
	models.ActivityRecharge:      "recharge_requests",
	models.ActivityRedeem:        "redeem_requests",
	models.ActivityTransfer:      "transfer_requests",
	models.ActivityResetPassword: "reset_password_requests",
	models.ActivityNewAccount:    "new_account_requests",
}
