package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/entdash/backoffice/internal/domain/models"
)

// ListRecharges returns recharge requests created inside [start, end], joined
// to their team code, optionally restricted to a team allowlist. No business
// filtering happens here; status and cycle-date rules belong to the aggregator.
func (r *PostgresRepository) ListRecharges(ctx context.Context, start, end time.Time, teamIDs []string) ([]models.RechargeRecord, error) {
	query := `
		SELECT
			rr.id,
			COALESCE(rr.amount, 0),
			COALESCE(rr.bonus_amount, 0),
			rr.created_at,
			COALESCE(rr.process_status, ''),
			COALESCE(rr.team_id::text, ''),
			COALESCE(t.team_code, '')
		FROM recharge_requests rr
		LEFT JOIN teams t ON t.id = rr.team_id
		WHERE rr.created_at >= $1
		  AND rr.created_at <= $2
		  AND ($3::uuid[] IS NULL OR cardinality($3::uuid[]) = 0 OR rr.team_id = ANY($3::uuid[]))
	`

	rows, err := r.pool.Query(ctx, query, start, end, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list recharge requests: %w", err)
	}
	defer rows.Close()

	var records []models.RechargeRecord
	for rows.Next() {
		var rec models.RechargeRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Amount,
			&rec.BonusAmount,
			&rec.CreatedAt,
			&rec.ProcessStatus,
			&rec.TeamID,
			&rec.TeamCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recharge row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recharge rows: %w", err)
	}

	return records, nil
}
