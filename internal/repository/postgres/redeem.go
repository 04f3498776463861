package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/entdash/backoffice/internal/domain/models"
)

// ListRedeems returns redeem requests created inside [start, end], joined to
// their team code, optionally restricted to a team allowlist.
func (r *PostgresRepository) ListRedeems(ctx context.Context, start, end time.Time, teamIDs []string) ([]models.RedeemRecord, error) {
	query := `
		SELECT
			rd.id,
			COALESCE(rd.total_amount, 0),
			rd.created_at,
			COALESCE(rd.process_status, ''),
			COALESCE(rd.team_id::text, ''),
			COALESCE(t.team_code, '')
		FROM redeem_requests rd
		LEFT JOIN teams t ON t.id = rd.team_id
		WHERE rd.created_at >= $1
		  AND rd.created_at <= $2
		  AND ($3::uuid[] IS NULL OR cardinality($3::uuid[]) = 0 OR rd.team_id = ANY($3::uuid[]))
	`

	rows, err := r.pool.Query(ctx, query, start, end, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list redeem requests: %w", err)
	}
	defer rows.Close()

	var records []models.RedeemRecord
	for rows.Next() {
		var rec models.RedeemRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.TotalAmount,
			&rec.CreatedAt,
			&rec.ProcessStatus,
			&rec.TeamID,
			&rec.TeamCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan redeem row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate redeem rows: %w", err)
	}

	return records, nil
}
