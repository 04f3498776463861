package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/entdash/backoffice/internal/domain/models"
)

// TeamIDsByCodes resolves team codes to ids, matching codes case-insensitively
// since the store mixes upper and lower case entries.
func (r *PostgresRepository) TeamIDsByCodes(ctx context.Context, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	lowered := make([]string, 0, len(codes))
	for _, code := range codes {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(code)))
	}

	query := `
		SELECT id::text
		FROM teams
		WHERE LOWER(team_code) = ANY($1::text[])
	`

	rows, err := r.pool.Query(ctx, query, lowered)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team codes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team ids: %w", err)
	}

	return ids, nil
}

// TeamCodesByIDs builds the id-to-code fallback map used when the join relation
// comes back blank on a transaction row.
func (r *PostgresRepository) TeamCodesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	result := make(map[string]string)
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id::text, COALESCE(team_code, '')
		FROM teams
		WHERE id = ANY($1::uuid[])
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, code string
		if err := rows.Scan(&id, &code); err != nil {
			return nil, fmt.Errorf("failed to scan team code: %w", err)
		}
		result[id] = code
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team codes: %w", err)
	}

	return result, nil
}

// ListTeams returns the team directory for filter dropdowns.
func (r *PostgresRepository) ListTeams(ctx context.Context) ([]models.Team, error) {
	query := `
		SELECT id::text, COALESCE(team_code, '')
		FROM teams
		ORDER BY team_code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Code); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return teams, nil
}
