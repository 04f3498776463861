package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/domain/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Repository defines read access to the back-office store. Amount columns are
// coalesced to zero and process_status to the empty string at the SQL boundary,
// so callers never see NULLs from dirty upstream rows.
type Repository interface {
	ListRecharges(ctx context.Context, start, end time.Time, teamIDs []string) ([]models.RechargeRecord, error)
	ListRedeems(ctx context.Context, start, end time.Time, teamIDs []string) ([]models.RedeemRecord, error)

	TeamIDsByCodes(ctx context.Context, codes []string) ([]string, error)
	TeamCodesByIDs(ctx context.Context, ids []string) (map[string]string, error)
	ListTeams(ctx context.Context) ([]models.Team, error)

	RechargeTotal(ctx context.Context, start, end time.Time, teamID string, acceptStatuses []int) (decimal.Decimal, error)
	BonusTotal(ctx context.Context, start, end time.Time, teamID string, acceptStatuses []int) (decimal.Decimal, error)
	RedeemTotal(ctx context.Context, start, end time.Time, teamID string, minStatus int) (decimal.Decimal, error)
	UniqueRechargeAccounts(ctx context.Context, start, end time.Time, teamID string) (int64, error)
	PendingCount(ctx context.Context, activity models.ActivityType, teamID string) (int64, error)
}

// PostgresRepository implements Repository over a pgx connection pool.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New creates a connection pool, verifies connectivity and returns the repository.
func New(ctx context.Context, databaseURL string, logger *zap.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

// Migrate applies all pending schema migrations from the embedded sources.
func Migrate(databaseURL string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*cfg.ConnConfig)
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no new migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("migrations applied", zap.Uint("version", version))
	return nil
}

// statusStrings renders numeric status values the way the store encodes them
// (process_status is a text column holding decimal literals).
func statusStrings(statuses []int) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, fmt.Sprintf("%d", s))
	}
	return out
}
