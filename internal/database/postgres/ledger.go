package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mineforge/jobs/internal/database/migrations"
	"github.com/mineforge/jobs/internal/domain"
)

// LedgerRepository implements the ledger repository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Connect opens a connection pool and runs pending migrations
func Connect(ctx context.Context, connString string) (*LedgerRepository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(connString); err != nil {
		pool.Close()
		return nil, err
	}

	return NewLedgerRepository(pool), nil
}

// migrate applies the embedded migrations with goose
func migrate(connString string) error {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	db := stdlib.OpenDB(*cfg)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

const entryColumns = "player_id, job_key, current_xp, level, lifetime_income, joined_at, last_gain"

// GetEntry retrieves one player's entry for one job, nil when absent
func (r *LedgerRepository) GetEntry(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.PlayerJobEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM player_jobs
		WHERE player_id = $1 AND job_key = $2
	`

	entry, err := scanEntry(r.db.QueryRow(ctx, query, playerID, jobKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	return entry, nil
}

// GetPlayerEntries retrieves all entries for a player
func (r *LedgerRepository) GetPlayerEntries(ctx context.Context, playerID uuid.UUID) ([]domain.PlayerJobEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM player_jobs
		WHERE player_id = $1
		ORDER BY joined_at
	`

	rows, err := r.db.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetAllEntries retrieves every persisted entry
func (r *LedgerRepository) GetAllEntries(ctx context.Context) ([]domain.PlayerJobEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM player_jobs
		ORDER BY player_id, joined_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpsertEntry writes one whole entry
func (r *LedgerRepository) UpsertEntry(ctx context.Context, entry *domain.PlayerJobEntry) error {
	query := `
		INSERT INTO player_jobs (player_id, job_key, current_xp, level, lifetime_income, joined_at, last_gain)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id, job_key)
		DO UPDATE SET
			current_xp = EXCLUDED.current_xp,
			level = EXCLUDED.level,
			lifetime_income = EXCLUDED.lifetime_income,
			last_gain = EXCLUDED.last_gain
	`

	_, err := r.db.Exec(ctx, query,
		entry.PlayerID,
		entry.JobKey,
		entry.CurrentXP,
		entry.Level,
		entry.LifetimeIncome,
		entry.JoinedAt,
		entry.LastGain,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// DeleteEntry removes one entry
func (r *LedgerRepository) DeleteEntry(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM player_jobs WHERE player_id = $1 AND job_key = $2`, playerID, jobKey)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Ping verifies database connectivity
func (r *LedgerRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close releases the connection pool
func (r *LedgerRepository) Close() error {
	r.db.Close()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.PlayerJobEntry, error) {
	var entry domain.PlayerJobEntry
	var lastGain sql.NullTime
	err := row.Scan(
		&entry.PlayerID,
		&entry.JobKey,
		&entry.CurrentXP,
		&entry.Level,
		&entry.LifetimeIncome,
		&entry.JoinedAt,
		&lastGain,
	)
	if err != nil {
		return nil, err
	}
	if lastGain.Valid {
		entry.LastGain = &lastGain.Time
	}
	return &entry, nil
}

func collectEntries(rows pgx.Rows) ([]domain.PlayerJobEntry, error) {
	var entries []domain.PlayerJobEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}
