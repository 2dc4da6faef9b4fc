// Package sqlite provides a file-backed ledger store for single-server
// deployments that run without Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mineforge/jobs/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS player_jobs (
	player_id TEXT NOT NULL,
	job_key TEXT NOT NULL,
	current_xp REAL NOT NULL DEFAULT 0,
	level INTEGER NOT NULL DEFAULT 1,
	lifetime_income REAL NOT NULL DEFAULT 0,
	joined_at INTEGER NOT NULL,
	last_gain INTEGER,
	PRIMARY KEY (player_id, job_key)
);

CREATE INDEX IF NOT EXISTS idx_player_jobs_player ON player_jobs (player_id);
`

// LedgerRepository implements the ledger repository on an embedded SQLite file
type LedgerRepository struct {
	conn *sqlx.DB
}

// Open opens or creates the SQLite database at the given path
func Open(path string) (*LedgerRepository, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &LedgerRepository{conn: conn}, nil
}

// entryRow is the flat SQLite representation of a ledger entry
type entryRow struct {
	PlayerID       string        `db:"player_id"`
	JobKey         string        `db:"job_key"`
	CurrentXP      float64       `db:"current_xp"`
	Level          int           `db:"level"`
	LifetimeIncome float64       `db:"lifetime_income"`
	JoinedAt       int64         `db:"joined_at"`
	LastGain       sql.NullInt64 `db:"last_gain"`
}

func (r entryRow) toDomain() (domain.PlayerJobEntry, error) {
	playerID, err := uuid.Parse(r.PlayerID)
	if err != nil {
		return domain.PlayerJobEntry{}, fmt.Errorf("invalid player id %q: %w", r.PlayerID, err)
	}

	entry := domain.PlayerJobEntry{
		PlayerID:       playerID,
		JobKey:         r.JobKey,
		CurrentXP:      r.CurrentXP,
		Level:          r.Level,
		LifetimeIncome: r.LifetimeIncome,
		JoinedAt:       time.Unix(r.JoinedAt, 0).UTC(),
	}
	if r.LastGain.Valid {
		t := time.Unix(r.LastGain.Int64, 0).UTC()
		entry.LastGain = &t
	}
	return entry, nil
}

func toRow(entry *domain.PlayerJobEntry) entryRow {
	row := entryRow{
		PlayerID:       entry.PlayerID.String(),
		JobKey:         entry.JobKey,
		CurrentXP:      entry.CurrentXP,
		Level:          entry.Level,
		LifetimeIncome: entry.LifetimeIncome,
		JoinedAt:       entry.JoinedAt.Unix(),
	}
	if entry.LastGain != nil {
		row.LastGain = sql.NullInt64{Int64: entry.LastGain.Unix(), Valid: true}
	}
	return row
}

// GetEntry returns one (player, job) entry, nil when absent
func (r *LedgerRepository) GetEntry(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.PlayerJobEntry, error) {
	var row entryRow
	err := r.conn.GetContext(ctx, &row,
		`SELECT * FROM player_jobs WHERE player_id = ? AND job_key = ?`,
		playerID.String(), jobKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}

	entry, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetPlayerEntries returns all entries for a player
func (r *LedgerRepository) GetPlayerEntries(ctx context.Context, playerID uuid.UUID) ([]domain.PlayerJobEntry, error) {
	var rows []entryRow
	err := r.conn.SelectContext(ctx, &rows,
		`SELECT * FROM player_jobs WHERE player_id = ? ORDER BY joined_at`,
		playerID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query player entries: %w", err)
	}
	return rowsToDomain(rows)
}

// GetAllEntries returns every persisted entry
func (r *LedgerRepository) GetAllEntries(ctx context.Context) ([]domain.PlayerJobEntry, error) {
	var rows []entryRow
	err := r.conn.SelectContext(ctx, &rows,
		`SELECT * FROM player_jobs ORDER BY player_id, joined_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	return rowsToDomain(rows)
}

// UpsertEntry writes one whole entry
func (r *LedgerRepository) UpsertEntry(ctx context.Context, entry *domain.PlayerJobEntry) error {
	row := toRow(entry)
	_, err := r.conn.NamedExecContext(ctx, `
		INSERT INTO player_jobs (player_id, job_key, current_xp, level, lifetime_income, joined_at, last_gain)
		VALUES (:player_id, :job_key, :current_xp, :level, :lifetime_income, :joined_at, :last_gain)
		ON CONFLICT (player_id, job_key)
		DO UPDATE SET
			current_xp = excluded.current_xp,
			level = excluded.level,
			lifetime_income = excluded.lifetime_income,
			last_gain = excluded.last_gain
	`, row)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// DeleteEntry removes one entry
func (r *LedgerRepository) DeleteEntry(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	_, err := r.conn.ExecContext(ctx,
		`DELETE FROM player_jobs WHERE player_id = ? AND job_key = ?`,
		playerID.String(), jobKey)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Ping verifies the database file is usable
func (r *LedgerRepository) Ping(ctx context.Context) error {
	return r.conn.PingContext(ctx)
}

// Close closes the database
func (r *LedgerRepository) Close() error {
	return r.conn.Close()
}

func rowsToDomain(rows []entryRow) ([]domain.PlayerJobEntry, error) {
	entries := make([]domain.PlayerJobEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
