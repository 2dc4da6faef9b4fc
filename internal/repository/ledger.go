package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/domain"
)

// Ledger defines the data access interface for player job entries.
// Implementations write whole entries only; there are no partial-column
// updates that could leave a record torn.
type Ledger interface {
	// GetEntry returns the entry for one (player, job) pair, or nil when
	// the player has not joined the job
	GetEntry(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.PlayerJobEntry, error)

	// GetPlayerEntries returns all of one player's entries
	GetPlayerEntries(ctx context.Context, playerID uuid.UUID) ([]domain.PlayerJobEntry, error)

	// GetAllEntries returns every persisted entry
	GetAllEntries(ctx context.Context) ([]domain.PlayerJobEntry, error)

	// UpsertEntry writes one whole entry
	UpsertEntry(ctx context.Context, entry *domain.PlayerJobEntry) error

	// DeleteEntry removes one entry
	DeleteEntry(ctx context.Context, playerID uuid.UUID, jobKey string) error

	// Ping verifies the store is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying connections
	Close() error
}
