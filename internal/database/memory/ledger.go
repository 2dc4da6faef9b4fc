// Package memory provides an in-memory ledger store for tests and for
// running the engine without any persistence backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/domain"
)

type entryKey struct {
	playerID uuid.UUID
	jobKey   string
}

// LedgerRepository is a map-backed ledger store
type LedgerRepository struct {
	mu      sync.RWMutex
	entries map[entryKey]domain.PlayerJobEntry
}

// NewLedgerRepository creates an empty in-memory store
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		entries: make(map[entryKey]domain.PlayerJobEntry),
	}
}

// GetEntry returns one (player, job) entry, nil when absent
func (r *LedgerRepository) GetEntry(_ context.Context, playerID uuid.UUID, jobKey string) (*domain.PlayerJobEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[entryKey{playerID: playerID, jobKey: jobKey}]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// GetPlayerEntries returns all entries for a player
func (r *LedgerRepository) GetPlayerEntries(_ context.Context, playerID uuid.UUID) ([]domain.PlayerJobEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []domain.PlayerJobEntry
	for key, entry := range r.entries {
		if key.playerID == playerID {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)
	return entries, nil
}

// GetAllEntries returns every stored entry
func (r *LedgerRepository) GetAllEntries(_ context.Context) ([]domain.PlayerJobEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]domain.PlayerJobEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	sortEntries(entries)
	return entries, nil
}

// UpsertEntry stores a copy of the entry
func (r *LedgerRepository) UpsertEntry(_ context.Context, entry *domain.PlayerJobEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entryKey{playerID: entry.PlayerID, jobKey: entry.JobKey}] = *entry
	return nil
}

// DeleteEntry removes one entry
func (r *LedgerRepository) DeleteEntry(_ context.Context, playerID uuid.UUID, jobKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, entryKey{playerID: playerID, jobKey: jobKey})
	return nil
}

// Ping always succeeds
func (r *LedgerRepository) Ping(context.Context) error { return nil }

// Close is a no-op
func (r *LedgerRepository) Close() error { return nil }

func sortEntries(entries []domain.PlayerJobEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PlayerID != entries[j].PlayerID {
			return entries[i].PlayerID.String() < entries[j].PlayerID.String()
		}
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})
}
