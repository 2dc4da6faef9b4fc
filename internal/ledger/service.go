package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/concurrency"
	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/logger"
	"github.com/mineforge/jobs/internal/metrics"
	"github.com/mineforge/jobs/internal/repository"
)

// Service defines the player job ledger business logic
type Service interface {
	// Membership
	Join(ctx context.Context, playerID uuid.UUID, jobKey string) error
	Leave(ctx context.Context, playerID uuid.UUID, jobKey string) error
	Entries(ctx context.Context, playerID uuid.UUID) ([]domain.PlayerJobEntry, error)

	// Progress
	ApplyDelta(ctx context.Context, playerID uuid.UUID, jobKey string, xpDelta, incomeDelta float64) (domain.ApplyResult, error)
	ResetXP(ctx context.Context, playerID uuid.UUID, jobKey string) error

	// Persistence
	LoadAll(ctx context.Context) error
	LoadPlayer(ctx context.Context, playerID uuid.UUID) error
	Save(ctx context.Context, playerID uuid.UUID, jobKey string) error
	SaveAll(ctx context.Context) error
}

type entryKey struct {
	playerID uuid.UUID
	jobKey   string
}

type service struct {
	repo    repository.Ledger
	catalog *catalog.Store
	locks   *concurrency.LockManager
	maxJobs int
	now     func() time.Time

	// mu guards the map structure. Entry field access additionally requires
	// the entry's lock from the lock manager, so distinct (player, job)
	// pairs mutate independently.
	mu      sync.RWMutex
	entries map[entryKey]*domain.PlayerJobEntry

	dirtyMu sync.Mutex
	dirty   map[entryKey]struct{}
}

// NewService creates a ledger service backed by the given store. Call
// LoadAll before serving traffic so restarts resume prior progress.
func NewService(repo repository.Ledger, cat *catalog.Store, maxJobs int) Service {
	return &service{
		repo:    repo,
		catalog: cat,
		locks:   concurrency.NewLockManager(),
		maxJobs: maxJobs,
		now:     time.Now,
		entries: make(map[entryKey]*domain.PlayerJobEntry),
		dirty:   make(map[entryKey]struct{}),
	}
}

// Join enrolls a player in a job. The max-jobs bound is enforced here, at
// join time only; lowering the limit never retroactively evicts players.
func (s *service) Join(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	if !s.catalog.Current().HasJob(jobKey) {
		return fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobKey)
	}

	playerLock := s.locks.PlayerLock(playerID)
	playerLock.Lock()
	defer playerLock.Unlock()

	key := entryKey{playerID: playerID, jobKey: jobKey}

	s.mu.RLock()
	_, exists := s.entries[key]
	joined := s.countPlayerEntriesLocked(playerID)
	s.mu.RUnlock()

	if exists {
		return domain.ErrAlreadyJoined
	}
	if joined >= s.maxJobs {
		return fmt.Errorf("%w: %d of %d jobs joined", domain.ErrJobLimitExceeded, joined, s.maxJobs)
	}

	level, _, err := s.catalog.Current().LevelFor(jobKey, 0)
	if err != nil {
		return err
	}

	entry := &domain.PlayerJobEntry{
		PlayerID:  playerID,
		JobKey:    jobKey,
		CurrentXP: 0,
		Level:     level,
		JoinedAt:  s.now().UTC(),
	}

	// Persist before exposing the entry so a failed write leaves the
	// ledger unchanged
	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to persist join: %w", err)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	logger.FromContext(ctx).Info("Player joined job", "player_id", playerID, "job", jobKey)
	return nil
}

// Leave removes a player from a job, discarding their progress
func (s *service) Leave(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	playerLock := s.locks.PlayerLock(playerID)
	playerLock.Lock()
	defer playerLock.Unlock()

	key := entryKey{playerID: playerID, jobKey: jobKey}

	s.mu.RLock()
	_, exists := s.entries[key]
	s.mu.RUnlock()
	if !exists {
		return domain.ErrNotJoined
	}

	if err := s.repo.DeleteEntry(ctx, playerID, jobKey); err != nil {
		return fmt.Errorf("failed to persist leave: %w", err)
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	s.dirtyMu.Lock()
	delete(s.dirty, key)
	s.dirtyMu.Unlock()

	logger.FromContext(ctx).Info("Player left job", "player_id", playerID, "job", jobKey)
	return nil
}

// Entries returns copies of a player's entries
func (s *service) Entries(_ context.Context, playerID uuid.UUID) ([]domain.PlayerJobEntry, error) {
	s.mu.RLock()
	keys := make([]entryKey, 0, s.maxJobs)
	for key := range s.entries {
		if key.playerID == playerID {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()

	entries := make([]domain.PlayerJobEntry, 0, len(keys))
	for _, key := range keys {
		if entry, ok := s.copyEntry(key); ok {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].JoinedAt.Before(entries[j].JoinedAt) })
	return entries, nil
}

// ApplyDelta mutates one (player, job) entry atomically. Concurrent deltas
// for the same pair serialize on the entry lock; deltas for different pairs
// proceed independently. The new level is recomputed from the catalog curve.
func (s *service) ApplyDelta(ctx context.Context, playerID uuid.UUID, jobKey string, xpDelta, incomeDelta float64) (domain.ApplyResult, error) {
	if xpDelta < 0 || incomeDelta < 0 {
		return domain.ApplyResult{}, fmt.Errorf("%w: deltas must be non-negative", domain.ErrInvalidInput)
	}

	key := entryKey{playerID: playerID, jobKey: jobKey}
	entryLock := s.locks.EntryLock(playerID, jobKey)
	entryLock.Lock()
	defer entryLock.Unlock()

	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()
	if !exists {
		return domain.ApplyResult{}, domain.ErrNotJoined
	}

	snap := s.catalog.Current()
	oldLevel, _, err := snap.LevelFor(jobKey, entry.CurrentXP)
	if err != nil {
		return domain.ApplyResult{}, err
	}

	newXP := entry.CurrentXP + xpDelta
	newLevel, _, err := snap.LevelFor(jobKey, newXP)
	if err != nil {
		return domain.ApplyResult{}, err
	}

	now := s.now().UTC()
	entry.CurrentXP = newXP
	entry.Level = newLevel
	entry.LifetimeIncome += incomeDelta
	entry.LastGain = &now

	s.markDirty(key)

	leveledUp := newLevel > oldLevel
	if leveledUp {
		metrics.LevelUps.WithLabelValues(jobKey).Inc()
		logger.FromContext(ctx).Info("Player leveled up",
			"player_id", playerID, "job", jobKey, "level", newLevel)
	}

	return domain.ApplyResult{
		NewXP:     newXP,
		NewLevel:  newLevel,
		LeveledUp: leveledUp,
	}, nil
}

// ResetXP is the administrative reset, the only sanctioned way XP decreases.
// The reset is persisted immediately.
func (s *service) ResetXP(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	key := entryKey{playerID: playerID, jobKey: jobKey}
	entryLock := s.locks.EntryLock(playerID, jobKey)
	entryLock.Lock()
	defer entryLock.Unlock()

	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()
	if !exists {
		return domain.ErrNotJoined
	}

	level, _, err := s.catalog.Current().LevelFor(jobKey, 0)
	if err != nil {
		return err
	}

	entry.CurrentXP = 0
	entry.Level = level

	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to persist reset: %w", err)
	}

	logger.FromContext(ctx).Info("Player XP reset", "player_id", playerID, "job", jobKey)
	return nil
}

// LoadAll replaces the in-memory ledger with the persisted snapshot. Levels
// are recomputed from the active curve, never trusted from storage.
func (s *service) LoadAll(ctx context.Context) error {
	persisted, err := s.repo.GetAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	snap := s.catalog.Current()
	entries := make(map[entryKey]*domain.PlayerJobEntry, len(persisted))
	for i := range persisted {
		entry := persisted[i]
		if level, _, err := snap.LevelFor(entry.JobKey, entry.CurrentXP); err == nil {
			entry.Level = level
		}
		entries[entryKey{playerID: entry.PlayerID, jobKey: entry.JobKey}] = &entry
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	logger.FromContext(ctx).Info("Ledger loaded", "entries", len(entries))
	return nil
}

// LoadPlayer refreshes one player's entries from the store
func (s *service) LoadPlayer(ctx context.Context, playerID uuid.UUID) error {
	playerLock := s.locks.PlayerLock(playerID)
	playerLock.Lock()
	defer playerLock.Unlock()

	persisted, err := s.repo.GetPlayerEntries(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to load player %s: %w", playerID, err)
	}

	snap := s.catalog.Current()

	s.mu.Lock()
	for key := range s.entries {
		if key.playerID == playerID {
			delete(s.entries, key)
		}
	}
	for i := range persisted {
		entry := persisted[i]
		if level, _, err := snap.LevelFor(entry.JobKey, entry.CurrentXP); err == nil {
			entry.Level = level
		}
		s.entries[entryKey{playerID: entry.PlayerID, jobKey: entry.JobKey}] = &entry
	}
	s.mu.Unlock()

	return nil
}

// Save persists one (player, job) entry
func (s *service) Save(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	key := entryKey{playerID: playerID, jobKey: jobKey}
	entry, ok := s.copyEntry(key)
	if !ok {
		return domain.ErrNotJoined
	}

	if err := s.repo.UpsertEntry(ctx, &entry); err != nil {
		metrics.LedgerSaveErrors.Inc()
		return fmt.Errorf("failed to save entry: %w", err)
	}

	metrics.LedgerSaves.Inc()
	s.dirtyMu.Lock()
	delete(s.dirty, key)
	s.dirtyMu.Unlock()
	return nil
}

// SaveAll flushes every dirty entry. Failed entries stay dirty and are
// retried on the next flush; the combined error is returned so the caller
// can alert.
func (s *service) SaveAll(ctx context.Context) error {
	s.dirtyMu.Lock()
	keys := make([]entryKey, 0, len(s.dirty))
	for key := range s.dirty {
		keys = append(keys, key)
	}
	s.dirtyMu.Unlock()

	var errs []error
	saved := 0
	for _, key := range keys {
		entry, ok := s.copyEntry(key)
		if !ok {
			// Left between flushes; nothing to save
			s.dirtyMu.Lock()
			delete(s.dirty, key)
			s.dirtyMu.Unlock()
			continue
		}

		if err := s.repo.UpsertEntry(ctx, &entry); err != nil {
			metrics.LedgerSaveErrors.Inc()
			errs = append(errs, fmt.Errorf("entry %s/%s: %w", key.playerID, key.jobKey, err))
			continue
		}

		metrics.LedgerSaves.Inc()
		saved++
		s.dirtyMu.Lock()
		delete(s.dirty, key)
		s.dirtyMu.Unlock()
	}

	if len(errs) > 0 {
		return fmt.Errorf("ledger flush: %d of %d entries failed: %w", len(errs), len(keys), errors.Join(errs...))
	}

	if saved > 0 {
		logger.FromContext(ctx).Debug("Ledger flushed", "entries", saved)
	}
	return nil
}

// copyEntry snapshots one entry under its lock
func (s *service) copyEntry(key entryKey) (domain.PlayerJobEntry, bool) {
	entryLock := s.locks.EntryLock(key.playerID, key.jobKey)
	entryLock.Lock()
	defer entryLock.Unlock()

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return domain.PlayerJobEntry{}, false
	}
	return *entry, true
}

func (s *service) markDirty(key entryKey) {
	s.dirtyMu.Lock()
	s.dirty[key] = struct{}{}
	s.dirtyMu.Unlock()
}

// countPlayerEntriesLocked counts a player's entries; callers hold mu
func (s *service) countPlayerEntriesLocked(playerID uuid.UUID) int {
	count := 0
	for key := range s.entries {
		if key.playerID == playerID {
			count++
		}
	}
	return count
}
