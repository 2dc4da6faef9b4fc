package boost

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/logger"
)

// DefaultCacheSize bounds how many players can hold boosters at once
const DefaultCacheSize = 10_000

// Manager tracks active reward boosters per player. Time-limited boosters
// ride the expirable LRU's TTL handling; charge-limited boosters are
// decremented on use and dropped at zero.
type Manager struct {
	mu    sync.Mutex
	cache *expirable.LRU[uuid.UUID, []*domain.Booster]
}

// NewManager creates a booster manager. maxTTL caps how long any booster can
// live; individual boosters can expire sooner via their ExpiresAt.
func NewManager(size int, maxTTL time.Duration) *Manager {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Manager{
		cache: expirable.NewLRU[uuid.UUID, []*domain.Booster](size, nil, maxTTL),
	}
}

// Grant activates a booster for a player
func (m *Manager) Grant(ctx context.Context, booster *domain.Booster) error {
	if booster.Multiplier <= 0 {
		return fmt.Errorf("%w: booster multiplier must be positive", domain.ErrInvalidInput)
	}
	if booster.Scope == domain.BoosterScopeJob && booster.JobKey == "" {
		return fmt.Errorf("%w: job-scoped booster needs a job key", domain.ErrInvalidInput)
	}
	if booster.ExpiresAt.IsZero() {
		return fmt.Errorf("%w: booster needs an expiry", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	boosters, _ := m.cache.Get(booster.PlayerID)
	// Re-granting a key replaces the old booster
	kept := boosters[:0]
	for _, b := range boosters {
		if b.Key != booster.Key {
			kept = append(kept, b)
		}
	}
	m.cache.Add(booster.PlayerID, append(kept, booster))

	logger.FromContext(ctx).Info("Booster granted",
		"player_id", booster.PlayerID, "key", booster.Key,
		"multiplier", booster.Multiplier, "expires_at", booster.ExpiresAt)
	return nil
}

// Revoke removes a booster by key. Returns false when no such booster is
// active.
func (m *Manager) Revoke(playerID uuid.UUID, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	boosters, ok := m.cache.Get(playerID)
	if !ok {
		return false
	}

	kept := make([]*domain.Booster, 0, len(boosters))
	found := false
	for _, b := range boosters {
		if b.Key == key {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return false
	}

	if len(kept) == 0 {
		m.cache.Remove(playerID)
	} else {
		m.cache.Add(playerID, kept)
	}
	return true
}

// Active returns the player's live boosters, pruning expired ones
func (m *Manager) Active(playerID uuid.UUID) []*domain.Booster {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pruneLocked(playerID, time.Now())
}

// Multiplier returns the combined booster multiplier for one payout and
// consumes one charge from each charge-limited booster that applied.
// Boosters gated on a job level above the player's do not apply.
func (m *Manager) Multiplier(playerID uuid.UUID, jobKey string, jobLevel int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	boosters := m.pruneLocked(playerID, now)
	if len(boosters) == 0 {
		return 1.0
	}

	mult := 1.0
	kept := boosters[:0]
	for _, b := range boosters {
		if !m.applies(b, jobKey, jobLevel) {
			kept = append(kept, b)
			continue
		}

		mult *= b.Multiplier
		if b.Charges > 0 {
			b.Charges--
			if b.Charges == 0 {
				continue // spent
			}
		}
		kept = append(kept, b)
	}

	if len(kept) == 0 {
		m.cache.Remove(playerID)
	} else {
		m.cache.Add(playerID, kept)
	}
	return mult
}

func (m *Manager) applies(b *domain.Booster, jobKey string, jobLevel int) bool {
	if b.Scope == domain.BoosterScopeJob && b.JobKey != jobKey {
		return false
	}
	if b.RequiredJobLevel > 0 && jobLevel < b.RequiredJobLevel {
		return false
	}
	return true
}

// pruneLocked drops expired boosters; callers hold m.mu
func (m *Manager) pruneLocked(playerID uuid.UUID, now time.Time) []*domain.Booster {
	boosters, ok := m.cache.Get(playerID)
	if !ok {
		return nil
	}

	kept := make([]*domain.Booster, 0, len(boosters))
	for _, b := range boosters {
		if b.ExpiresAt.After(now) {
			kept = append(kept, b)
		}
	}

	if len(kept) == 0 {
		m.cache.Remove(playerID)
		return nil
	}
	if len(kept) != len(boosters) {
		m.cache.Add(playerID, kept)
	}
	return kept
}
