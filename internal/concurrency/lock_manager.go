package concurrency

import (
	"sync"

	"github.com/google/uuid"
)

// LockManager hands out named locks. Locks are created on first use and kept
// for the life of the process; the key space here is bounded by the number of
// (player, job) pairs, which is small enough not to need eviction.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// EntryLock returns the mutex that serializes mutations for one player's
// progress in one job. Distinct pairs lock independently.
func (lm *LockManager) EntryLock(playerID uuid.UUID, jobKey string) *sync.Mutex {
	return lm.GetLock(playerID.String() + ":" + jobKey)
}

// PlayerLock returns the mutex guarding a player's job membership set.
// Join and leave take this to make the max-jobs bound race-free.
func (lm *LockManager) PlayerLock(playerID uuid.UUID) *sync.Mutex {
	return lm.GetLock("player:" + playerID.String())
}
