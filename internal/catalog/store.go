package catalog

import (
	"context"
	"sync/atomic"

	"github.com/mineforge/jobs/internal/logger"
	"github.com/mineforge/jobs/internal/metrics"
)

// Store holds the active catalog snapshot. Reload swaps the snapshot with a
// single atomic pointer store: readers in flight keep the snapshot they
// already resolved and never observe a half-applied reload.
type Store struct {
	loader  *Loader
	path    string
	current atomic.Pointer[Snapshot]
}

// NewStore loads the initial catalog from path. A store is never created
// without a valid snapshot, so Current never returns nil.
func NewStore(loader *Loader, path string) (*Store, error) {
	snap, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	s := &Store{loader: loader, path: path}
	s.current.Store(snap)
	return s, nil
}

// Current returns the active snapshot
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the catalog file. On any validation error the previous
// snapshot stays active and keeps serving lookups.
func (s *Store) Reload(ctx context.Context) error {
	log := logger.FromContext(ctx)

	snap, err := s.loader.Load(s.path)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("rejected").Inc()
		log.Error("Catalog reload rejected, previous catalog retained", "error", err, "path", s.path)
		return err
	}

	s.current.Store(snap)
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	log.Info("Catalog reloaded", "version", snap.Version(), "jobs", len(snap.order))
	return nil
}
