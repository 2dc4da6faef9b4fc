package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mineforge/jobs/internal/config"
	"github.com/mineforge/jobs/internal/database/postgres"
	"github.com/mineforge/jobs/internal/database/sqlite"
	"github.com/mineforge/jobs/internal/repository"
)

// OpenStore connects the ledger store selected by configuration. Postgres
// runs its migrations during Connect; sqlite creates its schema on Open.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Ledger, error) {
	var (
		repo repository.Ledger
		err  error
	)

	switch cfg.Store {
	case config.StorePostgres:
		repo, err = postgres.Connect(ctx, cfg.GetDBConnString())
	case config.StoreSQLite:
		repo, err = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	slog.Info(LogMsgStoreConnected, "backend", cfg.Store)
	return repo, nil
}
