package bootstrap

import (
	"context"
	"log/slog"

	"github.com/mineforge/jobs/internal/event"
	"github.com/mineforge/jobs/internal/ledger"
	"github.com/mineforge/jobs/internal/repository"
	"github.com/mineforge/jobs/internal/scheduler"
	"github.com/mineforge/jobs/internal/server"
	"github.com/mineforge/jobs/internal/worker"
)

// ShutdownComponents holds everything that needs graceful shutdown
type ShutdownComponents struct {
	Server      *server.Server
	Pipeline    *event.Pipeline
	Scheduler   *scheduler.Scheduler
	GatewayPool *worker.Pool
	Ledger      ledger.Service
	Repo        repository.Ledger
}

// GracefulShutdown stops the application in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Event pipeline (drain buffered raw events through classification)
// 3. Scheduler (no further flush jobs get queued)
// 4. Gateway pool (deliver already-dispatched payouts)
// 5. Final ledger flush, then close the store
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDown)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedStop, "error", err)
	}

	components.Pipeline.Stop()
	components.Scheduler.Stop()
	components.GatewayPool.Stop()

	if err := components.Ledger.SaveAll(ctx); err != nil {
		slog.Error(LogMsgFinalFlushFailed, "error", err)
	}

	if err := components.Repo.Close(); err != nil {
		slog.Error("Store close failed", "error", err)
	}

	slog.Info(LogMsgStopped)
}
