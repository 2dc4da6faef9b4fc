package worker

import (
	"context"

	"github.com/mineforge/jobs/internal/logger"
)

// LedgerFlusher is the slice of the ledger service the flush worker uses
type LedgerFlusher interface {
	SaveAll(ctx context.Context) error
}

// FlushJob persists dirty ledger entries. It is scheduled at a fixed
// interval; entries that fail to save stay dirty and are retried on the next
// run, so a transient store outage costs at most one interval of progress.
type FlushJob struct {
	ledger LedgerFlusher
}

// NewFlushJob creates a ledger flush job
func NewFlushJob(ledger LedgerFlusher) *FlushJob {
	return &FlushJob{ledger: ledger}
}

// Process flushes the ledger once
func (j *FlushJob) Process(ctx context.Context) error {
	if err := j.ledger.SaveAll(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgFlushFailed, "error", err)
		return err
	}
	return nil
}
