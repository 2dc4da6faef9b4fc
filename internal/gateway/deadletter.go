package gateway

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/logger"
	"github.com/mineforge/jobs/internal/metrics"
)

// deadLetterEntry is one line of the dead letter file
type deadLetterEntry struct {
	Timestamp   time.Time                `json:"timestamp"`
	Reason      string                   `json:"reason"`
	Instruction domain.PayoutInstruction `json:"instruction"`
}

// deadLetterWriter appends failed payouts to a JSONL file so an operator can
// replay them once the economy provider recovers
type deadLetterWriter struct {
	path string
	mu   sync.Mutex // Protects file writes
}

func newDeadLetterWriter(path string) *deadLetterWriter {
	return &deadLetterWriter{path: path}
}

func (w *deadLetterWriter) write(instr domain.PayoutInstruction, reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Error("Failed to open dead letter file", "error", err, "path", w.path)
		return
	}
	defer f.Close()

	entry := deadLetterEntry{
		Timestamp:   time.Now().UTC(),
		Reason:      reason,
		Instruction: instr,
	}
	if err := json.NewEncoder(f).Encode(entry); err != nil {
		logger.Error("Failed to write dead letter entry", "error", err, "payout_id", instr.ID)
		return
	}

	metrics.PayoutDeadLetters.Inc()
}
