package gateway

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogProvider records balance changes to the log instead of delivering them.
// Used when no economy endpoint is configured, typically in development.
type LogProvider struct{}

func (LogProvider) Deposit(_ context.Context, playerID uuid.UUID, amount float64) error {
	slog.Info("Economy deposit (log only)", "player_id", playerID, "amount", amount)
	return nil
}

func (LogProvider) Withdraw(_ context.Context, playerID uuid.UUID, amount float64) error {
	slog.Info("Economy withdraw (log only)", "player_id", playerID, "amount", amount)
	return nil
}
