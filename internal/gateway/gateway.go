// Package gateway hands payout instructions off to the external economy
// provider. Dispatch is fire-and-forget: the reward pipeline never waits on
// economy I/O, and a failed currency write never touches ledger XP.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/logger"
	"github.com/mineforge/jobs/internal/metrics"
	"github.com/mineforge/jobs/internal/worker"
)

// EconomyProvider is the external economy plugin boundary
type EconomyProvider interface {
	Deposit(ctx context.Context, playerID uuid.UUID, amount float64) error
	Withdraw(ctx context.Context, playerID uuid.UUID, amount float64) error
}

// Config tunes the gateway's retry policy
type Config struct {
	MaxRetries     int
	RetryDelay     time.Duration
	DeadLetterPath string
}

// Gateway queues payouts onto a worker pool and applies them with retries
// and a circuit breaker. Exhausted payouts land in the dead letter file for
// operator replay; idempotency of the replay is the operator's concern.
type Gateway struct {
	provider   EconomyProvider
	pool       *worker.Pool
	breaker    *gobreaker.CircuitBreaker
	config     Config
	deadLetter *deadLetterWriter
}

// NewGateway creates a gateway around the given provider. The pool must be
// started and stopped by the caller.
func NewGateway(provider EconomyProvider, pool *worker.Pool, config Config) *Gateway {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "economy-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Economy breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Gateway{
		provider:   provider,
		pool:       pool,
		breaker:    breaker,
		config:     config,
		deadLetter: newDeadLetterWriter(config.DeadLetterPath),
	}
}

// Dispatch accepts a payout instruction and returns immediately. When the
// queue is full the instruction goes straight to the dead letter file rather
// than blocking the reward pipeline.
func (g *Gateway) Dispatch(instr domain.PayoutInstruction) {
	job := &payoutJob{gateway: g, instr: instr}
	if !g.pool.TryEnqueue(job) {
		logger.Warn("Payout queue full, dead-lettering instruction",
			"payout_id", instr.ID, "player_id", instr.PlayerID)
		g.deadLetter.write(instr, "queue full")
	}
}

// payoutJob applies one instruction with retries
type payoutJob struct {
	gateway *Gateway
	instr   domain.PayoutInstruction
}

// Process attempts the economy write until it succeeds or retries are
// exhausted. The retry budget includes the first attempt.
func (j *payoutJob) Process(ctx context.Context) error {
	g := j.gateway

	var lastErr error
	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff, matching how long economy plugins
			// typically take to recover from a reload
			time.Sleep(g.config.RetryDelay * time.Duration(attempt))
		}

		lastErr = g.apply(ctx, j.instr)
		if lastErr == nil {
			if attempt > 0 {
				logger.FromContext(ctx).Info("Payout applied after retry",
					"payout_id", j.instr.ID, "attempt", attempt)
			}
			return nil
		}

		metrics.PayoutFailures.Inc()
		logger.FromContext(ctx).Warn("Payout attempt failed",
			"payout_id", j.instr.ID, "attempt", attempt, "error", lastErr)
	}

	g.deadLetter.write(j.instr, lastErr.Error())
	return fmt.Errorf("payout %s exhausted retries: %w", j.instr.ID, lastErr)
}

// apply pushes one currency delta through the circuit breaker
func (g *Gateway) apply(ctx context.Context, instr domain.PayoutInstruction) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		if instr.Income < 0 {
			return nil, g.provider.Withdraw(ctx, instr.PlayerID, -instr.Income)
		}
		return nil, g.provider.Deposit(ctx, instr.PlayerID, instr.Income)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEconomyUnavailable, err)
	}
	return nil
}
