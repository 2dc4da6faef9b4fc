package reward

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/logger"
	"github.com/mineforge/jobs/internal/metrics"
)

// Ledger is the slice of the ledger service the engine needs
type Ledger interface {
	Entries(ctx context.Context, playerID uuid.UUID) ([]domain.PlayerJobEntry, error)
	ApplyDelta(ctx context.Context, playerID uuid.UUID, jobKey string, xpDelta, incomeDelta float64) (domain.ApplyResult, error)
}

// Boosts supplies the active booster multiplier for one payout
type Boosts interface {
	Multiplier(playerID uuid.UUID, jobKey string, jobLevel int) float64
}

// BonusProvider supplies permission-based bonus multipliers from the host's
// permission system. The noop default applies no bonus.
type BonusProvider interface {
	BonusMultiplier(playerID uuid.UUID, jobKey string) float64
}

// NoopBonus applies no permission bonus
type NoopBonus struct{}

func (NoopBonus) BonusMultiplier(uuid.UUID, string) float64 { return 1.0 }

// NoopBoosts applies no booster multiplier
type NoopBoosts struct{}

func (NoopBoosts) Multiplier(uuid.UUID, string, int) float64 { return 1.0 }

// Engine computes XP and currency rewards for classified actions
type Engine struct {
	catalog *catalog.Store
	ledger  Ledger
	boosts  Boosts
	bonus   BonusProvider
}

// NewEngine creates a reward engine
func NewEngine(cat *catalog.Store, ledger Ledger, boosts Boosts, bonus BonusProvider) *Engine {
	return &Engine{
		catalog: cat,
		ledger:  ledger,
		boosts:  boosts,
		bonus:   bonus,
	}
}

// Reward pays one classified action out across every job the actor has
// joined that has a matching rule. A player enrolled in two jobs that both
// reward the action receives two instructions; that is intentional.
//
// The catalog snapshot is resolved once at the top, so a concurrent reload
// cannot mix old and new rules within one call.
func (e *Engine) Reward(ctx context.Context, action domain.JobAction) []domain.PayoutInstruction {
	start := time.Now()
	defer func() {
		metrics.RewardDuration.Observe(time.Since(start).Seconds())
	}()

	snap := e.catalog.Current()

	entries, err := e.ledger.Entries(ctx, action.PlayerID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to read player entries",
			"player_id", action.PlayerID, "error", err)
		return nil
	}

	var instructions []domain.PayoutInstruction
	for _, entry := range entries {
		rule, ok := snap.Rule(entry.JobKey, action.Action, action.SubType)
		if !ok {
			// No matching rule in this job; not an error
			continue
		}

		scale := catalog.Scale(rule, action.Quantity)
		xp := rule.BaseXP * scale

		// Income uses the level the XP delta lands on, so a payout that
		// crosses a threshold already earns the new multiplier
		newLevel, levelMult, err := snap.LevelFor(entry.JobKey, entry.CurrentXP+xp)
		if err != nil {
			continue
		}

		income := rule.BaseIncome * scale * levelMult *
			worldMultiplier(snap, entry.JobKey, action.World) *
			e.boosts.Multiplier(action.PlayerID, entry.JobKey, newLevel) *
			e.bonus.BonusMultiplier(action.PlayerID, entry.JobKey)

		res, err := e.ledger.ApplyDelta(ctx, action.PlayerID, entry.JobKey, xp, income)
		if err != nil {
			if errors.Is(err, domain.ErrNotJoined) {
				// Lost a race with a concurrent leave; expected, not an error
				continue
			}
			logger.FromContext(ctx).Error("Failed to apply reward delta",
				"player_id", action.PlayerID, "job", entry.JobKey, "error", err)
			continue
		}

		metrics.PayoutsEmitted.WithLabelValues(entry.JobKey).Inc()
		instructions = append(instructions, domain.PayoutInstruction{
			ID:        uuid.New(),
			PlayerID:  action.PlayerID,
			JobKey:    entry.JobKey,
			Income:    income,
			XP:        xp,
			NewLevel:  res.NewLevel,
			LeveledUp: res.LeveledUp,
			CreatedAt: time.Now().UTC(),
		})
	}

	return instructions
}

func worldMultiplier(snap *catalog.Snapshot, jobKey, world string) float64 {
	job, ok := snap.Job(jobKey)
	if !ok || job.WorldMultipliers == nil {
		return 1.0
	}
	if mult, ok := job.WorldMultipliers[world]; ok {
		return mult
	}
	return 1.0
}
