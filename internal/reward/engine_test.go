package reward

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/database/memory"
	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/ledger"
)

const engineCatalogJSON = `{"version": "1", "jobs": [
	{"key": "miner", "display_name": "Miner",
	 "world_multipliers": {"world_nether": 1.25},
	 "rules": [{"action": "break", "sub_type": "stone", "base_xp": 10, "base_income": 2}],
	 "curve": [
		{"threshold": 0, "level": 1, "multiplier": 1.0},
		{"threshold": 100, "level": 2, "multiplier": 1.1}
	 ]},
	{"key": "digger", "display_name": "Digger",
	 "rules": [{"action": "break", "sub_type": "*", "base_xp": 3, "base_income": 0.5}],
	 "curve": [{"threshold": 0, "level": 1, "multiplier": 1.0}]},
	{"key": "hunter", "display_name": "Hunter",
	 "rules": [{"action": "kill", "sub_type": "*", "base_xp": 8, "base_income": 1.5}],
	 "curve": [{"threshold": 0, "level": 1, "multiplier": 1.0}]}
]}`

func newTestCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(engineCatalogJSON), 0o644))

	loader, err := catalog.NewLoader()
	require.NoError(t, err)
	store, err := catalog.NewStore(loader, path)
	require.NoError(t, err)
	return store
}

func newTestEngine(t *testing.T) (*Engine, ledger.Service) {
	t.Helper()
	cat := newTestCatalog(t)
	svc := ledger.NewService(memory.NewLedgerRepository(), cat, 3)
	return NewEngine(cat, svc, NoopBoosts{}, NoopBonus{}), svc
}

func breakStone(player uuid.UUID, qty int) domain.JobAction {
	return domain.JobAction{
		PlayerID:   player,
		Action:     domain.ActionBreak,
		SubType:    "stone",
		Quantity:   qty,
		World:      "world",
		OccurredAt: time.Now(),
	}
}

func TestReward_MinerLevelUp(t *testing.T) {
	engine, svc := newTestEngine(t)
	ctx := context.Background()
	player := uuid.New()

	require.NoError(t, svc.Join(ctx, player, "miner"))
	_, err := svc.ApplyDelta(ctx, player, "miner", 95, 0)
	require.NoError(t, err)

	// One stone at 95 XP crosses the 100 XP threshold, so the income
	// already earns the level 2 multiplier
	instrs := engine.Reward(ctx, breakStone(player, 1))

	require.Len(t, instrs, 1)
	assert.Equal(t, "miner", instrs[0].JobKey)
	assert.Equal(t, 10.0, instrs[0].XP)
	assert.InDelta(t, 2.2, instrs[0].Income, 1e-9)
	assert.Equal(t, 2, instrs[0].NewLevel)
	assert.True(t, instrs[0].LeveledUp)
	assert.NotEqual(t, uuid.Nil, instrs[0].ID)

	entries, _ := svc.Entries(ctx, player)
	require.Len(t, entries, 1)
	assert.Equal(t, 105.0, entries[0].CurrentXP)
	assert.Equal(t, 2, entries[0].Level)
}

func TestReward_TwoMatchingJobsPayTwice(t *testing.T) {
	engine, svc := newTestEngine(t)
	ctx := context.Background()
	player := uuid.New()

	require.NoError(t, svc.Join(ctx, player, "miner"))
	require.NoError(t, svc.Join(ctx, player, "digger"))

	instrs := engine.Reward(ctx, breakStone(player, 1))

	require.Len(t, instrs, 2)
	byJob := map[string]domain.PayoutInstruction{}
	for _, in := range instrs {
		byJob[in.JobKey] = in
	}
	assert.Equal(t, 10.0, byJob["miner"].XP)
	assert.Equal(t, 3.0, byJob["digger"].XP) // wildcard rule
}

func TestReward_NoMatchingRule(t *testing.T) {
	engine, svc := newTestEngine(t)
	ctx := context.Background()
	player := uuid.New()

	require.NoError(t, svc.Join(ctx, player, "hunter"))

	instrs := engine.Reward(ctx, breakStone(player, 1))
	assert.Empty(t, instrs)

	entries, _ := svc.Entries(ctx, player)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].CurrentXP)
}

func TestReward_NotJoinedAnywhere(t *testing.T) {
	engine, _ := newTestEngine(t)

	instrs := engine.Reward(context.Background(), breakStone(uuid.New(), 1))
	assert.Empty(t, instrs)
}

func TestReward_QuantityScalesLinearly(t *testing.T) {
	engine, svc := newTestEngine(t)
	ctx := context.Background()
	player := uuid.New()

	require.NoError(t, svc.Join(ctx, player, "miner"))

	instrs := engine.Reward(ctx, breakStone(player, 5))

	require.Len(t, instrs, 1)
	assert.Equal(t, 50.0, instrs[0].XP)
	assert.InDelta(t, 10.0, instrs[0].Income, 1e-9)
}

func TestReward_WorldMultiplierAppliesToIncomeOnly(t *testing.T) {
	engine, svc := newTestEngine(t)
	ctx := context.Background()
	player := uuid.New()

	require.NoError(t, svc.Join(ctx, player, "miner"))

	action := breakStone(player, 1)
	action.World = "world_nether"
	instrs := engine.Reward(ctx, action)

	require.Len(t, instrs, 1)
	assert.Equal(t, 10.0, instrs[0].XP)
	assert.InDelta(t, 2.5, instrs[0].Income, 1e-9) // 2 * 1.0 * 1.25
}

// fixedBoosts returns a constant multiplier
type fixedBoosts struct{ mult float64 }

func (f fixedBoosts) Multiplier(uuid.UUID, string, int) float64 { return f.mult }

func TestReward_BoosterMultipliesIncome(t *testing.T) {
	cat := newTestCatalog(t)
	svc := ledger.NewService(memory.NewLedgerRepository(), cat, 3)
	engine := NewEngine(cat, svc, fixedBoosts{mult: 2.0}, NoopBonus{})
	ctx := context.Background()
	player := uuid.New()

	require.NoError(t, svc.Join(ctx, player, "miner"))

	instrs := engine.Reward(ctx, breakStone(player, 1))

	require.Len(t, instrs, 1)
	assert.Equal(t, 10.0, instrs[0].XP) // boosters never touch XP
	assert.InDelta(t, 4.0, instrs[0].Income, 1e-9)
}

// leaveRacingLedger simulates losing the race against a concurrent leave
type leaveRacingLedger struct {
	entries []domain.PlayerJobEntry
}

func (l *leaveRacingLedger) Entries(context.Context, uuid.UUID) ([]domain.PlayerJobEntry, error) {
	return l.entries, nil
}

func (l *leaveRacingLedger) ApplyDelta(context.Context, uuid.UUID, string, float64, float64) (domain.ApplyResult, error) {
	return domain.ApplyResult{}, domain.ErrNotJoined
}

func TestReward_ConcurrentLeaveDropsPayoutSilently(t *testing.T) {
	cat := newTestCatalog(t)
	player := uuid.New()
	racing := &leaveRacingLedger{entries: []domain.PlayerJobEntry{
		{PlayerID: player, JobKey: "miner"},
	}}
	engine := NewEngine(cat, racing, NoopBoosts{}, NoopBonus{})

	instrs := engine.Reward(context.Background(), breakStone(player, 1))
	assert.Empty(t, instrs)
}
