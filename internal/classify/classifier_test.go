package classify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/domain"
)

const classifierCatalogJSON = `{"version": "1", "jobs": [
	{"key": "miner", "display_name": "Miner",
	 "rules": [{"action": "break", "sub_type": "stone", "base_xp": 10, "base_income": 2}],
	 "curve": [{"threshold": 0, "level": 1, "multiplier": 1.0}]},
	{"key": "hunter", "display_name": "Hunter",
	 "rules": [{"action": "kill", "sub_type": "*", "base_xp": 8, "base_income": 1.5}],
	 "curve": [{"threshold": 0, "level": 1, "multiplier": 1.0}]},
	{"key": "fisher", "display_name": "Fisher",
	 "rules": [{"action": "fish", "sub_type": "common", "base_xp": 10, "base_income": 2}],
	 "curve": [{"threshold": 0, "level": 1, "multiplier": 1.0}]}
]}`

func newTestCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(classifierCatalogJSON), 0o644))

	loader, err := catalog.NewLoader()
	require.NoError(t, err)
	store, err := catalog.NewStore(loader, path)
	require.NoError(t, err)
	return store
}

// stubStacks answers stack sizes per entity type
type stubStacks struct {
	sizes map[string]int
	err   error
}

func (s stubStacks) StackSizeOf(e EntityRef) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if size, ok := s.sizes[e.Type]; ok {
		return size, nil
	}
	return 1, nil
}

type stubRarity struct {
	rarity string
	err    error
}

func (s stubRarity) RarityOf(CatchRef) (string, error) { return s.rarity, s.err }

type stubPets struct {
	owners map[uuid.UUID]uuid.UUID
}

func (s stubPets) OwnerOf(e EntityRef) (uuid.UUID, bool) {
	owner, ok := s.owners[e.ID]
	return owner, ok
}

type denyAllRegions struct{}

func (denyAllRegions) AllowsJobs(uuid.UUID, string, Coords) bool { return false }

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	return NewClassifier(newTestCatalog(t), NoopStackSize{}, NoopRarity{}, NoopPets{}, NoopRegionGate{})
}

func TestClassify_UnknownKindRejected(t *testing.T) {
	c := newClassifier(t)

	actions := c.Classify(context.Background(), RawEvent{Kind: "chat_message", PlayerID: uuid.New()})
	assert.Empty(t, actions)
}

func TestClassify_CheapRejectWithoutRules(t *testing.T) {
	c := newClassifier(t)

	// No job rewards crafting in the test catalog
	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventItemCraft,
		PlayerID: uuid.New(),
		Material: "iron_pickaxe",
	})
	assert.Empty(t, actions)
}

func TestClassify_BlockBreak(t *testing.T) {
	c := newClassifier(t)
	player := uuid.New()

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventBlockBreak,
		PlayerID: player,
		World:    "world",
		Material: "STONE",
	})

	require.Len(t, actions, 1)
	assert.Equal(t, player, actions[0].PlayerID)
	assert.Equal(t, domain.ActionBreak, actions[0].Action)
	assert.Equal(t, "stone", actions[0].SubType) // lowercased
	assert.Equal(t, 1, actions[0].Quantity)
	assert.Equal(t, "world", actions[0].World)
	assert.False(t, actions[0].OccurredAt.IsZero())
}

func TestClassify_MissingMaterialUsesDefaultSubType(t *testing.T) {
	c := newClassifier(t)

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventBlockBreak,
		PlayerID: uuid.New(),
	})

	require.Len(t, actions, 1)
	assert.Equal(t, DefaultSubType, actions[0].SubType)
}

func TestClassify_StackedKillBatchesIntoOneAction(t *testing.T) {
	player := uuid.New()
	c := NewClassifier(newTestCatalog(t),
		stubStacks{sizes: map[string]int{"zombie": 5}},
		NoopRarity{}, NoopPets{}, NoopRegionGate{})

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventEntityKill,
		PlayerID: player,
		Entities: []EntityRef{{ID: uuid.New(), Type: "zombie"}},
	})

	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionKill, actions[0].Action)
	assert.Equal(t, "zombie", actions[0].SubType)
	assert.Equal(t, 5, actions[0].Quantity)
}

func TestClassify_MixedKillFansOutPerSpecies(t *testing.T) {
	c := NewClassifier(newTestCatalog(t),
		stubStacks{sizes: map[string]int{"zombie": 2, "skeleton": 1}},
		NoopRarity{}, NoopPets{}, NoopRegionGate{})

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventEntityKill,
		PlayerID: uuid.New(),
		Entities: []EntityRef{
			{ID: uuid.New(), Type: "zombie"},
			{ID: uuid.New(), Type: "skeleton"},
			{ID: uuid.New(), Type: "zombie"},
		},
	})

	require.Len(t, actions, 2)
	// First-seen order, quantities summed per species
	assert.Equal(t, "zombie", actions[0].SubType)
	assert.Equal(t, 4, actions[0].Quantity)
	assert.Equal(t, "skeleton", actions[1].SubType)
	assert.Equal(t, 1, actions[1].Quantity)
}

func TestClassify_StackProviderErrorCountsOneKill(t *testing.T) {
	c := NewClassifier(newTestCatalog(t),
		stubStacks{err: errors.New("integration gone")},
		NoopRarity{}, NoopPets{}, NoopRegionGate{})

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventEntityKill,
		PlayerID: uuid.New(),
		Entities: []EntityRef{{ID: uuid.New(), Type: "creeper"}},
	})

	require.Len(t, actions, 1)
	assert.Equal(t, 1, actions[0].Quantity)
}

func TestClassify_PetKillCreditsOwner(t *testing.T) {
	owner := uuid.New()
	wolf := EntityRef{ID: uuid.New(), Type: "wolf"}
	c := NewClassifier(newTestCatalog(t),
		NoopStackSize{},
		NoopRarity{},
		stubPets{owners: map[uuid.UUID]uuid.UUID{wolf.ID: owner}},
		NoopRegionGate{})

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventEntityKill,
		Killer:   &wolf,
		Entities: []EntityRef{{ID: uuid.New(), Type: "sheep"}},
	})

	require.Len(t, actions, 1)
	assert.Equal(t, owner, actions[0].PlayerID)
}

func TestClassify_UnattributableKillRejected(t *testing.T) {
	c := newClassifier(t)

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventEntityKill,
		Killer:   &EntityRef{ID: uuid.New(), Type: "wolf"},
		Entities: []EntityRef{{ID: uuid.New(), Type: "sheep"}},
	})
	assert.Empty(t, actions)
}

func TestClassify_RegionDenied(t *testing.T) {
	c := NewClassifier(newTestCatalog(t),
		NoopStackSize{}, NoopRarity{}, NoopPets{}, denyAllRegions{})

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventBlockBreak,
		PlayerID: uuid.New(),
		Material: "stone",
	})
	assert.Empty(t, actions)
}

func TestClassify_FishCatchUsesRarity(t *testing.T) {
	c := NewClassifier(newTestCatalog(t),
		NoopStackSize{}, stubRarity{rarity: "RARE"}, NoopPets{}, NoopRegionGate{})

	catch := &CatchRef{ID: uuid.New(), Species: "salmon"}
	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventFishCatch,
		PlayerID: uuid.New(),
		Catch:    catch,
	})

	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionFish, actions[0].Action)
	assert.Equal(t, "rare", actions[0].SubType)
}

func TestClassify_RarityProviderErrorDegradesToDefault(t *testing.T) {
	c := NewClassifier(newTestCatalog(t),
		NoopStackSize{}, stubRarity{err: errors.New("timeout")}, NoopPets{}, NoopRegionGate{})

	actions := c.Classify(context.Background(), RawEvent{
		Kind:     EventFishCatch,
		PlayerID: uuid.New(),
		Catch:    &CatchRef{ID: uuid.New(), Species: "cod"},
	})

	require.Len(t, actions, 1)
	assert.Equal(t, DefaultRarity, actions[0].SubType)
}
