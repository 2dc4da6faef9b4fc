package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineforge/jobs/internal/domain"
)

const testCatalogJSON = `{
  "version": "7",
  "jobs": [
    {
      "key": "miner",
      "display_name": "Miner",
      "world_multipliers": {"world_nether": 1.25},
      "rules": [
        {"action": "break", "sub_type": "stone", "base_xp": 10, "base_income": 2},
        {"action": "break", "sub_type": "*", "base_xp": 1, "base_income": 0.5}
      ],
      "curve": [
        {"threshold": 0, "level": 1, "multiplier": 1.0},
        {"threshold": 100, "level": 2, "multiplier": 1.1},
        {"threshold": 300, "level": 3, "multiplier": 1.2}
      ]
    },
    {
      "key": "farmer",
      "display_name": "Farmer",
      "rules": [
        {"action": "harvest", "sub_type": "wheat", "base_xp": 6, "base_income": 1, "scaling": "diminishing", "scaling_exponent": 0.9}
      ],
      "curve": [
        {"threshold": 0, "level": 1, "multiplier": 1.0}
      ]
    }
  ]
}`

func loadTestSnapshot(t *testing.T, data string) *Snapshot {
	t.Helper()
	loader, err := NewLoader()
	require.NoError(t, err)
	snap, err := loader.LoadBytes([]byte(data))
	require.NoError(t, err)
	return snap
}

func TestLoadBytes_ValidCatalog(t *testing.T) {
	snap := loadTestSnapshot(t, testCatalogJSON)

	assert.Equal(t, "7", snap.Version())
	assert.True(t, snap.HasJob("miner"))
	assert.True(t, snap.HasJob("farmer"))
	assert.False(t, snap.HasJob("hunter"))

	jobs := snap.Jobs()
	require.Len(t, jobs, 2)
	// Config order preserved
	assert.Equal(t, "miner", jobs[0].Key)
	assert.Equal(t, "farmer", jobs[1].Key)
}

func TestLoadBytes_SchemaViolations(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"missing jobs", `{"version": "1"}`},
		{"empty jobs array", `{"jobs": []}`},
		{"job without rules", `{"jobs": [{"key": "a", "display_name": "A", "curve": [{"threshold": 0, "level": 1, "multiplier": 1}]}]}`},
		{"bad job key", `{"jobs": [{"key": "Bad Key!", "display_name": "A", "rules": [{"action": "break", "sub_type": "*"}], "curve": [{"threshold": 0, "level": 1, "multiplier": 1}]}]}`},
		{"zero multiplier", `{"jobs": [{"key": "a", "display_name": "A", "rules": [{"action": "break", "sub_type": "*"}], "curve": [{"threshold": 0, "level": 1, "multiplier": 0}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.LoadBytes([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadBytes_SemanticValidation(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	curve := `[{"threshold": 0, "level": 1, "multiplier": 1.0}]`

	tests := []struct {
		name     string
		data     string
		expected error
	}{
		{
			"duplicate job key",
			`{"jobs": [
				{"key": "miner", "display_name": "A", "rules": [{"action": "break", "sub_type": "*"}], "curve": ` + curve + `},
				{"key": "miner", "display_name": "B", "rules": [{"action": "break", "sub_type": "*"}], "curve": ` + curve + `}
			]}`,
			ErrDuplicateJobKey,
		},
		{
			"duplicate rule",
			`{"jobs": [{"key": "miner", "display_name": "A", "rules": [
				{"action": "break", "sub_type": "stone"},
				{"action": "break", "sub_type": "stone"}
			], "curve": ` + curve + `}]}`,
			ErrDuplicateRule,
		},
		{
			"unknown action",
			`{"jobs": [{"key": "miner", "display_name": "A", "rules": [{"action": "teleport", "sub_type": "*"}], "curve": ` + curve + `}]}`,
			ErrUnknownAction,
		},
		{
			"curve not starting at zero",
			`{"jobs": [{"key": "miner", "display_name": "A", "rules": [{"action": "break", "sub_type": "*"}],
				"curve": [{"threshold": 50, "level": 1, "multiplier": 1.0}]}]}`,
			ErrCurveMustStartAtZero,
		},
		{
			"non-monotonic thresholds",
			`{"jobs": [{"key": "miner", "display_name": "A", "rules": [{"action": "break", "sub_type": "*"}],
				"curve": [
					{"threshold": 0, "level": 1, "multiplier": 1.0},
					{"threshold": 200, "level": 2, "multiplier": 1.1},
					{"threshold": 100, "level": 3, "multiplier": 1.2}
				]}]}`,
			ErrNonMonotonicCurve,
		},
		{
			"non-increasing levels",
			`{"jobs": [{"key": "miner", "display_name": "A", "rules": [{"action": "break", "sub_type": "*"}],
				"curve": [
					{"threshold": 0, "level": 2, "multiplier": 1.0},
					{"threshold": 100, "level": 2, "multiplier": 1.1}
				]}]}`,
			ErrInvalidCatalog,
		},
		{
			"diminishing without exponent",
			`{"jobs": [{"key": "miner", "display_name": "A", "rules": [
				{"action": "break", "sub_type": "*", "scaling": "diminishing"}
			], "curve": ` + curve + `}]}`,
			ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.LoadBytes([]byte(tt.data))
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestSnapshot_RuleLookupPrecedence(t *testing.T) {
	snap := loadTestSnapshot(t, testCatalogJSON)

	// Exact sub-type wins over the wildcard
	rule, ok := snap.Rule("miner", domain.ActionBreak, "stone")
	require.True(t, ok)
	assert.Equal(t, 10.0, rule.BaseXP)

	// Unmatched sub-type falls back to the wildcard
	rule, ok = snap.Rule("miner", domain.ActionBreak, "dirt")
	require.True(t, ok)
	assert.Equal(t, "*", rule.SubType)
	assert.Equal(t, 1.0, rule.BaseXP)

	// No rule for the action at all
	_, ok = snap.Rule("miner", domain.ActionKill, "zombie")
	assert.False(t, ok)

	// Unknown job
	_, ok = snap.Rule("hunter", domain.ActionBreak, "stone")
	assert.False(t, ok)
}

func TestSnapshot_RewardsAction(t *testing.T) {
	snap := loadTestSnapshot(t, testCatalogJSON)

	assert.True(t, snap.RewardsAction(domain.ActionBreak))
	assert.True(t, snap.RewardsAction(domain.ActionHarvest))
	assert.False(t, snap.RewardsAction(domain.ActionKill))
}

func TestSnapshot_LevelFor(t *testing.T) {
	snap := loadTestSnapshot(t, testCatalogJSON)

	tests := []struct {
		xp    float64
		level int
		mult  float64
	}{
		{0, 1, 1.0},
		{99.9, 1, 1.0},
		{100, 2, 1.1}, // exact threshold counts
		{105, 2, 1.1},
		{299, 2, 1.1},
		{300, 3, 1.2},
		{100000, 3, 1.2},
	}

	for _, tt := range tests {
		level, mult, err := snap.LevelFor("miner", tt.xp)
		require.NoError(t, err)
		assert.Equal(t, tt.level, level, "XP: %v", tt.xp)
		assert.Equal(t, tt.mult, mult, "XP: %v", tt.xp)
	}

	_, _, err := snap.LevelFor("unknown", 50)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestSnapshot_LevelForMonotonic(t *testing.T) {
	snap := loadTestSnapshot(t, testCatalogJSON)

	prev := 0
	for xp := 0.0; xp <= 500; xp += 7 {
		level, _, err := snap.LevelFor("miner", xp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, level, prev, "level regressed at XP %v", xp)
		prev = level
	}
}

func TestScale(t *testing.T) {
	linear := &domain.RewardRule{Scaling: domain.ScalingLinear}
	assert.Equal(t, 5.0, Scale(linear, 5))
	assert.Equal(t, 1.0, Scale(linear, 0)) // clamped to 1

	diminishing := &domain.RewardRule{Scaling: domain.ScalingDiminishing, ScalingExponent: 0.5}
	assert.Equal(t, 1.0, Scale(diminishing, 1))
	assert.InDelta(t, 3.0, Scale(diminishing, 9), 1e-9)
}
