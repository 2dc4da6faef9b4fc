package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job represents a configured profession that players can join and level up
type Job struct {
	Key              string             `json:"key"`          // "miner", "hunter", etc.
	DisplayName      string             `json:"display_name"` // "Miner"
	Description      string             `json:"description"`
	Rules            []RewardRule       `json:"rules"`
	Curve            LevelCurve         `json:"curve"`
	WorldMultipliers map[string]float64 `json:"world_multipliers,omitempty"` // per-world income multiplier
}

// ScalingMode selects how rewards scale with action quantity
type ScalingMode string

const (
	// ScalingLinear multiplies the base reward by the quantity
	ScalingLinear ScalingMode = "linear"
	// ScalingDiminishing multiplies by quantity^exponent with exponent < 1
	ScalingDiminishing ScalingMode = "diminishing"
)

// SubTypeAny is the wildcard sub-type that matches any material or entity tag
const SubTypeAny = "*"

// RewardRule maps an (action, sub-type) pair to base rewards.
// SubTypeAny acts as a catch-all; exact matches take precedence over it.
type RewardRule struct {
	Action          ActionType  `json:"action"`
	SubType         string      `json:"sub_type"`
	BaseXP          float64     `json:"base_xp"`
	BaseIncome      float64     `json:"base_income"`
	Scaling         ScalingMode `json:"scaling,omitempty"`          // defaults to linear
	ScalingExponent float64     `json:"scaling_exponent,omitempty"` // used by diminishing mode
}

// LevelStep is one threshold of a level curve
type LevelStep struct {
	Threshold  float64 `json:"threshold"` // cumulative XP required
	Level      int     `json:"level"`
	Multiplier float64 `json:"multiplier"` // income multiplier at this level
}

// LevelCurve is an ordered sequence of level steps, strictly increasing in
// threshold. The player's level is the greatest step whose threshold does not
// exceed their XP.
type LevelCurve []LevelStep

// PlayerJobEntry tracks one player's progress in one job.
// Level is always recomputed from XP via the job's curve; the stored value is
// a cache for queries, never an input to reward math.
type PlayerJobEntry struct {
	PlayerID       uuid.UUID  `json:"player_id"`
	JobKey         string     `json:"job_key"`
	CurrentXP      float64    `json:"current_xp"`
	Level          int        `json:"level"`
	LifetimeIncome float64    `json:"lifetime_income"`
	JoinedAt       time.Time  `json:"joined_at"`
	LastGain       *time.Time `json:"last_gain,omitempty"`
}
