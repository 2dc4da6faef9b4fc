package domain

import (
	"time"

	"github.com/google/uuid"
)

// BoosterScope controls which rewards a booster applies to
type BoosterScope string

const (
	// BoosterScopeGlobal applies to every payout for the player
	BoosterScopeGlobal BoosterScope = "global"
	// BoosterScopeJob applies only to payouts from a single job
	BoosterScopeJob BoosterScope = "job"
)

// Booster is a temporary reward multiplier granted to a player. Boosters can
// be time-limited, charge-limited (consumed per rewarded action), or both,
// and can require a minimum job level before they take effect.
type Booster struct {
	Key              string       `json:"key"`
	PlayerID         uuid.UUID    `json:"player_id"`
	Scope            BoosterScope `json:"scope"`
	JobKey           string       `json:"job_key,omitempty"` // required when scope is job
	Multiplier       float64      `json:"multiplier"`
	RequiredJobLevel int          `json:"required_job_level,omitempty"`
	Charges          int          `json:"charges,omitempty"` // 0 means unlimited
	ExpiresAt        time.Time    `json:"expires_at"`
}
