package domain

import (
	"time"

	"github.com/google/uuid"
)

// PayoutInstruction directs the economy gateway to credit a player for a
// rewarded action. The ledger XP mutation has already happened by the time an
// instruction exists; applying the currency side idempotently is the
// gateway's responsibility.
type PayoutInstruction struct {
	ID        uuid.UUID `json:"id"`
	PlayerID  uuid.UUID `json:"player_id"`
	JobKey    string    `json:"job_key"`
	Income    float64   `json:"income"`
	XP        float64   `json:"xp"`
	NewLevel  int       `json:"new_level"`
	LeveledUp bool      `json:"leveled_up"`
	CreatedAt time.Time `json:"created_at"`
}

// ApplyResult is the outcome of a ledger XP/income mutation
type ApplyResult struct {
	NewXP     float64
	NewLevel  int
	LeveledUp bool
}
