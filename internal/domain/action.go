package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionType is the canonical category of a job-relevant activity
type ActionType string

// Supported action types. Sub-types narrow these further (block material,
// entity tag, fish rarity), with SubTypeAny as the catch-all.
const (
	ActionBreak   ActionType = "break"
	ActionPlace   ActionType = "place"
	ActionKill    ActionType = "kill"
	ActionFish    ActionType = "fish"
	ActionCraft   ActionType = "craft"
	ActionSmelt   ActionType = "smelt"
	ActionBrew    ActionType = "brew"
	ActionEnchant ActionType = "enchant"
	ActionHarvest ActionType = "harvest"
	ActionBreed   ActionType = "breed"
	ActionTame    ActionType = "tame"
	ActionShear   ActionType = "shear"
	ActionRepair  ActionType = "repair"
)

// JobAction is a classified unit of job-relevant activity. It is transient:
// produced by the classifier, consumed immediately by the reward engine,
// never persisted.
type JobAction struct {
	PlayerID   uuid.UUID  `json:"player_id"`
	Action     ActionType `json:"action"`
	SubType    string     `json:"sub_type"`
	Quantity   int        `json:"quantity"` // >= 1; stacked kills report their stack size here
	World      string     `json:"world"`
	OccurredAt time.Time  `json:"occurred_at"`
}
