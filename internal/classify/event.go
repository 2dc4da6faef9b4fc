package classify

import (
	"time"

	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/domain"
)

// EventKind identifies the raw game event reported by the host
type EventKind string

const (
	EventBlockBreak  EventKind = "block_break"
	EventBlockPlace  EventKind = "block_place"
	EventEntityKill  EventKind = "entity_kill"
	EventFishCatch   EventKind = "fish_catch"
	EventItemCraft   EventKind = "item_craft"
	EventItemSmelt   EventKind = "item_smelt"
	EventItemBrew    EventKind = "item_brew"
	EventItemEnchant EventKind = "item_enchant"
	EventHarvest     EventKind = "harvest"
	EventBreed       EventKind = "breed"
	EventTame        EventKind = "tame"
	EventShear       EventKind = "shear"
	EventRepair      EventKind = "repair"
)

// kindToAction maps raw event kinds to canonical action types
var kindToAction = map[EventKind]domain.ActionType{
	EventBlockBreak:  domain.ActionBreak,
	EventBlockPlace:  domain.ActionPlace,
	EventEntityKill:  domain.ActionKill,
	EventFishCatch:   domain.ActionFish,
	EventItemCraft:   domain.ActionCraft,
	EventItemSmelt:   domain.ActionSmelt,
	EventItemBrew:    domain.ActionBrew,
	EventItemEnchant: domain.ActionEnchant,
	EventHarvest:     domain.ActionHarvest,
	EventBreed:       domain.ActionBreed,
	EventTame:        domain.ActionTame,
	EventShear:       domain.ActionShear,
	EventRepair:      domain.ActionRepair,
}

// EntityRef is an opaque handle to a live entity, passed through to the
// stacking and pet integrations.
type EntityRef struct {
	ID   uuid.UUID
	Type string // entity tag, e.g. "zombie", "skeleton"
}

// CatchRef is an opaque handle to a fishing catch, passed to the rarity
// integration.
type CatchRef struct {
	ID      uuid.UUID
	Species string
}

// Coords is a block position within a world
type Coords struct {
	X int
	Y int
	Z int
}

// RawEvent is what the host adapter reports for every game event that might
// be job-relevant. The classifier turns it into zero or more JobActions.
type RawEvent struct {
	Kind     EventKind
	PlayerID uuid.UUID // zero when the acting entity is not a player (pet kills)
	World    string
	Coords   Coords

	// Material is the block or item material for block/item events
	Material string

	// Quantity is the item count for craft/smelt style events; minimum 1
	Quantity int

	// Entities are the victims of an entity_kill event. A stacked mob
	// reports one EntityRef; its stack size comes from the integration.
	Entities []EntityRef

	// Killer is the entity that dealt the killing blow, used for pet
	// attribution when PlayerID is zero.
	Killer *EntityRef

	// Catch is set for fish_catch events
	Catch *CatchRef

	OccurredAt time.Time
}
