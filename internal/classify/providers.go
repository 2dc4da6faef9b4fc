package classify

import (
	"github.com/google/uuid"
)

// Capability interfaces for the integration plugins the classifier consults.
// Each has a noop default, resolved once at startup: a missing integration
// degrades to default values and never fails an action.

// StackSizeProvider reports how many mobs a single entity represents when a
// stacking plugin is active.
type StackSizeProvider interface {
	StackSizeOf(entity EntityRef) (int, error)
}

// RarityProvider reports the rarity tier of a fishing catch
type RarityProvider interface {
	RarityOf(catch CatchRef) (string, error)
}

// PetProvider resolves the owning player of a pet entity, so kills by pets
// credit their owner.
type PetProvider interface {
	OwnerOf(entity EntityRef) (uuid.UUID, bool)
}

// RegionGate reports whether job rewards are enabled at a location
type RegionGate interface {
	AllowsJobs(playerID uuid.UUID, world string, coords Coords) bool
}

// NoopStackSize reports every entity as a stack of one
type NoopStackSize struct{}

func (NoopStackSize) StackSizeOf(EntityRef) (int, error) { return 1, nil }

// NoopRarity reports every catch at the default rarity
type NoopRarity struct{}

func (NoopRarity) RarityOf(CatchRef) (string, error) { return DefaultRarity, nil }

// NoopPets never attributes kills to a pet owner
type NoopPets struct{}

func (NoopPets) OwnerOf(EntityRef) (uuid.UUID, bool) { return uuid.Nil, false }

// NoopRegionGate allows job rewards everywhere
type NoopRegionGate struct{}

func (NoopRegionGate) AllowsJobs(uuid.UUID, string, Coords) bool { return true }
