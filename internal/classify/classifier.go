package classify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/logger"
	"github.com/mineforge/jobs/internal/metrics"
)

const (
	// DefaultRarity is the fallback fish rarity when no integration answers
	DefaultRarity = "common"

	// DefaultSubType is the fallback sub-type when event metadata is
	// missing. It still matches wildcard rules, so players are never
	// silently un-rewarded.
	DefaultSubType = "default"
)

// Classifier maps raw game events to canonical job actions. Classification
// is pure with respect to engine state: it reads the catalog and the
// integration providers but never touches the ledger.
type Classifier struct {
	catalog *catalog.Store
	stacks  StackSizeProvider
	rarity  RarityProvider
	pets    PetProvider
	regions RegionGate
}

// NewClassifier resolves the integration capabilities once. Pass the Noop
// implementations for integrations that are absent.
func NewClassifier(cat *catalog.Store, stacks StackSizeProvider, rarity RarityProvider, pets PetProvider, regions RegionGate) *Classifier {
	return &Classifier{
		catalog: cat,
		stacks:  stacks,
		rarity:  rarity,
		pets:    pets,
		regions: regions,
	}
}

// Classify turns a raw event into zero or more job actions. Events whose
// action type no job rewards are rejected before any integration lookup
// happens; region-restricted
// locations and unattributable actors produce no actions.
func (c *Classifier) Classify(ctx context.Context, ev RawEvent) []domain.JobAction {
	action, ok := kindToAction[ev.Kind]
	if !ok {
		metrics.EventsRejected.WithLabelValues("unknown_kind").Inc()
		return nil
	}

	// Cheap reject: nothing in the catalog rewards this action type
	snap := c.catalog.Current()
	if !snap.RewardsAction(action) {
		metrics.EventsRejected.WithLabelValues("no_rule").Inc()
		return nil
	}

	actor, ok := c.resolveActor(ev)
	if !ok {
		metrics.EventsRejected.WithLabelValues("no_actor").Inc()
		return nil
	}

	if !c.regions.AllowsJobs(actor, ev.World, ev.Coords) {
		metrics.EventsRejected.WithLabelValues("region").Inc()
		return nil
	}

	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	var actions []domain.JobAction
	switch ev.Kind {
	case EventEntityKill:
		actions = c.classifyKill(ctx, ev, actor, occurredAt)
	case EventFishCatch:
		actions = c.classifyCatch(ctx, ev, actor, occurredAt)
	default:
		actions = []domain.JobAction{{
			PlayerID:   actor,
			Action:     action,
			SubType:    subTypeOf(ev.Material),
			Quantity:   quantityOf(ev.Quantity),
			World:      ev.World,
			OccurredAt: occurredAt,
		}}
	}

	for _, a := range actions {
		metrics.ActionsClassified.WithLabelValues(string(a.Action)).Inc()
	}
	return actions
}

// resolveActor returns the player to credit. Kills dealt by a pet credit the
// pet's owner.
func (c *Classifier) resolveActor(ev RawEvent) (uuid.UUID, bool) {
	if ev.PlayerID != uuid.Nil {
		return ev.PlayerID, true
	}
	if ev.Killer != nil {
		if owner, ok := c.pets.OwnerOf(*ev.Killer); ok {
			return owner, true
		}
	}
	return uuid.Nil, false
}

// classifyKill fans a kill event out per victim sub-type. A stacked mob of
// uniform species yields ONE action whose quantity is the stack size, with
// quantities summed per species when the stack is mixed.
func (c *Classifier) classifyKill(ctx context.Context, ev RawEvent, actor uuid.UUID, occurredAt time.Time) []domain.JobAction {
	quantities := make(map[string]int)
	var order []string

	for _, entity := range ev.Entities {
		size, err := c.stacks.StackSizeOf(entity)
		if err != nil || size < 1 {
			if err != nil {
				logger.FromContext(ctx).Debug("Stack size lookup failed, counting one kill",
					"entity", entity.Type, "error", err)
			}
			size = 1
		}

		subType := subTypeOf(entity.Type)
		if _, seen := quantities[subType]; !seen {
			order = append(order, subType)
		}
		quantities[subType] += size
	}

	actions := make([]domain.JobAction, 0, len(order))
	for _, subType := range order {
		actions = append(actions, domain.JobAction{
			PlayerID:   actor,
			Action:     domain.ActionKill,
			SubType:    subType,
			Quantity:   quantities[subType],
			World:      ev.World,
			OccurredAt: occurredAt,
		})
	}
	return actions
}

// classifyCatch resolves the catch rarity as the sub-type, degrading to the
// default rarity when the fishing integration is absent or errors.
func (c *Classifier) classifyCatch(ctx context.Context, ev RawEvent, actor uuid.UUID, occurredAt time.Time) []domain.JobAction {
	rarity := DefaultRarity
	if ev.Catch != nil {
		r, err := c.rarity.RarityOf(*ev.Catch)
		if err != nil {
			logger.FromContext(ctx).Debug("Rarity lookup failed, using default",
				"species", ev.Catch.Species, "error", err)
		} else if r != "" {
			rarity = r
		}
	}

	return []domain.JobAction{{
		PlayerID:   actor,
		Action:     domain.ActionFish,
		SubType:    subTypeOf(rarity),
		Quantity:   quantityOf(ev.Quantity),
		World:      ev.World,
		OccurredAt: occurredAt,
	}}
}

func subTypeOf(raw string) string {
	if raw == "" {
		return DefaultSubType
	}
	return strings.ToLower(raw)
}

func quantityOf(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
