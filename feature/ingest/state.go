package ingest

import (
	"math"
	"slices"

	"prime-sync/core/entity"
	"prime-sync/core/statecache"
)

type inventoryKey struct {
	ItemType int32
	RefID    int64
}

type traitKey struct {
	OfficerID int64
	TraitID   int64
}

// RankLevelShards is the tracked state of officers (rank) and techs (tier).
type RankLevelShards struct {
	Rank   int32
	Level  int32
	Shards int32
}

// BuffState is the tracked state of one active buff.
type BuffState struct {
	Level     int32
	Expiry    int64
	HasExpiry bool
}

func (b BuffState) expiryField() any {
	if !b.HasExpiry {
		return nil
	}
	return b.Expiry
}

// ShipState is the tracked state of one ship. HullID never changes for a
// ship and is carried only for the outbound record.
type ShipState struct {
	Tier            int32
	Level           int32
	LevelPercentage float64
	HullID          int64
	Components      []int64
}

// Equal compares ships with a 0.01 tolerance on the level percentage.
func (s ShipState) Equal(o ShipState) bool {
	return s.Tier == o.Tier &&
		s.Level == o.Level &&
		math.Abs(s.LevelPercentage-o.LevelPercentage) < 0.01 &&
		slices.Equal(s.Components, o.Components)
}

// ConsumableParams are the params of a consumable slot.
type ConsumableParams struct {
	ExpiryTime *int64 `json:"expiry_time"`
}

// OfficerPresetParams are the params of an officer preset slot.
type OfficerPresetParams struct {
	Name       string  `json:"name"`
	Order      int32   `json:"order"`
	OfficerIDs []int64 `json:"officer_ids"`
}

// FleetCommanderParams are the params of a fleet commander slot.
type FleetCommanderParams struct {
	Order int32 `json:"order"`
}

// SelectableSkillParams are the params of a selectable skill slot.
type SelectableSkillParams struct {
	CooldownExpiration *int64 `json:"cooldown_expiration"`
}

// FleetSetup is one drydock of a fleet preset.
type FleetSetup struct {
	DrydockID  int64   `json:"drydock_id"`
	ShipID     *int64  `json:"ship_id"`
	OfficerIDs []int64 `json:"officer_ids"`
}

// FleetPresetParams are the params of a fleet preset slot.
type FleetPresetParams struct {
	Name  string       `json:"name"`
	Order int32        `json:"order"`
	Setup []FleetSetup `json:"setup"`
}

// SlotParams holds the type specific params of a slot; at most one is set.
type SlotParams struct {
	Consumable      *ConsumableParams
	OfficerPreset   *OfficerPresetParams
	FleetCommander  *FleetCommanderParams
	SelectableSkill *SelectableSkillParams
	FleetPreset     *FleetPresetParams
}

// Value returns the params in their outbound form, nil when none are set.
func (p SlotParams) Value() any {
	switch {
	case p.Consumable != nil:
		return p.Consumable
	case p.OfficerPreset != nil:
		return p.OfficerPreset
	case p.FleetCommander != nil:
		return p.FleetCommander
	case p.SelectableSkill != nil:
		return p.SelectableSkill
	case p.FleetPreset != nil:
		return p.FleetPreset
	default:
		return nil
	}
}

// Equal compares the preset params structurally. Consumable, commander and
// skill params are not part of the tracked state.
func (p SlotParams) Equal(o SlotParams) bool {
	if (p.OfficerPreset == nil) != (o.OfficerPreset == nil) {
		return false
	}
	if p.OfficerPreset != nil {
		a, b := p.OfficerPreset, o.OfficerPreset
		if a.Name != b.Name || a.Order != b.Order || !slices.Equal(a.OfficerIDs, b.OfficerIDs) {
			return false
		}
	}

	if (p.FleetPreset == nil) != (o.FleetPreset == nil) {
		return false
	}
	if p.FleetPreset != nil {
		a, b := p.FleetPreset, o.FleetPreset
		if a.Name != b.Name || a.Order != b.Order {
			return false
		}
		return slices.EqualFunc(a.Setup, b.Setup, func(x, y FleetSetup) bool {
			return x.DrydockID == y.DrydockID &&
				equalPtr(x.ShipID, y.ShipID) &&
				slices.Equal(x.OfficerIDs, y.OfficerIDs)
		})
	}
	return true
}

// SlotState is the tracked state of one entity slot.
type SlotState struct {
	SlotType int32
	SpecID   int64
	ItemID   *int64
	Params   SlotParams
}

// Equal reports whether the slot holds the same item and presets.
func (s SlotState) Equal(o SlotState) bool {
	return equalPtr(s.ItemID, o.ItemID) && s.Params.Equal(o.Params)
}

func (s SlotState) record(id int64) entity.Record {
	var item any
	if s.ItemID != nil {
		item = *s.ItemID
	}
	return entity.NewRecord(entity.Slots, entity.Fields{
		"sid":       id,
		"slot_type": s.SlotType,
		"spec_id":   s.SpecID,
		"item_id":   item,
		"params":    s.Params.Value(),
	})
}

// Job is one running job. Jobs are emitted once, when first seen.
type Job struct {
	Type      int32
	StartTime int64
	Duration  int64
	Reduction int64
	Params    entity.Fields
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type slotEntry = statecache.Entry[int64, SlotState]
