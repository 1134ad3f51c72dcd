package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"prime-sync/core/entity"
	"prime-sync/core/statecache"

	"github.com/tidwall/gjson"
)

// Sections of the json capture document.
const (
	sectionBattleHeaders   = "battle_result_headers"
	sectionResources       = "resources"
	sectionStarbaseModules = "starbase_modules"
	sectionShips           = "ships"
)

type document struct {
	battles   []uint64
	resources []statecache.Entry[int64, int64]
	buildings []statecache.Entry[int64, int32]
	ships     []statecache.Entry[int64, ShipState]
}

func (in *Ingestor) decodeDocument(payload []byte) (*document, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return nil, fmt.Errorf("document is not an object")
	}

	doc := &document{}
	opts := in.cfg.Options

	if s := root.Get(sectionBattleHeaders); s.Exists() && opts.Battles {
		for _, h := range s.Array() {
			id := h.Get("id")
			if !id.Exists() {
				return nil, fmt.Errorf("%s: header without id", sectionBattleHeaders)
			}
			doc.battles = append(doc.battles, id.Uint())
		}
	}

	if s := root.Get(sectionResources); s.Exists() && opts.Resources {
		var err error
		s.ForEach(func(key, value gjson.Result) bool {
			id, perr := strconv.ParseInt(key.String(), 10, 64)
			if perr != nil {
				err = fmt.Errorf("%s: bad resource id %q", sectionResources, key.String())
				return false
			}
			doc.resources = append(doc.resources, statecache.Entry[int64, int64]{
				Key:   id,
				State: value.Get("current_amount").Int(),
			})
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	if s := root.Get(sectionStarbaseModules); s.Exists() && opts.Buildings {
		var err error
		s.ForEach(func(_, value gjson.Result) bool {
			id := value.Get("id")
			if !id.Exists() {
				err = fmt.Errorf("%s: module without id", sectionStarbaseModules)
				return false
			}
			doc.buildings = append(doc.buildings, statecache.Entry[int64, int32]{
				Key:   id.Int(),
				State: int32(value.Get("level").Int()),
			})
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	if s := root.Get(sectionShips); s.Exists() && opts.Ships {
		var err error
		s.ForEach(func(_, value gjson.Result) bool {
			id := value.Get("id")
			if !id.Exists() {
				err = fmt.Errorf("%s: ship without id", sectionShips)
				return false
			}
			components := []int64{}
			for _, c := range value.Get("components").Array() {
				components = append(components, c.Int())
			}
			doc.ships = append(doc.ships, statecache.Entry[int64, ShipState]{
				Key: id.Int(),
				State: ShipState{
					Tier:            int32(value.Get("tier").Int()),
					Level:           int32(value.Get("level").Int()),
					LevelPercentage: value.Get("level_percentage").Float(),
					HullID:          value.Get("hull_id").Int(),
					Components:      components,
				},
			})
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func (in *Ingestor) handleDocument(ctx context.Context, payload []byte) error {
	doc, err := in.decodeDocument(payload)
	if err != nil {
		return decodeFailure(KindDocument, err)
	}

	if len(doc.battles) > 0 {
		in.trace(sectionBattleHeaders, len(doc.battles))
		in.admitBattles(ctx, doc.battles)
	}

	var errs []error
	if doc.resources != nil {
		in.trace(sectionResources, len(doc.resources))
		var records []entity.Record
		in.state.resources.ObserveAll(doc.resources, func(id, amount int64) {
			records = append(records, entity.NewRecord(entity.Resources, entity.Fields{"rid": id, "amount": amount}))
		})
		errs = append(errs, in.emit(entity.Resources, records))
	}

	if doc.buildings != nil {
		in.trace(sectionStarbaseModules, len(doc.buildings))
		var records []entity.Record
		in.state.buildings.ObserveAll(doc.buildings, func(id int64, level int32) {
			records = append(records, entity.NewRecord(entity.Buildings, entity.Fields{"bid": id, "level": level}))
		})
		errs = append(errs, in.emit(entity.Buildings, records))
	}

	if doc.ships != nil {
		in.trace(sectionShips, len(doc.ships))
		var records []entity.Record
		in.state.ships.ObserveAll(doc.ships, func(id int64, s ShipState) {
			records = append(records, entity.NewRecord(entity.Ships, entity.Fields{
				"psid":             id,
				"level":            s.Level,
				"level_percentage": s.LevelPercentage,
				"tier":             s.Tier,
				"hull_id":          s.HullID,
				"components":       s.Components,
			}))
		})
		errs = append(errs, in.emit(entity.Ships, records))
	}

	return errors.Join(errs...)
}

// admitBattles records unseen battle ids in the ledger and queues them for
// enrichment, oldest first.
func (in *Ingestor) admitBattles(ctx context.Context, ids []uint64) {
	if in.deps.Ledger == nil {
		return
	}
	admitted := in.deps.Ledger.Admit(ctx, ids)
	if len(admitted) == 0 || in.deps.Battles == nil {
		return
	}
	in.trace("battles_queued", len(admitted))
	in.deps.Battles.Enqueue(admitted...)
}

// slotTimeLayout is the timestamp format of realtime slot messages.
const slotTimeLayout = "2006-01-02T15:04:05"

func parseSlotTime(r gjson.Result) *int64 {
	if r.Type != gjson.String {
		return nil
	}
	s := r.String()
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if len(s) > len(slotTimeLayout) {
			s = s[:len(slotTimeLayout)]
		}
		if t, err = time.Parse(slotTimeLayout, s); err != nil {
			return nil
		}
	}
	sec := t.Unix()
	return &sec
}

func int64s(r gjson.Result) []int64 {
	out := []int64{}
	for _, v := range r.Array() {
		out = append(out, v.Int())
	}
	return out
}

func decodeSlotUpdate(payload []byte) (slotEntry, bool, error) {
	if !gjson.ValidBytes(payload) {
		return slotEntry{}, false, fmt.Errorf("invalid JSON slot update")
	}
	data := gjson.ParseBytes(payload)

	id := data.Get("slot_id")
	if !id.Exists() {
		return slotEntry{}, false, fmt.Errorf("slot update without slot_id")
	}

	state := SlotState{
		SlotType: int32(data.Get("slot_type").Int()),
		SpecID:   data.Get("slot_spec_id").Int(),
	}
	if item := data.Get("item_id"); item.Exists() && item.Type != gjson.Null {
		v := item.Int()
		state.ItemID = &v
	}

	switch state.SlotType {
	case SlotTypeConsumable:
		state.Params.Consumable = &ConsumableParams{
			ExpiryTime: parseSlotTime(data.Get("consumable_slot_params.expiry_time")),
		}
	case SlotTypeOfficerPreset:
		if p := data.Get("officer_preset_slot_params"); p.IsObject() {
			state.Params.OfficerPreset = &OfficerPresetParams{
				Name:       p.Get("name").String(),
				Order:      int32(p.Get("order").Int()),
				OfficerIDs: int64s(p.Get("officer_ids")),
			}
		}
	case SlotTypeFleetCommander:
		if p := data.Get("fleet_commander_slot_params"); p.IsObject() {
			state.Params.FleetCommander = &FleetCommanderParams{Order: int32(p.Get("order").Int())}
		}
	case SlotTypeSelectableSkill:
		if p := data.Get("selectable_skill_slot_params"); p.IsObject() {
			state.Params.SelectableSkill = &SelectableSkillParams{
				CooldownExpiration: parseSlotTime(p.Get("cooldown_expiration")),
			}
		}
	case SlotTypeFleetPreset:
		if p := data.Get("fleet_preset_slot_params"); p.IsObject() {
			params := &FleetPresetParams{
				Name:  p.Get("name").String(),
				Order: int32(p.Get("order").Int()),
				Setup: []FleetSetup{},
			}
			for _, s := range p.Get("setups").Array() {
				setup := FleetSetup{DrydockID: s.Get("d").Int(), OfficerIDs: int64s(s.Get("o"))}
				if ship := s.Get("s.0"); ship.Exists() {
					v := ship.Int()
					setup.ShipID = &v
				}
				params.Setup = append(params.Setup, setup)
			}
			state.Params.FleetPreset = params
		}
	default:
		return slotEntry{}, false, nil
	}

	return slotEntry{Key: id.Int(), State: state}, true, nil
}

func (in *Ingestor) handleSlotUpdate(ctx context.Context, payload []byte) error {
	entry, known, err := decodeSlotUpdate(payload)
	if err != nil {
		return decodeFailure(KindSlotUpdate, err)
	}
	if !known {
		return nil
	}
	in.trace(KindSlotUpdate, 1)
	return in.observeSlots([]slotEntry{entry})
}
