package ingest

import (
	"fmt"
	"strconv"

	"prime-sync/core/statecache"
	"prime-sync/feature/names"

	"google.golang.org/protobuf/encoding/protowire"
)

func decodeActiveMissions(b []byte) ([]int64, error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	missions, err := resp.subs(fActiveMissions)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(missions))
	for _, m := range missions {
		ids = append(ids, m.i64(fMissionID))
	}
	return ids, nil
}

func decodeCompletedMissions(b []byte) ([]int64, error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	return resp.i64s(fCompletedMissions)
}

func decodeInventory(b []byte) ([]statecache.Entry[inventoryKey, int64], error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	inventories, err := resp.subs(fInventories)
	if err != nil {
		return nil, err
	}

	var out []statecache.Entry[inventoryKey, int64]
	for _, entry := range inventories {
		inv, ok, err := entry.sub(fMapValue)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items, err := inv.subs(fInventoryItems)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			common, ok, err := item.sub(fItemCommonParams)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, statecache.Entry[inventoryKey, int64]{
				Key:   inventoryKey{ItemType: item.i32(fItemType), RefID: common.i64(fCommonRefID)},
				State: item.i64(fItemCount),
			})
		}
	}
	return out, nil
}

func decodeResearch(b []byte) ([]statecache.Entry[int64, int32], error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	entries, err := resp.subs(fResearchProjectLevels)
	if err != nil {
		return nil, err
	}
	out := make([]statecache.Entry[int64, int32], 0, len(entries))
	for _, e := range entries {
		out = append(out, statecache.Entry[int64, int32]{Key: e.i64(fMapKey), State: e.i32(fMapValue)})
	}
	return out, nil
}

func decodeRankLevelShards(b []byte, list, id, rank, level, shards protowire.Number) ([]statecache.Entry[int64, RankLevelShards], error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	items, err := resp.subs(list)
	if err != nil {
		return nil, err
	}
	out := make([]statecache.Entry[int64, RankLevelShards], 0, len(items))
	for _, it := range items {
		out = append(out, statecache.Entry[int64, RankLevelShards]{
			Key: it.i64(id),
			State: RankLevelShards{
				Rank:   it.i32(rank),
				Level:  it.i32(level),
				Shards: it.i32(shards),
			},
		})
	}
	return out, nil
}

func decodeOfficers(b []byte) ([]statecache.Entry[int64, RankLevelShards], error) {
	return decodeRankLevelShards(b, fOfficers, fOfficerID, fOfficerRank, fOfficerLevel, fOfficerShardCount)
}

func decodeTechs(b []byte) ([]statecache.Entry[int64, RankLevelShards], error) {
	return decodeRankLevelShards(b, fForbiddenTechs, fTechID, fTechTier, fTechLevel, fTechShardCount)
}

func decodeTraits(b []byte) ([]statecache.Entry[traitKey, int32], error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	officers, err := resp.subs(fActiveOfficerTraits)
	if err != nil {
		return nil, err
	}

	var out []statecache.Entry[traitKey, int32]
	for _, officer := range officers {
		officerID := officer.i64(fMapKey)
		traits, ok, err := officer.sub(fMapValue)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		entries, err := traits.subs(fActiveTraits)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			trait, ok, err := e.sub(fMapValue)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, statecache.Entry[traitKey, int32]{
				Key:   traitKey{OfficerID: officerID, TraitID: trait.i64(fTraitID)},
				State: trait.i32(fTraitLevel),
			})
		}
	}
	return out, nil
}

func decodeBuffs(b []byte) ([]statecache.Entry[int64, BuffState], error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	buffs, err := resp.subs(fGlobalActiveBuffs)
	if err != nil {
		return nil, err
	}

	out := make([]statecache.Entry[int64, BuffState], 0, len(buffs))
	for _, buff := range buffs {
		state := BuffState{Level: buff.i32(fBuffLevel)}
		active, ok, err := buff.sub(fBuffActive)
		if err != nil {
			return nil, err
		}
		if ok {
			state.Expiry, state.HasExpiry, err = active.timestamp(fActiveBuffExpiry)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, statecache.Entry[int64, BuffState]{Key: buff.i64(fBuffID), State: state})
	}
	return out, nil
}

func decodeSlots(b []byte) ([]statecache.Entry[int64, SlotState], error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	slots, err := resp.subs(fEntitySlots)
	if err != nil {
		return nil, err
	}

	out := make([]statecache.Entry[int64, SlotState], 0, len(slots))
	for _, slot := range slots {
		state := SlotState{
			SlotType: slot.i32(fSlotType),
			SpecID:   slot.i64(fSlotSpecID),
		}
		if item, ok, err := slot.sub(fSlotItemID); err != nil {
			return nil, err
		} else if ok {
			id := item.i64(fInt64Value)
			state.ItemID = &id
		}

		known, err := decodeSlotParams(slot, &state)
		if err != nil {
			return nil, err
		}
		if !known {
			continue
		}
		out = append(out, statecache.Entry[int64, SlotState]{Key: slot.i64(fSlotID), State: state})
	}
	return out, nil
}

// decodeSlotParams fills the params of the slot type and reports whether the
// type is tracked at all.
func decodeSlotParams(slot message, state *SlotState) (bool, error) {
	switch state.SlotType {
	case SlotTypeConsumable:
		p, ok, err := slot.sub(fSlotConsumable)
		if err != nil || !ok {
			return true, err
		}
		params := &ConsumableParams{}
		if sec, has, err := p.timestamp(fConsumableExpiry); err != nil {
			return true, err
		} else if has {
			params.ExpiryTime = &sec
		}
		state.Params.Consumable = params

	case SlotTypeOfficerPreset:
		p, ok, err := slot.sub(fSlotOfficerPreset)
		if err != nil || !ok {
			return true, err
		}
		ids, err := p.i64s(fPresetOfficerIDs)
		if err != nil {
			return true, err
		}
		state.Params.OfficerPreset = &OfficerPresetParams{
			Name:       p.str(fPresetName),
			Order:      p.i32(fPresetOrder),
			OfficerIDs: nonNil(ids),
		}

	case SlotTypeFleetCommander:
		p, ok, err := slot.sub(fSlotFleetCommander)
		if err != nil || !ok {
			return true, err
		}
		state.Params.FleetCommander = &FleetCommanderParams{Order: p.i32(fCommanderOrder)}

	case SlotTypeSelectableSkill:
		p, ok, err := slot.sub(fSlotSelectable)
		if err != nil || !ok {
			return true, err
		}
		params := &SelectableSkillParams{}
		if sec, has, err := p.timestamp(fSelectableCooldown); err != nil {
			return true, err
		} else if has {
			params.CooldownExpiration = &sec
		}
		state.Params.SelectableSkill = params

	case SlotTypeFleetPreset:
		p, ok, err := slot.sub(fSlotFleetPreset)
		if err != nil || !ok {
			return true, err
		}
		setups, err := p.subs(fPresetSetups)
		if err != nil {
			return true, err
		}
		params := &FleetPresetParams{
			Name:  p.str(fPresetName),
			Order: p.i32(fPresetOrder),
			Setup: make([]FleetSetup, 0, len(setups)),
		}
		for _, s := range setups {
			ships, err := s.i64s(fSetupShipIDs)
			if err != nil {
				return true, err
			}
			officers, err := s.i64s(fSetupOfficerIDs)
			if err != nil {
				return true, err
			}
			setup := FleetSetup{DrydockID: s.i64(fSetupDrydockID), OfficerIDs: nonNil(officers)}
			if len(ships) > 0 {
				setup.ShipID = &ships[0]
			}
			params.Setup = append(params.Setup, setup)
		}
		state.Params.FleetPreset = params

	default:
		return false, nil
	}
	return true, nil
}

func decodeJobs(b []byte) ([]statecache.Entry[string, Job], error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	jobs, err := resp.subs(fJobs)
	if err != nil {
		return nil, err
	}

	out := make([]statecache.Entry[string, Job], 0, len(jobs))
	for _, j := range jobs {
		job := Job{
			Type:      j.i32(fJobType),
			Duration:  j.i64(fJobDuration),
			Reduction: j.i64(fJobReduction),
		}
		if job.StartTime, _, err = j.timestamp(fJobStartTime); err != nil {
			return nil, err
		}

		// A missing params message reads as zero values.
		var params message
		switch job.Type {
		case JobTypeResearch:
			params, _, err = j.sub(fJobResearch)
			job.Params = map[string]any{"rid": params.i64(fJobParamID), "level": params.i32(fJobParamLevel)}
		case JobTypeStarbaseConstruction:
			params, _, err = j.sub(fJobConstruction)
			job.Params = map[string]any{"bid": params.i64(fJobParamID), "level": params.i32(fJobParamLevel)}
		case JobTypeShipTierUp:
			params, _, err = j.sub(fJobTierUp)
			job.Params = map[string]any{"psid": params.i64(fJobParamID), "tier": params.i32(fJobParamNewTier)}
		case JobTypeShipScrap:
			params, _, err = j.sub(fJobScrap)
			job.Params = map[string]any{
				"psid":    params.i64(fJobParamID),
				"hull_id": params.i64(fJobScrapHullID),
				"level":   params.i32(fJobScrapLevel),
			}
		}
		if err != nil {
			return nil, err
		}

		out = append(out, statecache.Entry[string, Job]{Key: j.str(fJobUUID), State: job})
	}
	return out, nil
}

// decodeEmeraldChain returns the highest claimed loyalty tier, or -1 when the
// property is present without values. found is false without the property.
func decodeEmeraldChain(b []byte) (level int32, found bool, err error) {
	resp, err := parseMessage(b)
	if err != nil {
		return 0, false, err
	}
	props, err := resp.subs(fAllianceProperties)
	if err != nil {
		return 0, false, err
	}

	for _, p := range props {
		if p.str(fPropertyName) != "claimed_loyalty_tiers" {
			continue
		}
		level = -1
		for _, v := range p.strs(fPropertyValues) {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil {
				return 0, false, fmt.Errorf("claimed_loyalty_tiers value %q: %w", v, err)
			}
			if int32(n) > level {
				level = int32(n)
			}
		}
		return level, true, nil
	}
	return 0, false, nil
}

func decodeUserProfiles(b []byte) (map[string]names.PlayerEntry, error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	profiles, err := resp.subs(fUserProfiles)
	if err != nil {
		return nil, err
	}
	out := make(map[string]names.PlayerEntry, len(profiles))
	for _, p := range profiles {
		out[p.str(fProfileUserID)] = names.PlayerEntry{
			Name:       p.str(fProfileName),
			AllianceID: p.i64(fProfileAllianceID),
		}
	}
	return out, nil
}

func decodeAllianceProfiles(b []byte) (map[int64]names.Alliance, error) {
	resp, err := parseMessage(b)
	if err != nil {
		return nil, err
	}
	profiles, err := resp.subs(fAllianceProfiles)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]names.Alliance, len(profiles))
	for _, p := range profiles {
		id := p.i64(fAllianceID)
		if id <= 0 {
			continue
		}
		out[id] = names.Alliance{Name: p.str(fAllianceName), Tag: p.str(fAllianceTag)}
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
