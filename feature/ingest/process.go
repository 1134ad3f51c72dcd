package ingest

import (
	"context"
	"slices"

	"prime-sync/core/entity"
)

type handler struct {
	gate  entity.Type
	gated bool
	run   func(in *Ingestor, ctx context.Context, payload []byte) error
}

var handlers = map[Kind]handler{
	KindActiveMissions:    {gate: entity.Missions, gated: true, run: (*Ingestor).handleActiveMissions},
	KindCompletedMissions: {gate: entity.Missions, gated: true, run: (*Ingestor).handleCompletedMissions},
	KindInventory:         {gate: entity.Inventory, gated: true, run: (*Ingestor).handleInventory},
	KindResearch:          {gate: entity.Research, gated: true, run: (*Ingestor).handleResearch},
	KindOfficers:          {gate: entity.Officer, gated: true, run: (*Ingestor).handleOfficers},
	KindTechs:             {gate: entity.Tech, gated: true, run: (*Ingestor).handleTechs},
	KindTraits:            {gate: entity.Traits, gated: true, run: (*Ingestor).handleTraits},
	KindBuffs:             {gate: entity.Buffs, gated: true, run: (*Ingestor).handleBuffs},
	KindSlots:             {gate: entity.Slots, gated: true, run: (*Ingestor).handleSlots},
	KindSlotUpdate:        {gate: entity.Slots, gated: true, run: (*Ingestor).handleSlotUpdate},
	KindJobs:              {gate: entity.Jobs, gated: true, run: (*Ingestor).handleJobs},
	KindAllianceProps:     {gate: entity.EmeraldChain, gated: true, run: (*Ingestor).handleAllianceProps},
	KindDocument:          {run: (*Ingestor).handleDocument},
	KindUserProfiles:      {gate: entity.Battles, gated: true, run: (*Ingestor).handleUserProfiles},
	KindAllianceProfiles:  {gate: entity.Battles, gated: true, run: (*Ingestor).handleAllianceProfiles},
}

func (in *Ingestor) handleActiveMissions(ctx context.Context, payload []byte) error {
	ids, err := decodeActiveMissions(payload)
	if err != nil {
		return decodeFailure(KindActiveMissions, err)
	}
	in.trace(KindActiveMissions, len(ids))

	active, changed := in.state.activeMissions.Replace(ids)
	if !changed || len(ids) == 0 {
		return nil
	}

	slices.Sort(active)
	records := make([]entity.Record, 0, len(active))
	for _, id := range active {
		records = append(records, entity.NewDerivedRecord(entity.Missions, "active", entity.Fields{"mid": id}))
	}
	return in.emit(entity.Missions, records)
}

func (in *Ingestor) handleCompletedMissions(ctx context.Context, payload []byte) error {
	ids, err := decodeCompletedMissions(payload)
	if err != nil {
		return decodeFailure(KindCompletedMissions, err)
	}
	in.trace(KindCompletedMissions, len(ids))

	diff := in.state.completedMissions.Advance(ids)
	records := make([]entity.Record, 0, len(diff))
	for _, id := range diff {
		records = append(records, entity.NewRecord(entity.Missions, entity.Fields{"mid": id}))
	}
	return in.emit(entity.Missions, records)
}

func (in *Ingestor) handleInventory(ctx context.Context, payload []byte) error {
	entries, err := decodeInventory(payload)
	if err != nil {
		return decodeFailure(KindInventory, err)
	}
	in.trace(KindInventory, len(entries))

	var records []entity.Record
	in.state.inventory.ObserveAll(entries, func(k inventoryKey, count int64) {
		records = append(records, entity.NewRecord(entity.Inventory, entity.Fields{
			"item_type": k.ItemType,
			"refid":     k.RefID,
			"count":     count,
		}))
	})
	return in.emit(entity.Inventory, records)
}

func (in *Ingestor) handleResearch(ctx context.Context, payload []byte) error {
	entries, err := decodeResearch(payload)
	if err != nil {
		return decodeFailure(KindResearch, err)
	}
	in.trace(KindResearch, len(entries))

	var records []entity.Record
	in.state.research.ObserveAll(entries, func(id int64, level int32) {
		records = append(records, entity.NewRecord(entity.Research, entity.Fields{"rid": id, "level": level}))
	})
	return in.emit(entity.Research, records)
}

func (in *Ingestor) handleOfficers(ctx context.Context, payload []byte) error {
	entries, err := decodeOfficers(payload)
	if err != nil {
		return decodeFailure(KindOfficers, err)
	}
	in.trace(KindOfficers, len(entries))

	var records []entity.Record
	in.state.officers.ObserveAll(entries, func(id int64, s RankLevelShards) {
		records = append(records, entity.NewRecord(entity.Officer, entity.Fields{
			"oid":         id,
			"rank":        s.Rank,
			"level":       s.Level,
			"shard_count": s.Shards,
		}))
	})
	return in.emit(entity.Officer, records)
}

func (in *Ingestor) handleTechs(ctx context.Context, payload []byte) error {
	entries, err := decodeTechs(payload)
	if err != nil {
		return decodeFailure(KindTechs, err)
	}
	in.trace(KindTechs, len(entries))

	var records []entity.Record
	in.state.techs.ObserveAll(entries, func(id int64, s RankLevelShards) {
		records = append(records, entity.NewRecord(entity.Tech, entity.Fields{
			"fid":         id,
			"tier":        s.Rank,
			"level":       s.Level,
			"shard_count": s.Shards,
		}))
	})
	return in.emit(entity.Tech, records)
}

func (in *Ingestor) handleTraits(ctx context.Context, payload []byte) error {
	entries, err := decodeTraits(payload)
	if err != nil {
		return decodeFailure(KindTraits, err)
	}
	in.trace(KindTraits, len(entries))

	var records []entity.Record
	in.state.traits.ObserveAll(entries, func(k traitKey, level int32) {
		records = append(records, entity.NewRecord(entity.Traits, entity.Fields{
			"oid":   k.OfficerID,
			"tid":   k.TraitID,
			"level": level,
		}))
	})
	return in.emit(entity.Traits, records)
}

func (in *Ingestor) handleBuffs(ctx context.Context, payload []byte) error {
	entries, err := decodeBuffs(payload)
	if err != nil {
		return decodeFailure(KindBuffs, err)
	}
	in.trace(KindBuffs, len(entries))

	var records []entity.Record
	in.state.buffs.Sync(entries,
		func(id int64, b BuffState) {
			records = append(records, entity.NewRecord(entity.Buffs, entity.Fields{
				"bid":         id,
				"level":       b.Level,
				"expiry_time": b.expiryField(),
			}))
		},
		func(id int64, _ BuffState) {
			records = append(records, entity.NewDerivedRecord(entity.Buffs, "expired", entity.Fields{"bid": id}))
		},
	)
	return in.emit(entity.Buffs, records)
}

func (in *Ingestor) handleSlots(ctx context.Context, payload []byte) error {
	entries, err := decodeSlots(payload)
	if err != nil {
		return decodeFailure(KindSlots, err)
	}
	in.trace(KindSlots, len(entries))
	return in.observeSlots(entries)
}

func (in *Ingestor) handleJobs(ctx context.Context, payload []byte) error {
	entries, err := decodeJobs(payload)
	if err != nil {
		return decodeFailure(KindJobs, err)
	}
	in.trace(KindJobs, len(entries))

	var records []entity.Record
	in.state.jobs.Sync(entries,
		func(uuid string, j Job) {
			if j.Params == nil {
				return
			}
			fields := entity.Fields{
				"job_type":   j.Type,
				"uuid":       uuid,
				"start_time": j.StartTime,
				"duration":   j.Duration,
				"reduction":  j.Reduction,
			}
			for k, v := range j.Params {
				fields[k] = v
			}
			records = append(records, entity.NewRecord(entity.Jobs, fields))
		},
		func(uuid string, _ Job) {
			records = append(records, entity.NewDerivedRecord(entity.Jobs, "completed", entity.Fields{"uuid": uuid}))
		},
	)
	return in.emit(entity.Jobs, records)
}

func (in *Ingestor) handleAllianceProps(ctx context.Context, payload []byte) error {
	level, found, err := decodeEmeraldChain(payload)
	if err != nil {
		return decodeFailure(KindAllianceProps, err)
	}
	if !found {
		return nil
	}

	in.state.emeraldMu.Lock()
	changed := level != in.state.emeraldChain
	in.state.emeraldChain = level
	in.state.emeraldMu.Unlock()

	if !changed {
		return nil
	}
	return in.emit(entity.EmeraldChain, []entity.Record{
		entity.NewRecord(entity.EmeraldChain, entity.Fields{"level": level}),
	})
}

func (in *Ingestor) handleUserProfiles(ctx context.Context, payload []byte) error {
	players, err := decodeUserProfiles(payload)
	if err != nil {
		return decodeFailure(KindUserProfiles, err)
	}
	if in.deps.Names != nil && len(players) > 0 {
		in.deps.Names.StorePlayers(players)
	}
	return nil
}

func (in *Ingestor) handleAllianceProfiles(ctx context.Context, payload []byte) error {
	alliances, err := decodeAllianceProfiles(payload)
	if err != nil {
		return decodeFailure(KindAllianceProfiles, err)
	}
	if in.deps.Names != nil && len(alliances) > 0 {
		in.deps.Names.StoreAlliances(alliances)
	}
	return nil
}

func (in *Ingestor) observeSlots(entries []slotEntry) error {
	var records []entity.Record
	in.state.slots.ObserveAll(entries, func(id int64, s SlotState) {
		records = append(records, s.record(id))
	})
	return in.emit(entity.Slots, records)
}
