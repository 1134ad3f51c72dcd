package ingest

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers of the captured protobuf messages. Every response message
// carries its payload in field 1; the nested messages are listed below their
// response.

// Wrappers shared by several messages.
const (
	// google.protobuf.Timestamp
	fTimestampSeconds protowire.Number = 1
	// google.protobuf.Int64Value
	fInt64Value protowire.Number = 1

	// map<K,V> entries
	fMapKey   protowire.Number = 1
	fMapValue protowire.Number = 2
)

// ActiveMissionsResponse { repeated Mission activeMissions = 1 }
// Mission { int64 id = 1 }
const (
	fActiveMissions protowire.Number = 1
	fMissionID      protowire.Number = 1
)

// CompletedMissionsResponse { repeated int64 completedMissions = 1 }
const fCompletedMissions protowire.Number = 1

// InventoryResponse { map<int64, Inventory> inventories = 1 }
// Inventory { repeated Item items = 1 }
// Item { int32 type = 1; CommonParams commonParams = 2; int64 count = 3 }
// CommonParams { int64 refId = 1 }
const (
	fInventories      protowire.Number = 1
	fInventoryItems   protowire.Number = 1
	fItemType         protowire.Number = 1
	fItemCommonParams protowire.Number = 2
	fItemCount        protowire.Number = 3
	fCommonRefID      protowire.Number = 1
)

// ResearchTreesState { map<int64, int32> researchProjectLevels = 1 }
const fResearchProjectLevels protowire.Number = 1

// OfficersResponse { repeated Officer officers = 1 }
// Officer { int64 id = 1; int32 rankIndex = 2; int32 level = 3; int32 shardCount = 4 }
const (
	fOfficers          protowire.Number = 1
	fOfficerID         protowire.Number = 1
	fOfficerRank       protowire.Number = 2
	fOfficerLevel      protowire.Number = 3
	fOfficerShardCount protowire.Number = 4
)

// ForbiddenTechsResponse { repeated ForbiddenTech forbiddenTechs = 1 }
// ForbiddenTech { int64 id = 1; int32 tier = 2; int32 level = 3; int32 shardCount = 4 }
const (
	fForbiddenTechs protowire.Number = 1
	fTechID         protowire.Number = 1
	fTechTier       protowire.Number = 2
	fTechLevel      protowire.Number = 3
	fTechShardCount protowire.Number = 4
)

// OfficerTraitsResponse { map<int64, OfficerTraits> activeOfficerTraits = 1 }
// OfficerTraits { map<int64, Trait> activeTraits = 1 }
// Trait { int64 traitId = 1; int32 level = 2 }
const (
	fActiveOfficerTraits protowire.Number = 1
	fActiveTraits        protowire.Number = 1
	fTraitID             protowire.Number = 1
	fTraitLevel          protowire.Number = 2
)

// GlobalActiveBuffsResponse { repeated Buff globalActiveBuffs = 1 }
// Buff { int64 buffId = 1; int32 level = 2; ActiveBuff activeBuff = 3 }
// ActiveBuff { Timestamp expiryTime = 1 }
const (
	fGlobalActiveBuffs protowire.Number = 1
	fBuffID            protowire.Number = 1
	fBuffLevel         protowire.Number = 2
	fBuffActive        protowire.Number = 3
	fActiveBuffExpiry  protowire.Number = 1
)

// EntitySlots { repeated EntitySlot entitySlots = 1 }
// EntitySlot {
//   int64 id = 1; int32 slotType = 2; int64 slotSpecId = 3; Int64Value slotItemId = 4;
//   ConsumableSlotParams consumableSlotParams = 5;          { Timestamp expiryTime = 1 }
//   OfficerPresetSlotParams officerPresetSlotParams = 6;    { string name = 1; int32 order = 2; repeated int64 officerIds = 3 }
//   FleetCommanderSlotParams fleetCommanderSlotParams = 7;  { int32 order = 1 }
//   SelectableSkillSlotParams selectableSkillSlotParams = 8; { Timestamp cooldownExpiration = 1 }
//   FleetPresetSlotParams fleetPresetSlotParams = 9;        { string name = 1; int32 order = 2; repeated Setup setups = 3 }
// }
// Setup { int64 drydockId = 1; repeated int64 shipIds = 2; repeated int64 officerIds = 3 }
const (
	fEntitySlots        protowire.Number = 1
	fSlotID             protowire.Number = 1
	fSlotType           protowire.Number = 2
	fSlotSpecID         protowire.Number = 3
	fSlotItemID         protowire.Number = 4
	fSlotConsumable     protowire.Number = 5
	fSlotOfficerPreset  protowire.Number = 6
	fSlotFleetCommander protowire.Number = 7
	fSlotSelectable     protowire.Number = 8
	fSlotFleetPreset    protowire.Number = 9

	fConsumableExpiry    protowire.Number = 1
	fPresetName          protowire.Number = 1
	fPresetOrder         protowire.Number = 2
	fPresetOfficerIDs    protowire.Number = 3
	fPresetSetups        protowire.Number = 3
	fCommanderOrder      protowire.Number = 1
	fSelectableCooldown  protowire.Number = 1
	fSetupDrydockID      protowire.Number = 1
	fSetupShipIDs        protowire.Number = 2
	fSetupOfficerIDs     protowire.Number = 3
)

// Slot types.
const (
	SlotTypeConsumable      = 1
	SlotTypeOfficerPreset   = 2
	SlotTypeFleetCommander  = 3
	SlotTypeSelectableSkill = 4
	SlotTypeFleetPreset     = 5
)

// JobResponse { repeated Job jobs = 1 }
// Job {
//   string uuid = 1; int32 type = 2; Timestamp startTime = 3; int64 duration = 4; int64 reductionInSeconds = 5;
//   ResearchParams researchParams = 6;                       { int64 projectId = 1; int32 level = 2 }
//   StarbaseConstructionParams starbaseConstructionParams = 7; { int64 moduleId = 1; int32 level = 2 }
//   TierUpShipParams tierUpShipParams = 8;                   { int64 shipId = 1; int32 newTier = 2 }
//   ScrapyardParams scrapyardParams = 9;                     { int64 shipId = 1; int64 hullId = 2; int32 level = 3 }
// }
const (
	fJobs             protowire.Number = 1
	fJobUUID          protowire.Number = 1
	fJobType          protowire.Number = 2
	fJobStartTime     protowire.Number = 3
	fJobDuration      protowire.Number = 4
	fJobReduction     protowire.Number = 5
	fJobResearch      protowire.Number = 6
	fJobConstruction  protowire.Number = 7
	fJobTierUp        protowire.Number = 8
	fJobScrap         protowire.Number = 9
	fJobParamID       protowire.Number = 1
	fJobParamLevel    protowire.Number = 2
	fJobParamNewTier  protowire.Number = 2
	fJobScrapHullID   protowire.Number = 2
	fJobScrapLevel    protowire.Number = 3
)

// Job types.
const (
	JobTypeResearch             = 1
	JobTypeStarbaseConstruction = 2
	JobTypeShipTierUp           = 3
	JobTypeShipScrap            = 4
)

// AllianceGamePropertiesResponse { repeated Property properties = 1 }
// Property { string propertyName = 1; repeated string valueList = 2 }
const (
	fAllianceProperties protowire.Number = 1
	fPropertyName       protowire.Number = 1
	fPropertyValues     protowire.Number = 2
)

// UserProfilesResponse { repeated UserProfile userProfiles = 1 }
// UserProfile { string userId = 1; string name = 2; int64 allianceId = 3 }
const (
	fUserProfiles      protowire.Number = 1
	fProfileUserID     protowire.Number = 1
	fProfileName       protowire.Number = 2
	fProfileAllianceID protowire.Number = 3
)

// GetAllianceProfilesResponse { repeated AllianceProfile allianceProfiles = 1 }
// AllianceProfile { int64 id = 1; string name = 2; string tag = 3 }
const (
	fAllianceProfiles protowire.Number = 1
	fAllianceID       protowire.Number = 1
	fAllianceName     protowire.Number = 2
	fAllianceTag      protowire.Number = 3
)
