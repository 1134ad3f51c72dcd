package ingest

import (
	"fmt"
	"sort"
	"strings"

	"prime-sync/core/entity"
)

// Kind names one captured payload group.
type Kind string

const (
	KindActiveMissions    Kind = "active_missions"
	KindCompletedMissions Kind = "completed_missions"
	KindInventory         Kind = "inventory"
	KindResearch          Kind = "research"
	KindOfficers          Kind = "officers"
	KindTechs             Kind = "techs"
	KindTraits            Kind = "traits"
	KindBuffs             Kind = "buffs"
	KindSlots             Kind = "slots"
	KindSlotUpdate        Kind = "slot_update"
	KindJobs              Kind = "jobs"
	KindAllianceProps     Kind = "alliance_props"
	KindDocument          Kind = "json"
	KindUserProfiles      Kind = "user_profiles"
	KindAllianceProfiles  Kind = "alliance_profiles"
)

// ErrUnknownKind is returned for payload kinds without a handler.
var ErrUnknownKind = fmt.Errorf("unknown payload kind")

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(s))
	if _, ok := handlers[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Kinds returns every supported kind, sorted.
func Kinds() []Kind {
	out := make([]Kind, 0, len(handlers))
	for k := range handlers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Gate returns the entity type whose option enables the kind. The json kind
// is gated per section and reports ok=false.
func (k Kind) Gate() (entity.Type, bool) {
	h, ok := handlers[k]
	if !ok || !h.gated {
		return 0, false
	}
	return h.gate, true
}
