package entity

import (
	"fmt"
	"strings"
)

// Type identifies one category of tracked game state.
type Type int

const (
	Missions Type = iota
	Inventory
	Research
	Officer
	Tech
	Traits
	Buffs
	Slots
	Jobs
	Resources
	Buildings
	Ships
	EmeraldChain
	Battles

	typeCount
)

var typeNames = [typeCount]string{
	Missions:     "Missions",
	Inventory:    "Inventory",
	Research:     "Research",
	Officer:      "Officer",
	Tech:         "Tech",
	Traits:       "Traits",
	Buffs:        "Buffs",
	Slots:        "Slots",
	Jobs:         "Jobs",
	Resources:    "Resources",
	Buildings:    "Buildings",
	Ships:        "Ships",
	EmeraldChain: "EmeraldChain",
	Battles:      "Battles",
}

// AllTypes returns every entity type in declaration order.
func AllTypes() []Type {
	types := make([]Type, 0, typeCount)
	for t := Type(0); t < typeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// String returns the wire discriminator of the type.
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Prefixed returns a derived discriminator such as "expired_Buffs".
func (t Type) Prefixed(prefix string) string {
	return prefix + "_" + t.String()
}

// ParseType resolves a discriminator case-insensitively.
// Configuration keys come back lowercased from viper, so "ships" and "Ships"
// both resolve to Ships.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if strings.EqualFold(name, s) {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("unknown entity type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid entity type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Set is an immutable-by-convention set of entity types.
type Set map[Type]struct{}

// NewSet builds a set from the given types.
func NewSet(types ...Type) Set {
	s := make(Set, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is in the set.
func (s Set) Has(t Type) bool {
	_, ok := s[t]
	return ok
}
