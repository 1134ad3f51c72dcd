package ingest

import "prime-sync/core/entity"

// Options enables ingestion per entity type. Disabled types are never
// decoded nor diffed.
type Options struct {
	Missions     bool `mapstructure:"missions" yaml:"missions" default:"true"`
	Inventory    bool `mapstructure:"inventory" yaml:"inventory" default:"true"`
	Research     bool `mapstructure:"research" yaml:"research" default:"true"`
	Officer      bool `mapstructure:"officer" yaml:"officer" default:"true"`
	Tech         bool `mapstructure:"tech" yaml:"tech" default:"true"`
	Traits       bool `mapstructure:"traits" yaml:"traits" default:"true"`
	Buffs        bool `mapstructure:"buffs" yaml:"buffs" default:"true"`
	Slots        bool `mapstructure:"slots" yaml:"slots" default:"true"`
	Jobs         bool `mapstructure:"jobs" yaml:"jobs" default:"true"`
	Resources    bool `mapstructure:"resources" yaml:"resources" default:"true"`
	Buildings    bool `mapstructure:"buildings" yaml:"buildings" default:"true"`
	Ships        bool `mapstructure:"ships" yaml:"ships" default:"true"`
	EmeraldChain bool `mapstructure:"emeraldchain" yaml:"emeraldchain" default:"true"`
	Battles      bool `mapstructure:"battles" yaml:"battles" default:"true"`
}

// AllEnabled returns options with every type enabled.
func AllEnabled() Options {
	return Options{
		Missions: true, Inventory: true, Research: true, Officer: true,
		Tech: true, Traits: true, Buffs: true, Slots: true, Jobs: true,
		Resources: true, Buildings: true, Ships: true, EmeraldChain: true,
		Battles: true,
	}
}

// Enabled reports whether t is ingested.
func (o Options) Enabled(t entity.Type) bool {
	switch t {
	case entity.Missions:
		return o.Missions
	case entity.Inventory:
		return o.Inventory
	case entity.Research:
		return o.Research
	case entity.Officer:
		return o.Officer
	case entity.Tech:
		return o.Tech
	case entity.Traits:
		return o.Traits
	case entity.Buffs:
		return o.Buffs
	case entity.Slots:
		return o.Slots
	case entity.Jobs:
		return o.Jobs
	case entity.Resources:
		return o.Resources
	case entity.Buildings:
		return o.Buildings
	case entity.Ships:
		return o.Ships
	case entity.EmeraldChain:
		return o.EmeraldChain
	case entity.Battles:
		return o.Battles
	default:
		return false
	}
}
