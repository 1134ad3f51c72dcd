package dispatch

import (
	"fmt"
	"net/http"
	"sort"

	"prime-sync/core/entity"
	"prime-sync/core/httpclient"
	"prime-sync/core/syncerr"
)

// TargetConfig is one remote collector as configured under sync.targets.
type TargetConfig struct {
	URL   string `mapstructure:"url" yaml:"url"`
	Token string `mapstructure:"token" yaml:"token"`
	Proxy string `mapstructure:"proxy" yaml:"proxy,omitempty"`
	// VerifySSL defaults to true; it only matters when Proxy is set.
	VerifySSL *bool    `mapstructure:"verify_ssl" yaml:"verify_ssl,omitempty"`
	Types     []string `mapstructure:"types" yaml:"types"`
}

// Target is a validated collector ready to receive envelopes.
type Target struct {
	Name   string
	URL    string
	Token  string
	Types  entity.Set
	Client *http.Client
}

// Accepts reports whether the target subscribes to t.
func (t Target) Accepts(et entity.Type) bool {
	return t.Types.Has(et)
}

// NewTargets validates the configured targets and builds their HTTP clients.
// Targets are returned sorted by name.
func NewTargets(cfgs map[string]TargetConfig) ([]Target, error) {
	names := make([]string, 0, len(cfgs))
	for name := range cfgs {
		names = append(names, name)
	}
	sort.Strings(names)

	targets := make([]Target, 0, len(cfgs))
	for _, name := range names {
		cfg := cfgs[name]
		if cfg.URL == "" {
			return nil, syncerr.New(syncerr.ConfigurationGap, "target "+name, fmt.Errorf("url is required"))
		}

		types := entity.NewSet()
		for _, raw := range cfg.Types {
			t, err := entity.ParseType(raw)
			if err != nil {
				return nil, syncerr.New(syncerr.ConfigurationGap, "target "+name, err)
			}
			types[t] = struct{}{}
		}

		verify := true
		if cfg.VerifySSL != nil {
			verify = *cfg.VerifySSL
		}
		client, err := httpclient.New(httpclient.Options{Proxy: cfg.Proxy, VerifySSL: verify})
		if err != nil {
			return nil, syncerr.New(syncerr.ConfigurationGap, "target "+name, err)
		}

		targets = append(targets, Target{
			Name:   name,
			URL:    cfg.URL,
			Token:  cfg.Token,
			Types:  types,
			Client: client,
		})
	}
	return targets, nil
}
