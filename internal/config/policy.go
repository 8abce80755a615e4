package config

import (
	"fmt"
	"os"

	"hazard-route-service/internal/domain"

	"gopkg.in/yaml.v3"
)

type DelayRule = domain.DelayRule

// Policy holds tunables that operators change without a rebuild.
//
//	delays:
//	  jam: {base: 10, per_severity: 5}
//	degraded:
//	  traffic: true
//	  narration: false
type Policy struct {
	Delays   map[domain.HazardCategory]DelayRule `yaml:"delays"`
	Degraded map[string]bool                     `yaml:"degraded"`
}

// DefaultDelayTable returns the built-in delay minutes per category.
func DefaultDelayTable() map[domain.HazardCategory]DelayRule {
	return map[domain.HazardCategory]DelayRule{
		domain.HazardJam:             {Base: 10, PerSeverity: 5},
		domain.HazardModerateTraffic: {Base: 5, PerSeverity: 3},
		domain.HazardAccident:        {Base: 15, PerSeverity: 8},
		domain.HazardRoadHazard:      {Base: 3, PerSeverity: 2},
		domain.HazardWeatherHazard:   {Base: 5, PerSeverity: 3},
		domain.HazardPolice:          {Base: 1, PerSeverity: 0},
		domain.HazardClosure:         {Base: 20, PerSeverity: 10},
		domain.HazardConstruction:    {Base: 8, PerSeverity: 4},
		domain.HazardSpeedCamera:     {Base: 0, PerSeverity: 0},
		domain.HazardFuelPrice:       {Base: 0, PerSeverity: 0},
	}
}

// DefaultPolicy keeps every degraded state silent.
func DefaultPolicy() *Policy {
	return &Policy{
		Delays:   DefaultDelayTable(),
		Degraded: map[string]bool{},
	}
}

// LoadPolicy reads a YAML policy file and merges it over the defaults.
// An empty path yields DefaultPolicy.
func LoadPolicy(path string) (*Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load policy: read %q: %w", path, err)
	}
	return ParsePolicy(b)
}

func ParsePolicy(b []byte) (*Policy, error) {
	var raw Policy
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("load policy: parse yaml: %w", err)
	}

	p := DefaultPolicy()
	for cat, rule := range raw.Delays {
		c, ok := domain.ParseHazardCategory(string(cat))
		if !ok {
			return nil, fmt.Errorf("load policy: unknown hazard category %q", cat)
		}
		if rule.Base < 0 || rule.PerSeverity < 0 {
			return nil, fmt.Errorf("load policy: negative delay for %q", cat)
		}
		p.Delays[c] = rule
	}
	for component, visible := range raw.Degraded {
		p.Degraded[component] = visible
	}
	return p, nil
}

// DegradedVisible reports whether a degraded component should be surfaced to the user.
func (p *Policy) DegradedVisible(component string) bool {
	if p == nil {
		return false
	}
	return p.Degraded[component]
}
