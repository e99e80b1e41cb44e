package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/dynamo"
)

// Preset is a named configuration with the scenario that drives it headless.
type Preset struct {
	Description string
	Config      func() *Config
	Scenario    func() *automation.Scenario
}

func deg(v float64) *float64 { return &v }

func at(x, y float64) *[2]float64 { return &[2]float64{x, y} }

var Presets = map[string]Preset{
	"fountain": {
		Description: "steady stream from the center, gravity down",
		Config: func() *Config {
			cfg := DefaultConfig()
			cfg.Run.Duration = 20
			return cfg
		},
		Scenario: func() *automation.Scenario {
			return &automation.Scenario{
				Name: "fountain",
				Events: []automation.Event{
					{At: 0, Every: 1.0 / 30, Until: 15, Emit: 1},
				},
			}
		},
	},
	"rain": {
		Description: "wide fan of bodies from the top of the boundary",
		Config: func() *Config {
			cfg := DefaultConfig()
			cfg.Scene.EmitterY = cfg.Scene.CenterY - 250
			cfg.Physics.EmitSpread = 2.0
			cfg.Physics.InitialSpeed = 120
			cfg.Run.Duration = 15
			return cfg
		},
		Scenario: func() *automation.Scenario {
			return &automation.Scenario{
				Name: "rain",
				Events: []automation.Event{
					{At: 0, Every: 0.25, Until: 10, Emit: 5},
				},
			}
		},
	},
	"zero_g": {
		Description: "no gravity or drag, bodies bounce forever",
		Config: func() *Config {
			cfg := DefaultConfig()
			cfg.Physics.GravityStrength = 0
			cfg.Physics.Drag = 1
			cfg.Physics.MaxBodies = 200
			cfg.Run.Duration = 20
			return cfg
		},
		Scenario: func() *automation.Scenario {
			return &automation.Scenario{
				Name: "zero_g",
				Events: []automation.Event{
					{At: 0, Every: 0.05, Until: 10, Emit: 1},
				},
			}
		},
	},
	"crowd": {
		Description: "dense pile with extra sub-steps and parallel integration",
		Config: func() *Config {
			cfg := DefaultConfig()
			cfg.Physics.SubSteps = 8
			cfg.Physics.Parallel = true
			cfg.Physics.MaxBodies = 1500
			cfg.Run.Duration = 30
			cfg.Run.SampleEvery = 10
			return cfg
		},
		Scenario: func() *automation.Scenario {
			return &automation.Scenario{
				Name: "crowd",
				Events: []automation.Event{
					{At: 0, Every: 0.02, Emit: 1},
				},
			}
		},
	},
	"sideways": {
		Description: "gravity rotates through all four arrow-key directions",
		Config: func() *Config {
			cfg := DefaultConfig()
			cfg.Run.Duration = 24
			return cfg
		},
		Scenario: func() *automation.Scenario {
			return &automation.Scenario{
				Name: "sideways",
				Events: []automation.Event{
					{At: 0, Every: 0.1, Until: 5, Emit: 1},
					{At: 6, Every: 16, Gravity: deg(0)},
					{At: 10, Every: 16, Gravity: deg(270)},
					{At: 14, Every: 16, Gravity: deg(180)},
					{At: 18, Every: 16, Gravity: deg(90)},
					{At: 20, Emitter: at(600, 200), Emit: 10},
				},
			}
		},
	},
}

// GetPreset returns fresh copies of a preset's configuration and scenario.
func GetPreset(name string) (*Config, *automation.Scenario, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	return p.Config(), p.Scenario(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
