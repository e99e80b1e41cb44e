package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
)

const (
	DefaultWidth          = 1200
	DefaultHeight         = 800
	DefaultBoundaryRadius = 350.0
	DefaultTargetFPS      = 60
	DefaultDt             = 1.0 / 60.0
	DefaultDuration       = 10.0
)

type Config struct {
	Scene   SceneConfig   `yaml:"scene"`
	Physics dynamo.Config `yaml:"physics"`
	Run     RunConfig     `yaml:"run"`
	// Scenario is a path to a YAML scenario used by headless runs.
	Scenario string `yaml:"scenario,omitempty"`
}

// SceneConfig is the window and boundary geometry. A zero center or
// emitter is placed at the middle of the window.
type SceneConfig struct {
	Title          string   `yaml:"title"`
	Width          int      `yaml:"width"`
	Height         int      `yaml:"height"`
	TargetFPS      int      `yaml:"target_fps"`
	BoundaryRadius float64  `yaml:"boundary_radius"`
	CenterX        float64  `yaml:"center_x"`
	CenterY        float64  `yaml:"center_y"`
	EmitterX       float64  `yaml:"emitter_x"`
	EmitterY       float64  `yaml:"emitter_y"`
	Fonts          []string `yaml:"fonts"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene: SceneConfig{
			Title:          "Particle Simulation",
			Width:          DefaultWidth,
			Height:         DefaultHeight,
			TargetFPS:      DefaultTargetFPS,
			BoundaryRadius: DefaultBoundaryRadius,
			CenterX:        DefaultWidth / 2,
			CenterY:        DefaultHeight / 2,
			EmitterX:       DefaultWidth / 2,
			EmitterY:       DefaultHeight / 2,
			Fonts: []string{
				"/System/Library/Fonts/Arial.ttf",
				"/System/Library/Fonts/Helvetica.ttc",
			},
		},
		Physics: dynamo.DefaultConfig(),
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			SampleEvery: 1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scene and physics sections.
func (c *Config) Validate() error {
	if c.Scene.Width <= 0 || c.Scene.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", dynamo.ErrParameterBounds, c.Scene.Width, c.Scene.Height)
	}
	if !(c.Scene.BoundaryRadius > 0) {
		return fmt.Errorf("%w: boundary_radius=%g, want > 0", dynamo.ErrParameterBounds, c.Scene.BoundaryRadius)
	}
	return c.Physics.Validate()
}

// SimScene resolves the geometry, defaulting center and emitter to the
// middle of the window.
func (c *Config) SimScene() sim.Scene {
	mid := r2.Vec{X: float64(c.Scene.Width) / 2, Y: float64(c.Scene.Height) / 2}
	center := r2.Vec{X: c.Scene.CenterX, Y: c.Scene.CenterY}
	if center == (r2.Vec{}) {
		center = mid
	}
	emitter := r2.Vec{X: c.Scene.EmitterX, Y: c.Scene.EmitterY}
	if emitter == (r2.Vec{}) {
		emitter = mid
	}
	return sim.Scene{Emitter: emitter, Center: center, Radius: c.Scene.BoundaryRadius}
}

// Build validates the configuration and creates an empty simulation.
func (c *Config) Build(opts ...sim.Option) (*sim.Simulation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.SimScene().Build(c.Physics, opts...)
}

func (c *Config) SimRun() sim.RunConfig {
	rc := sim.DefaultRunConfig()
	rc.Dt = c.Run.Dt
	rc.Duration = c.Run.Duration
	rc.SampleEvery = c.Run.SampleEvery
	return rc
}

// LoadScenario returns the scenario named by the Scenario path, or nil when
// none is set.
func (c *Config) LoadScenario() (*automation.Scenario, error) {
	if c.Scenario == "" {
		return nil, nil
	}
	return automation.LoadScenario(c.Scenario)
}
