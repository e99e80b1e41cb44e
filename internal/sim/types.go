package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

// Frame is the read-only view of one step handed to metrics and observers.
// Bodies is reused between frames; copy it to retain it.
type Frame struct {
	Step       int
	Time       float64
	Bodies     []physics.Body
	Center     r2.Vec
	Radius     float64
	Collisions int
}

// Driver supplies external input (emitter moves, emission, gravity changes)
// before each update of a headless run.
type Driver interface {
	Drive(s *Simulation, t float64)
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(s *Simulation, t float64)

func (f DriverFunc) Drive(s *Simulation, t float64) { f(s, t) }

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type RunConfig struct {
	Dt       float64
	Duration float64
	// SampleEvery records one Sample every N steps; 0 or 1 samples every step.
	SampleEvery   int
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Dt:            1.0 / 60.0,
		Duration:      10.0,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Sample aggregates the body set at one instant.
type Sample struct {
	Time          float64 `json:"time"`
	Count         int     `json:"count"`
	KineticEnergy float64 `json:"kinetic_energy"`
	MeanSpeed     float64 `json:"mean_speed"`
	Collisions    int     `json:"collisions"`
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Final      []physics.Body
	Errors     []error
}

// Scene is the fixed geometry of a simulation: spawn point and boundary.
type Scene struct {
	Emitter r2.Vec
	Center  r2.Vec
	Radius  float64
}

// Build creates an empty Simulation for this scene.
func (sc Scene) Build(cfg dynamo.Config, opts ...Option) (*Simulation, error) {
	return New(cfg, sc.Emitter, sc.Center, sc.Radius, opts...)
}
