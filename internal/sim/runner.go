package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

// Runner steps a Simulation at a fixed dt, feeding a Driver, metrics and
// observers. It is the headless counterpart of the interactive front-ends.
type Runner struct {
	sim       *Simulation
	driver    Driver
	metrics   []Metric
	observers []Observer
}

func NewRunner(s *Simulation, driver Driver) *Runner {
	return &Runner{
		sim:       s,
		driver:    driver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances the simulation for cfg.Duration seconds. On cancellation it
// returns the partial result together with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Samples: make([]Sample, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	s := r.sim
	center, radius := s.Boundary()
	var buf []physics.Body
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		if r.driver != nil {
			r.driver.Drive(s, t)
		}

		s.Update(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		buf = s.SnapshotInto(buf)
		frame := Frame{
			Step:       i,
			Time:       t,
			Bodies:     buf,
			Center:     center,
			Radius:     radius,
			Collisions: s.Collisions(),
		}

		if cfg.ValidateState {
			if idx := firstInvalid(buf); idx >= 0 {
				result.Errors = append(result.Errors, &dynamo.SimError{
					Step:    i,
					Time:    t,
					Message: fmt.Sprintf("body %d has non-finite state", idx),
					Wrapped: dynamo.ErrInvalidState,
				})
				break
			}
		}

		for _, m := range r.metrics {
			m.Observe(frame)
		}
		for _, obs := range r.observers {
			obs.OnFrame(frame)
		}

		if i%every == 0 || i == steps-1 {
			result.Samples = append(result.Samples, sample(frame))
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) finish(result *Result) {
	result.Final = r.sim.Snapshot()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRunConfig(cfg RunConfig) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	if math.Round(cfg.Duration/cfg.Dt) < 1 {
		return fmt.Errorf("%w: duration %g is shorter than one step of %g", dynamo.ErrParameterBounds, cfg.Duration, cfg.Dt)
	}
	return nil
}

func firstInvalid(bodies []physics.Body) int {
	for i, b := range bodies {
		if !b.Valid() {
			return i
		}
	}
	return -1
}

func sample(f Frame) Sample {
	out := Sample{Time: f.Time, Count: len(f.Bodies), Collisions: f.Collisions}
	if len(f.Bodies) == 0 {
		return out
	}
	speed := 0.0
	for _, b := range f.Bodies {
		out.KineticEnergy += b.KineticEnergy()
		speed += physics.Length(b.Velocity())
	}
	out.MeanSpeed = speed / float64(len(f.Bodies))
	return out
}
