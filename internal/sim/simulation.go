package sim

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/palette"
	"github.com/san-kum/particlesim/internal/physics"
)

// ColorFunc maps an emission hue (degrees), saturation and value to a color.
type ColorFunc func(hue, saturation, value float64) color.RGBA

type Option func(*Simulation)

// WithColorFunc replaces the default palette.HSV color collaborator.
func WithColorFunc(fn ColorFunc) Option {
	return func(s *Simulation) {
		if fn != nil {
			s.colorFn = fn
		}
	}
}

// Simulation owns an ordered set of bodies confined to a circle. It is not
// safe for concurrent use; callers step it from a single goroutine.
type Simulation struct {
	cfg     dynamo.Config
	colorFn ColorFunc

	bodies []physics.Body

	emitter      r2.Vec
	emissionTime float64
	gravityDir   float64

	center r2.Vec
	radius float64

	collisions int
}

// New builds an empty simulation with its emitter at emitter and a boundary
// circle of the given center and radius.
func New(cfg dynamo.Config, emitter, center r2.Vec, radius float64, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: boundary radius=%g, want > 0", dynamo.ErrParameterBounds, radius)
	}
	if cfg.BodyRadius >= radius {
		return nil, fmt.Errorf("%w: body radius %g does not fit boundary radius %g",
			dynamo.ErrParameterBounds, cfg.BodyRadius, radius)
	}
	if !physics.Finite(emitter) || !physics.Finite(center) {
		return nil, fmt.Errorf("%w: emitter and center must be finite", dynamo.ErrParameterBounds)
	}

	s := &Simulation{
		cfg:        cfg,
		colorFn:    palette.HSV,
		emitter:    emitter,
		gravityDir: cfg.GravityDirection,
		center:     center,
		radius:     radius,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetEmitterPosition moves the spawn point used by the next Emit.
func (s *Simulation) SetEmitterPosition(p r2.Vec) { s.emitter = p }

// Gravity directions bound to the arrow keys. Screen y grows downward, so
// GravityUp points at -y.
const (
	GravityRight = 0.0
	GravityDown  = 90.0
	GravityLeft  = 180.0
	GravityUp    = 270.0
)

// SetGravityDirection sets gravity in degrees; 0 is +x, 90 is +y.
func (s *Simulation) SetGravityDirection(deg float64) { s.gravityDir = deg }

// Reset drops every body and rewinds emission time.
func (s *Simulation) Reset() {
	s.bodies = s.bodies[:0]
	s.emissionTime = 0
	s.collisions = 0
}

func (s *Simulation) Config() dynamo.Config     { return s.cfg }
func (s *Simulation) Len() int                  { return len(s.bodies) }
func (s *Simulation) EmitterPosition() r2.Vec   { return s.emitter }
func (s *Simulation) GravityDirection() float64 { return s.gravityDir }
func (s *Simulation) EmissionTime() float64     { return s.emissionTime }

// Collisions is the number of pairs resolved during the last Update.
func (s *Simulation) Collisions() int { return s.collisions }

// Boundary returns the confinement circle.
func (s *Simulation) Boundary() (center r2.Vec, radius float64) {
	return s.center, s.radius
}

// Gravity returns the current gravity acceleration vector.
func (s *Simulation) Gravity() r2.Vec {
	return physics.FromAngle(s.gravityDir*math.Pi/180, s.cfg.GravityStrength)
}

// Body returns a copy of the i-th body in emission order.
func (s *Simulation) Body(i int) physics.Body { return s.bodies[i] }

// Each calls fn for every body in emission order with a copy of the body.
func (s *Simulation) Each(fn func(i int, b physics.Body)) {
	for i, b := range s.bodies {
		fn(i, b)
	}
}

// Snapshot returns a copy of all bodies.
func (s *Simulation) Snapshot() []physics.Body {
	return s.SnapshotInto(nil)
}

// SnapshotInto copies all bodies into dst, reusing its storage.
func (s *Simulation) SnapshotInto(dst []physics.Body) []physics.Body {
	return append(dst[:0], s.bodies...)
}
