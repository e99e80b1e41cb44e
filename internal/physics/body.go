package physics

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a circular point mass. Radius, mass, drag and color are fixed at
// construction; position and velocity change only through Integrate or the
// explicit setters used by boundary and collision resolution.
type Body struct {
	pos    r2.Vec
	vel    r2.Vec
	acc    r2.Vec
	radius float64
	mass   float64
	drag   float64
	color  color.RGBA
}

// NewBody creates a body with mass = massFactor * radius².
// Callers guarantee radius > 0, massFactor > 0 and drag in (0, 1].
func NewBody(pos, vel r2.Vec, radius, massFactor, drag float64, c color.RGBA) Body {
	return Body{
		pos:    pos,
		vel:    vel,
		radius: radius,
		mass:   massFactor * radius * radius,
		drag:   drag,
		color:  c,
	}
}

// ApplyForce accumulates f / mass into the acceleration.
func (b *Body) ApplyForce(f r2.Vec) {
	b.acc = r2.Add(b.acc, r2.Scale(1/b.mass, f))
}

// Integrate advances the body by dt and clears the accumulator.
// A non-positive dt leaves position and velocity untouched.
func (b *Body) Integrate(dt float64) {
	if dt > 0 {
		b.vel = r2.Scale(b.drag, r2.Add(b.vel, r2.Scale(dt, b.acc)))
		b.pos = r2.Add(b.pos, r2.Scale(dt, b.vel))
	}
	b.acc = r2.Vec{}
}

func (b *Body) SetPosition(p r2.Vec) { b.pos = p }
func (b *Body) SetVelocity(v r2.Vec) { b.vel = v }

func (b Body) Position() r2.Vec     { return b.pos }
func (b Body) Velocity() r2.Vec     { return b.vel }
func (b Body) Acceleration() r2.Vec { return b.acc }
func (b Body) Radius() float64      { return b.radius }
func (b Body) Mass() float64        { return b.mass }
func (b Body) Drag() float64        { return b.drag }
func (b Body) Color() color.RGBA    { return b.color }

// KineticEnergy returns ½mv².
func (b Body) KineticEnergy() float64 {
	return 0.5 * b.mass * r2.Dot(b.vel, b.vel)
}

// Valid reports whether position and velocity are finite.
func (b Body) Valid() bool {
	return Finite(b.pos) && Finite(b.vel)
}
