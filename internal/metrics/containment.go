package metrics

import (
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

// Containment is the fraction of frames in which every body lies within the
// boundary. A body counts as escaped when its center is farther than
// radius - body radius + tolerance from the boundary center.
type Containment struct {
	name       string
	tolerance  float64
	violations int
	samples    int
	maxExcess  float64
}

func NewContainment(tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	violated := false
	for _, b := range f.Bodies {
		excess := physics.Distance(f.Center, b.Position()) - (f.Radius - b.Radius())
		if excess > c.maxExcess {
			c.maxExcess = excess
		}
		if excess > c.tolerance {
			violated = true
		}
	}
	if violated {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

// MaxExcess is the worst distance any body has been outside its limit.
func (c *Containment) MaxExcess() float64 { return c.maxExcess }

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
	c.maxExcess = 0
}
