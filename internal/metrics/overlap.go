package metrics

import (
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

// Overlap tracks the deepest penetration between any two bodies across all
// observed frames. Residual overlap after an update is expected in dense
// piles and shrinks with more sub-steps.
type Overlap struct {
	name  string
	worst float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "max_overlap"}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(f sim.Frame) {
	bodies := f.Bodies
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			depth := bodies[i].Radius() + bodies[j].Radius() -
				physics.Distance(bodies[i].Position(), bodies[j].Position())
			if depth > o.worst {
				o.worst = depth
			}
		}
	}
}

func (o *Overlap) Value() float64 { return o.worst }

func (o *Overlap) Reset() { o.worst = 0 }

// CollisionRate is the mean number of resolved pairs per frame.
type CollisionRate struct {
	name    string
	total   int
	samples int
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(f sim.Frame) {
	c.total += f.Collisions
	c.samples++
}

func (c *CollisionRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *CollisionRate) Reset() {
	c.total = 0
	c.samples = 0
}

// Standard returns the metric set used by headless runs.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewMomentum(),
		NewContainment(1e-6),
		NewOverlap(),
		NewCollisionRate(),
	}
}
