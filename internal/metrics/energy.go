package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/sim"
)

// KineticEnergy is the mean total kinetic energy per observed frame.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	peak    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f sim.Frame) {
	ke := 0.0
	for _, b := range f.Bodies {
		ke += b.KineticEnergy()
	}
	e.total += ke
	e.peak = math.Max(e.peak, ke)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Peak is the largest per-frame total seen since the last Reset.
func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.peak = 0
	e.samples = 0
}

// Momentum reports the magnitude of the total linear momentum in the last
// observed frame.
type Momentum struct {
	name string
	last r2.Vec
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(f sim.Frame) {
	var p r2.Vec
	for _, b := range f.Bodies {
		p = r2.Add(p, r2.Scale(b.Mass(), b.Velocity()))
	}
	m.last = p
}

func (m *Momentum) Value() float64 { return r2.Norm(m.last) }

// Vector is the last total momentum.
func (m *Momentum) Vector() r2.Vec { return m.last }

func (m *Momentum) Reset() { m.last = r2.Vec{} }
