package sim

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/physics"
)

// Place appends a body with explicit state, bypassing emission.
func (s *Simulation) Place(pos, vel r2.Vec, radius float64) {
	s.bodies = append(s.bodies,
		physics.NewBody(pos, vel, radius, s.cfg.MassFactor, s.cfg.Drag, color.RGBA{A: 255}))
}

func (s *Simulation) CollidePass() { s.collide() }

func (s *Simulation) ConfinePass() { s.confineAll() }
