package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

// Update advances the simulation by dt seconds. dt <= 0 (or NaN) is a no-op.
func (s *Simulation) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}

	s.emissionTime += dt
	s.collisions = 0

	g := s.Gravity()
	n := s.cfg.SubSteps
	sub := dt / float64(n)

	for step := 0; step < n; step++ {
		s.integrate(g, sub)
		s.confineAll()
		s.collide()
		s.confineAll()
	}
}

func (s *Simulation) integrate(g r2.Vec, dt float64) {
	advance := func(start, end int) {
		for i := start; i < end; i++ {
			b := &s.bodies[i]
			b.ApplyForce(r2.Scale(b.Mass(), g))
			b.Integrate(dt)
		}
	}

	if s.cfg.Parallel && len(s.bodies) >= s.cfg.ParallelMinChunk {
		dynamo.ParallelFor(len(s.bodies), s.cfg.ParallelMinChunk, advance)
		return
	}
	advance(0, len(s.bodies))
}

func (s *Simulation) confineAll() {
	for i := range s.bodies {
		s.confine(&s.bodies[i])
	}
}

// confine clamps b onto the boundary circle when it has crossed it and
// reflects the outward velocity component.
func (s *Simulation) confine(b *physics.Body) {
	limit := s.radius - b.Radius()
	normal, dist := physics.Direction(s.center, b.Position(), s.cfg.Epsilon)
	if dist <= limit {
		return
	}

	b.SetPosition(r2.Add(s.center, r2.Scale(limit, normal)))

	v := b.Velocity()
	if physics.Dot(v, normal) > 0 {
		b.SetVelocity(physics.Reflect(v, normal))
	}
}

// collide resolves every overlapping pair (i, j), i < j, in index order.
func (s *Simulation) collide() {
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			if s.resolve(&s.bodies[i], &s.bodies[j]) {
				s.collisions++
			}
		}
	}
}

func (s *Simulation) resolve(a, b *physics.Body) bool {
	minDist := a.Radius() + b.Radius()
	normal, dist := physics.Direction(a.Position(), b.Position(), s.cfg.Epsilon)
	if dist >= minDist {
		return false
	}

	half := (minDist - dist) / 2
	a.SetPosition(r2.Sub(a.Position(), r2.Scale(half, normal)))
	b.SetPosition(r2.Add(b.Position(), r2.Scale(half, normal)))

	va, vb := a.Velocity(), b.Velocity()
	an, bn := physics.Dot(va, normal), physics.Dot(vb, normal)
	if an-bn <= 0 {
		// Already separating; exchanging momentum would pull them back together.
		return true
	}

	ma, mb := a.Mass(), b.Mass()
	total := ma + mb
	an2 := ((ma-mb)*an + 2*mb*bn) / total
	bn2 := ((mb-ma)*bn + 2*ma*an) / total

	a.SetVelocity(r2.Add(va, r2.Scale(an2-an, normal)))
	b.SetVelocity(r2.Add(vb, r2.Scale(bn2-bn, normal)))
	return true
}
