// Package physics provides the point-mass body of the particle engine.
//
// A [Body] owns its own force accumulation and integration step and knows
// nothing about other bodies:
//
//	b := physics.NewBody(pos, vel, 5, math.Pi, 0.999, c)
//	b.ApplyForce(r2.Scale(b.Mass(), gravity))
//	b.Integrate(dt)
//
// Integration is semi-implicit Euler on an explicit velocity: velocity is
// advanced from the accumulated acceleration, damped by the body's drag, and
// only then used to advance position.
//
// Vector helpers ([Dot], [Distance], [Length], [Direction]) wrap
// gonum's r2 package and guard every normalisation against zero length.
package physics
