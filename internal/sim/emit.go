package sim

import (
	"math"

	"github.com/san-kum/particlesim/internal/physics"
)

// SpawnAngle is the current emission direction in radians. It sweeps
// sinusoidally between EmitMinAngle and EmitMaxAngle as emission time grows.
func (s *Simulation) SpawnAngle() float64 {
	mid := (s.cfg.EmitMinAngle + s.cfg.EmitMaxAngle) / 2
	half := (s.cfg.EmitMaxAngle - s.cfg.EmitMinAngle) / 2
	return mid + math.Sin(s.emissionTime*s.cfg.SweepRate)*half
}

// Hue is the current emission hue in degrees, wrapped to [0, 360).
func (s *Simulation) Hue() float64 {
	h := math.Mod(s.emissionTime*s.cfg.HueRate, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Emit appends up to count bodies at the emitter position and returns how
// many were created. Existing bodies are never removed or reordered; when
// MaxBodies is set only the remaining capacity is filled.
func (s *Simulation) Emit(count int) int {
	if count <= 0 {
		return 0
	}
	if limit := s.cfg.MaxBodies; limit > 0 {
		if room := limit - len(s.bodies); room < count {
			count = room
		}
		if count <= 0 {
			return 0
		}
	}

	angle := s.SpawnAngle()
	c := s.colorFn(s.Hue(), s.cfg.Saturation, s.cfg.Value)
	spread := s.cfg.EmitSpread

	for k := 0; k < count; k++ {
		a := angle
		if spread > 0 && count > 1 {
			a = angle - spread/2 + spread*float64(k)/float64(count-1)
		}
		vel := physics.FromAngle(a, s.cfg.InitialSpeed)
		s.bodies = append(s.bodies,
			physics.NewBody(s.emitter, vel, s.cfg.BodyRadius, s.cfg.MassFactor, s.cfg.Drag, c))
	}
	return count
}
