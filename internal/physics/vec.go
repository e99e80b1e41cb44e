package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// FallbackNormal is used wherever a direction is requested between points
// closer than epsilon.
var FallbackNormal = r2.Vec{X: 1, Y: 0}

func Dot(a, b r2.Vec) float64 { return r2.Dot(a, b) }

func Length(v r2.Vec) float64 { return r2.Norm(v) }

func Distance(a, b r2.Vec) float64 { return r2.Norm(r2.Sub(b, a)) }

// Direction returns the unit vector pointing from -> to and the distance
// between them. Distances below eps yield FallbackNormal.
func Direction(from, to r2.Vec, eps float64) (r2.Vec, float64) {
	d := r2.Sub(to, from)
	dist := r2.Norm(d)
	if !(dist >= eps) {
		return FallbackNormal, dist
	}
	return r2.Scale(1/dist, d), dist
}

// Reflect mirrors v about the plane with unit normal n.
func Reflect(v, n r2.Vec) r2.Vec {
	return r2.Sub(v, r2.Scale(2*r2.Dot(v, n), n))
}

// FromAngle returns a vector of the given length at angle radians.
func FromAngle(angle, length float64) r2.Vec {
	sin, cos := math.Sincos(angle)
	return r2.Vec{X: cos * length, Y: sin * length}
}

// Finite reports whether both components are neither NaN nor Inf.
func Finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
