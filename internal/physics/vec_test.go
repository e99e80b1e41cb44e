package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/physics"
)

var _ = Describe("vector helpers", func() {
	It("computes dot, length and distance", func() {
		Expect(physics.Dot(r2.Vec{X: 1, Y: 2}, r2.Vec{X: 3, Y: 4})).To(Equal(11.0))
		Expect(physics.Length(r2.Vec{X: 3, Y: 4})).To(Equal(5.0))
		Expect(physics.Distance(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 4, Y: 5})).To(Equal(5.0))
	})

	It("returns a unit direction and the distance", func() {
		n, d := physics.Direction(r2.Vec{}, r2.Vec{X: 0, Y: 10}, 1e-9)
		Expect(d).To(Equal(10.0))
		Expect(n.X).To(BeNumerically("~", 0, 1e-12))
		Expect(n.Y).To(BeNumerically("~", 1, 1e-12))
	})

	It("falls back to +x for coincident points", func() {
		p := r2.Vec{X: 7, Y: 7}
		n, d := physics.Direction(p, p, 1e-9)
		Expect(d).To(Equal(0.0))
		Expect(n).To(Equal(physics.FallbackNormal))
		Expect(physics.Finite(n)).To(BeTrue())
	})

	It("reflects about a normal", func() {
		v := physics.Reflect(r2.Vec{X: 3, Y: -4}, r2.Vec{X: 0, Y: -1})
		Expect(v.X).To(BeNumerically("~", 3, 1e-12))
		Expect(v.Y).To(BeNumerically("~", 4, 1e-12))
	})

	It("builds vectors from angles", func() {
		v := physics.FromAngle(math.Pi/2, 2)
		Expect(v.X).To(BeNumerically("~", 0, 1e-12))
		Expect(v.Y).To(BeNumerically("~", 2, 1e-12))
	})

	It("flags NaN and Inf", func() {
		Expect(physics.Finite(r2.Vec{X: math.NaN()})).To(BeFalse())
		Expect(physics.Finite(r2.Vec{Y: math.Inf(1)})).To(BeFalse())
		Expect(physics.Finite(r2.Vec{X: 1, Y: 2})).To(BeTrue())
	})
})
