package physics_test

import (
	"image/color"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/physics"
)

var _ = Describe("Body", func() {
	var (
		b   physics.Body
		red = color.RGBA{R: 255, A: 255}
	)

	BeforeEach(func() {
		b = physics.NewBody(r2.Vec{X: 10, Y: 20}, r2.Vec{X: 3, Y: -4}, 5, math.Pi, 1, red)
	})

	It("derives mass from the radius", func() {
		Expect(b.Mass()).To(BeNumerically("~", math.Pi*25, 1e-12))
		Expect(b.Radius()).To(Equal(5.0))
		Expect(b.Color()).To(Equal(red))
	})

	It("keeps mass fixed through integration", func() {
		mass := b.Mass()
		for i := 0; i < 100; i++ {
			b.ApplyForce(r2.Vec{X: 0, Y: 350 * b.Mass()})
			b.Integrate(0.01)
		}
		Expect(b.Mass()).To(Equal(mass))
	})

	It("accumulates force divided by mass", func() {
		b.ApplyForce(r2.Vec{X: b.Mass() * 2, Y: 0})
		b.ApplyForce(r2.Vec{X: 0, Y: b.Mass() * 3})
		Expect(b.Acceleration().X).To(BeNumerically("~", 2, 1e-12))
		Expect(b.Acceleration().Y).To(BeNumerically("~", 3, 1e-12))
	})

	It("advances velocity before position", func() {
		b.ApplyForce(r2.Vec{X: 0, Y: 10 * b.Mass()})
		b.Integrate(0.5)

		Expect(b.Velocity().X).To(BeNumerically("~", 3, 1e-12))
		Expect(b.Velocity().Y).To(BeNumerically("~", 1, 1e-12))
		Expect(b.Position().X).To(BeNumerically("~", 11.5, 1e-12))
		Expect(b.Position().Y).To(BeNumerically("~", 20.5, 1e-12))
	})

	It("clears the accumulator after integrating", func() {
		b.ApplyForce(r2.Vec{X: 1, Y: 1})
		b.Integrate(0.1)
		Expect(b.Acceleration()).To(Equal(r2.Vec{}))
	})

	It("damps velocity by the drag factor", func() {
		damped := physics.NewBody(r2.Vec{}, r2.Vec{X: 100}, 5, math.Pi, 0.5, red)
		damped.Integrate(1)
		Expect(damped.Velocity().X).To(BeNumerically("~", 50, 1e-12))
		Expect(damped.Position().X).To(BeNumerically("~", 50, 1e-12))
	})

	DescribeTable("non-positive steps leave motion untouched",
		func(dt float64) {
			b.ApplyForce(r2.Vec{X: 5, Y: 5})
			pos, vel := b.Position(), b.Velocity()
			b.Integrate(dt)
			Expect(b.Position()).To(Equal(pos))
			Expect(b.Velocity()).To(Equal(vel))
			Expect(b.Acceleration()).To(Equal(r2.Vec{}))
		},
		Entry("zero", 0.0),
		Entry("negative", -0.1),
	)

	It("reports kinetic energy", func() {
		Expect(b.KineticEnergy()).To(BeNumerically("~", 0.5*b.Mass()*25, 1e-9))
	})

	It("detects non-finite state", func() {
		Expect(b.Valid()).To(BeTrue())
		b.SetVelocity(r2.Vec{X: math.NaN()})
		Expect(b.Valid()).To(BeFalse())
		b.SetVelocity(r2.Vec{})
		b.SetPosition(r2.Vec{Y: math.Inf(-1)})
		Expect(b.Valid()).To(BeFalse())
	})
})
