package sim_test

import (
	"errors"
	"image/color"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

var (
	center  = r2.Vec{X: 600, Y: 400}
	emitter = r2.Vec{X: 600, Y: 300}
)

func newSim(cfg dynamo.Config) *sim.Simulation {
	s, err := sim.New(cfg, emitter, center, 350)
	Expect(err).NotTo(HaveOccurred())
	return s
}

// frictionless disables gravity and drag so only contacts change velocity.
func frictionless() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.GravityStrength = 0
	cfg.Drag = 1
	cfg.SubSteps = 1
	return cfg
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

var _ = Describe("Simulation", func() {
	Describe("construction", func() {
		DescribeTable("rejects invalid geometry",
			func(radius float64, mutate func(*dynamo.Config)) {
				cfg := dynamo.DefaultConfig()
				if mutate != nil {
					mutate(&cfg)
				}
				_, err := sim.New(cfg, emitter, center, radius)
				Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			},
			Entry("zero radius", 0.0, nil),
			Entry("negative radius", -10.0, nil),
			Entry("NaN radius", math.NaN(), nil),
			Entry("body larger than boundary", 4.0, nil),
			Entry("invalid config", 350.0, func(c *dynamo.Config) { c.SubSteps = 0 }),
		)

		It("starts empty with the configured gravity direction", func() {
			s := newSim(dynamo.DefaultConfig())
			Expect(s.Len()).To(BeZero())
			Expect(s.GravityDirection()).To(Equal(90.0))
			Expect(s.EmitterPosition()).To(Equal(emitter))
			c, r := s.Boundary()
			Expect(c).To(Equal(center))
			Expect(r).To(Equal(350.0))
		})
	})

	Describe("emission", func() {
		It("appends exactly n bodies at the emitter", func() {
			s := newSim(dynamo.DefaultConfig())
			Expect(s.Emit(3)).To(Equal(3))
			s.Update(1.0 / 60)

			moved := r2.Vec{X: 500, Y: 420}
			s.SetEmitterPosition(moved)
			Expect(s.Emit(4)).To(Equal(4))
			Expect(s.Len()).To(Equal(7))

			for i := 3; i < 7; i++ {
				Expect(s.Body(i).Position()).To(Equal(moved))
			}
		})

		It("ignores non-positive counts", func() {
			s := newSim(dynamo.DefaultConfig())
			Expect(s.Emit(0)).To(BeZero())
			Expect(s.Emit(-2)).To(BeZero())
			Expect(s.Len()).To(BeZero())
		})

		It("emits straight down with red at time zero", func() {
			s := newSim(dynamo.DefaultConfig())
			s.Emit(1)
			b := s.Body(0)
			Expect(b.Velocity().X).To(BeNumerically("~", 0, 1e-9))
			Expect(b.Velocity().Y).To(BeNumerically("~", 250, 1e-9))
			Expect(b.Color()).To(Equal(color.RGBA{R: 255, A: 255}))
			Expect(b.Radius()).To(Equal(5.0))
		})

		It("sweeps the spawn angle between its bounds", func() {
			cfg := dynamo.DefaultConfig()
			s := newSim(cfg)
			for i := 0; i < 600; i++ {
				a := s.SpawnAngle()
				Expect(a).To(BeNumerically(">=", cfg.EmitMinAngle-1e-12))
				Expect(a).To(BeNumerically("<=", cfg.EmitMaxAngle+1e-12))
				s.Update(1.0 / 60)
			}
			Expect(s.EmissionTime()).To(BeNumerically("~", 10, 1e-9))
		})

		It("wraps the hue at 360 degrees", func() {
			s := newSim(dynamo.DefaultConfig())
			for i := 0; i < 7; i++ {
				s.Update(1)
			}
			Expect(s.Hue()).To(BeNumerically("~", 60, 1e-9))
		})

		It("passes hue through the color collaborator", func() {
			var gotHue float64
			s, err := sim.New(dynamo.DefaultConfig(), emitter, center, 350,
				sim.WithColorFunc(func(h, _, _ float64) color.RGBA {
					gotHue = h
					return color.RGBA{G: 7, A: 255}
				}))
			Expect(err).NotTo(HaveOccurred())
			s.Update(0.5)
			s.Emit(1)
			Expect(gotHue).To(BeNumerically("~", 30, 1e-9))
			Expect(s.Body(0).Color()).To(Equal(color.RGBA{G: 7, A: 255}))
		})

		It("fans a batch across the configured spread", func() {
			cfg := dynamo.DefaultConfig()
			cfg.EmitSpread = math.Pi / 2
			s := newSim(cfg)
			s.Emit(3)
			first := math.Atan2(s.Body(0).Velocity().Y, s.Body(0).Velocity().X)
			last := math.Atan2(s.Body(2).Velocity().Y, s.Body(2).Velocity().X)
			Expect(first).To(BeNumerically("~", math.Pi/4, 1e-9))
			Expect(last).To(BeNumerically("~", 3*math.Pi/4, 1e-9))
		})

		It("stops at MaxBodies without removing bodies", func() {
			cfg := dynamo.DefaultConfig()
			cfg.MaxBodies = 5
			s := newSim(cfg)
			Expect(s.Emit(3)).To(Equal(3))
			Expect(s.Emit(3)).To(Equal(2))
			Expect(s.Emit(1)).To(BeZero())
			Expect(s.Len()).To(Equal(5))
		})
	})

	Describe("stepping", func() {
		It("treats a zero or negative step as a no-op", func() {
			s := newSim(dynamo.DefaultConfig())
			s.Emit(5)
			s.Update(0.1)
			before := s.Snapshot()
			t := s.EmissionTime()

			s.Update(0)
			s.Update(-1)
			s.Update(math.NaN())

			Expect(s.Snapshot()).To(Equal(before))
			Expect(s.EmissionTime()).To(Equal(t))
		})

		It("accelerates bodies along the gravity direction", func() {
			cfg := dynamo.DefaultConfig()
			cfg.Drag = 1
			cfg.InitialSpeed = 0
			s, err := sim.New(cfg, center, center, 350)
			Expect(err).NotTo(HaveOccurred())
			s.SetGravityDirection(0)
			s.Emit(1)
			s.Update(0.1)

			v := s.Body(0).Velocity()
			Expect(v.X).To(BeNumerically("~", 35, 1e-9))
			Expect(v.Y).To(BeNumerically("~", 0, 1e-9))

			g := s.Gravity()
			Expect(g.X).To(BeNumerically("~", 350, 1e-9))
			Expect(g.Y).To(BeNumerically("~", 0, 1e-9))
		})

		It("applies drag once per sub-step", func() {
			cfg := dynamo.DefaultConfig()
			cfg.GravityStrength = 0
			cfg.Drag = 0.9
			cfg.SubSteps = 3
			cfg.InitialSpeed = 100
			s, err := sim.New(cfg, center, center, 350)
			Expect(err).NotTo(HaveOccurred())
			s.Emit(1)
			s.Update(0.01)

			Expect(physics.Length(s.Body(0).Velocity())).To(BeNumerically("~", 100*0.9*0.9*0.9, 1e-9))
		})

		It("keeps mass equal to k * r^2", func() {
			cfg := dynamo.DefaultConfig()
			s := newSim(cfg)
			for i := 0; i < 120; i++ {
				if i%4 == 0 {
					s.Emit(2)
				}
				s.Update(1.0 / 60)
			}
			s.Each(func(_ int, b physics.Body) {
				Expect(b.Mass()).To(Equal(cfg.MassFactor * b.Radius() * b.Radius()))
			})
		})

		It("is deterministic for identical inputs", func() {
			run := func(parallel bool) []physics.Body {
				cfg := dynamo.DefaultConfig()
				cfg.Parallel = parallel
				cfg.ParallelMinChunk = 8
				s := newSim(cfg)
				for i := 0; i < 240; i++ {
					if i%3 == 0 {
						s.Emit(2)
					}
					if i == 100 {
						s.SetGravityDirection(180)
					}
					s.SetEmitterPosition(r2.Vec{X: 600 + float64(i%40), Y: 300})
					s.Update(1.0/60 + float64(i%5)*0.001)
				}
				return s.Snapshot()
			}

			a := run(false)
			Expect(run(false)).To(Equal(a))
			Expect(run(true)).To(Equal(a))
		})
	})

	Describe("boundary confinement", func() {
		It("keeps every body inside the circle", func() {
			cfg := dynamo.DefaultConfig()
			cfg.InitialSpeed = 900
			s := newSim(cfg)
			dirs := []float64{90, 0, 270, 180}
			for i := 0; i < 600; i++ {
				if i%2 == 0 {
					s.Emit(1)
				}
				s.SetGravityDirection(dirs[(i/150)%len(dirs)])
				s.Update(1.0 / 30)

				s.Each(func(_ int, b physics.Body) {
					d := physics.Distance(center, b.Position())
					Expect(d).To(BeNumerically("<=", 350-b.Radius()+1e-6))
				})
			}
		})

		It("clamps and reflects an escaping body", func() {
			s := newSim(frictionless())
			s.Place(r2.Vec{X: center.X, Y: center.Y + 400}, r2.Vec{X: 3, Y: 10}, 5)
			s.ConfinePass()

			b := s.Body(0)
			Expect(b.Position().X).To(BeNumerically("~", center.X, 1e-9))
			Expect(b.Position().Y).To(BeNumerically("~", center.Y+345, 1e-9))
			Expect(b.Velocity().X).To(BeNumerically("~", 3, 1e-9))
			Expect(b.Velocity().Y).To(BeNumerically("~", -10, 1e-9))
		})

		It("leaves inward-moving bodies heading inward", func() {
			s := newSim(frictionless())
			s.Place(r2.Vec{X: center.X + 360, Y: center.Y}, r2.Vec{X: -20, Y: 0}, 5)
			s.ConfinePass()
			Expect(s.Body(0).Velocity().X).To(BeNumerically("~", -20, 1e-9))
		})

		It("does not divide by zero at the exact center", func() {
			s := newSim(frictionless())
			s.Place(center, r2.Vec{}, 5)
			s.ConfinePass()
			Expect(s.Body(0).Position()).To(Equal(center))
		})
	})

	Describe("pairwise collisions", func() {
		It("swaps normal velocities of equal masses meeting head-on", func() {
			s := newSim(frictionless())
			s.Place(r2.Vec{X: 596, Y: 400}, r2.Vec{X: 10, Y: 0}, 5)
			s.Place(r2.Vec{X: 604, Y: 400}, r2.Vec{X: -10, Y: 0}, 5)
			s.CollidePass()

			a, b := s.Body(0), s.Body(1)
			Expect(a.Velocity().X).To(BeNumerically("~", -10, 1e-9))
			Expect(b.Velocity().X).To(BeNumerically("~", 10, 1e-9))
			Expect(physics.Distance(a.Position(), b.Position())).To(BeNumerically("~", 10, 1e-9))
			Expect(s.Collisions()).To(Equal(1))
		})

		It("preserves tangential velocity", func() {
			s := newSim(frictionless())
			s.Place(r2.Vec{X: 596, Y: 400}, r2.Vec{X: 10, Y: 7}, 5)
			s.Place(r2.Vec{X: 604, Y: 400}, r2.Vec{X: -10, Y: -3}, 5)
			s.CollidePass()

			Expect(s.Body(0).Velocity().Y).To(BeNumerically("~", 7, 1e-9))
			Expect(s.Body(1).Velocity().Y).To(BeNumerically("~", -3, 1e-9))
		})

		It("conserves momentum and energy between unequal masses", func() {
			s := newSim(frictionless())
			s.Place(r2.Vec{X: 590, Y: 400}, r2.Vec{X: 30, Y: 5}, 10)
			s.Place(r2.Vec{X: 603, Y: 402}, r2.Vec{X: -15, Y: 0}, 5)

			momentum := func() r2.Vec {
				a, b := s.Body(0), s.Body(1)
				return r2.Add(r2.Scale(a.Mass(), a.Velocity()), r2.Scale(b.Mass(), b.Velocity()))
			}
			energy := func() float64 { return s.Body(0).KineticEnergy() + s.Body(1).KineticEnergy() }

			p0, e0 := momentum(), energy()
			s.CollidePass()
			p1, e1 := momentum(), energy()

			Expect(p1.X).To(BeNumerically("~", p0.X, 1e-6))
			Expect(p1.Y).To(BeNumerically("~", p0.Y, 1e-6))
			Expect(e1).To(BeNumerically("~", e0, 1e-6))
		})

		It("separates without exchanging momentum when already moving apart", func() {
			s := newSim(frictionless())
			s.Place(r2.Vec{X: 596, Y: 400}, r2.Vec{X: -10, Y: 0}, 5)
			s.Place(r2.Vec{X: 604, Y: 400}, r2.Vec{X: 10, Y: 0}, 5)
			s.CollidePass()

			Expect(s.Body(0).Velocity().X).To(Equal(-10.0))
			Expect(s.Body(1).Velocity().X).To(Equal(10.0))
			Expect(physics.Distance(s.Body(0).Position(), s.Body(1).Position())).To(BeNumerically("~", 10, 1e-9))
		})

		It("never produces NaN for coincident bodies", func() {
			s := newSim(frictionless())
			s.Place(center, r2.Vec{X: 1, Y: 2}, 5)
			s.Place(center, r2.Vec{X: -3, Y: 4}, 5)
			s.CollidePass()

			for i := 0; i < 2; i++ {
				Expect(finite(s.Body(i).Position())).To(BeTrue())
				Expect(finite(s.Body(i).Velocity())).To(BeTrue())
			}
			Expect(physics.Distance(s.Body(0).Position(), s.Body(1).Position())).To(BeNumerically("~", 10, 1e-9))
		})

		It("stays finite when a batch spawns on one point", func() {
			s := newSim(dynamo.DefaultConfig())
			s.Emit(10)
			for i := 0; i < 60; i++ {
				s.Update(1.0 / 60)
			}
			s.Each(func(_ int, b physics.Body) {
				Expect(b.Valid()).To(BeTrue())
			})
		})

		It("counts resolved pairs during Update", func() {
			s := newSim(frictionless())
			s.Place(r2.Vec{X: 596, Y: 400}, r2.Vec{X: 10, Y: 0}, 5)
			s.Place(r2.Vec{X: 604, Y: 400}, r2.Vec{X: -10, Y: 0}, 5)
			s.Update(1e-3)
			Expect(s.Collisions()).To(Equal(1))
		})
	})

	It("resets to an empty state", func() {
		s := newSim(dynamo.DefaultConfig())
		s.Emit(4)
		s.Update(0.5)
		s.Reset()
		Expect(s.Len()).To(BeZero())
		Expect(s.EmissionTime()).To(BeZero())
	})
})
