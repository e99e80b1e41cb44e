package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
)

type countingMetric struct {
	frames int
	resets int
}

func (m *countingMetric) Name() string      { return "frames" }
func (m *countingMetric) Observe(sim.Frame) { m.frames++ }
func (m *countingMetric) Value() float64    { return float64(m.frames) }
func (m *countingMetric) Reset()            { m.frames = 0; m.resets++ }

type recorder struct{ times []float64 }

func (r *recorder) OnFrame(f sim.Frame) { r.times = append(r.times, f.Time) }

var _ = Describe("Runner", func() {
	var (
		s   *sim.Simulation
		cfg sim.RunConfig
	)

	BeforeEach(func() {
		s = newSim(dynamo.DefaultConfig())
		cfg = sim.DefaultRunConfig()
		cfg.Duration = 1
	})

	DescribeTable("rejects invalid run configs",
		func(dt, duration float64) {
			cfg.Dt, cfg.Duration = dt, duration
			_, err := sim.NewRunner(s, nil).Run(context.Background(), cfg)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		},
		Entry("zero dt", 0.0, 1.0),
		Entry("negative dt", -0.01, 1.0),
		Entry("NaN dt", math.NaN(), 1.0),
		Entry("zero duration", 0.01, 0.0),
		Entry("infinite duration", 0.01, math.Inf(1)),
		Entry("duration under half a step", 0.1, 0.04),
	)

	It("drives the simulation before every step", func() {
		var calls int
		driver := sim.DriverFunc(func(s *sim.Simulation, t float64) {
			calls++
			if calls%10 == 1 {
				s.Emit(1)
			}
		})

		res, err := sim.NewRunner(s, driver).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(60))
		Expect(calls).To(Equal(60))
		Expect(res.Final).To(HaveLen(6))
		Expect(res.Errors).To(BeEmpty())
	})

	It("samples every N steps and always the last one", func() {
		cfg.SampleEvery = 25
		driver := sim.DriverFunc(func(s *sim.Simulation, _ float64) { s.Emit(1) })

		res, err := sim.NewRunner(s, driver).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Samples).To(HaveLen(4))
		last := res.Samples[len(res.Samples)-1]
		Expect(last.Count).To(Equal(60))
		Expect(last.Time).To(BeNumerically("~", 1, 1e-9))
		Expect(last.KineticEnergy).To(BeNumerically(">", 0))
		Expect(last.MeanSpeed).To(BeNumerically(">", 0))
	})

	It("feeds metrics and observers once per step", func() {
		m := &countingMetric{}
		rec := &recorder{}
		r := sim.NewRunner(s, nil)
		r.AddMetric(m)
		r.AddObserver(rec)

		res, err := r.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.resets).To(Equal(1))
		Expect(res.Metrics).To(HaveKeyWithValue("frames", 60.0))
		Expect(rec.times).To(HaveLen(60))
		Expect(rec.times[0]).To(BeNumerically("~", cfg.Dt, 1e-12))
	})

	It("returns the partial result on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		driver := sim.DriverFunc(func(s *sim.Simulation, t float64) {
			s.Emit(1)
			if t > 0.25 {
				cancel()
			}
		})

		res, err := sim.NewRunner(s, driver).Run(ctx, cfg)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res).NotTo(BeNil())
		Expect(res.StepsTaken).To(BeNumerically("<", 60))
		Expect(res.Final).To(HaveLen(res.StepsTaken))
	})

	It("stops with an invalid-state error when a body goes non-finite", func() {
		driver := sim.DriverFunc(func(s *sim.Simulation, t float64) {
			if s.Len() == 0 {
				s.Place(center, r2.Vec{X: math.NaN()}, 5)
			}
		})

		res, err := sim.NewRunner(s, driver).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Errors).To(HaveLen(1))
		Expect(errors.Is(res.Errors[0], dynamo.ErrInvalidState)).To(BeTrue())

		var se *dynamo.SimError
		Expect(errors.As(res.Errors[0], &se)).To(BeTrue())
		Expect(se.Step).To(Equal(0))
		Expect(res.StepsTaken).To(Equal(1))
	})
})
