package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/particlesim/internal/sim"
)

// Quantity selects a field of sim.Sample.
type Quantity int

const (
	Count Quantity = iota
	KineticEnergy
	MeanSpeed
	Collisions
)

var quantityNames = map[string]Quantity{
	"count":          Count,
	"kinetic_energy": KineticEnergy,
	"mean_speed":     MeanSpeed,
	"collisions":     Collisions,
}

// ParseQuantity maps a column name to a Quantity.
func ParseQuantity(name string) (Quantity, bool) {
	q, ok := quantityNames[name]
	return q, ok
}

func (q Quantity) String() string {
	for name, v := range quantityNames {
		if v == q {
			return name
		}
	}
	return "unknown"
}

func Series(samples []sim.Sample, q Quantity) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		switch q {
		case Count:
			out[i] = float64(s.Count)
		case KineticEnergy:
			out[i] = s.KineticEnergy
		case MeanSpeed:
			out[i] = s.MeanSpeed
		case Collisions:
			out[i] = float64(s.Collisions)
		}
	}
	return out
}

// Times returns the sample times.
func Times(samples []sim.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Time
	}
	return out
}

type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes basic statistics; an empty series yields NaN moments.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{Mean: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	}
	mean, std := stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		std = 0
	}
	return Summary{
		N:      len(data),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(data),
		Max:    floats.Max(data),
	}
}
