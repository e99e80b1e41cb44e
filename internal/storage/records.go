package storage

import (
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/palette"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

var (
	sampleHeader = []string{"time", "count", "kinetic_energy", "mean_speed", "collisions"}
	bodyHeader   = []string{"index", "x", "y", "vx", "vy", "radius", "mass", "drag", "color"}
)

// BodyRecord is the persisted form of a body.
type BodyRecord struct {
	Index  int        `json:"index"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	VX     float64    `json:"vx"`
	VY     float64    `json:"vy"`
	Radius float64    `json:"radius"`
	Mass   float64    `json:"mass"`
	Drag   float64    `json:"drag"`
	Color  color.RGBA `json:"-"`
	Hex    string     `json:"color"`
}

func NewBodyRecord(i int, b physics.Body) BodyRecord {
	p, v := b.Position(), b.Velocity()
	return BodyRecord{
		Index:  i,
		X:      p.X,
		Y:      p.Y,
		VX:     v.X,
		VY:     v.Y,
		Radius: b.Radius(),
		Mass:   b.Mass(),
		Drag:   b.Drag(),
		Color:  b.Color(),
		Hex:    palette.Hex(b.Color()),
	}
}

// Records converts a snapshot into records in emission order.
func Records(bodies []physics.Body) []BodyRecord {
	out := make([]BodyRecord, len(bodies))
	for i, b := range bodies {
		out[i] = NewBodyRecord(i, b)
	}
	return out
}

// Body rebuilds the body. Mass is recovered through the mass factor
// mass / radius², so it may differ from the stored mass in the last bit.
func (r BodyRecord) Body() physics.Body {
	return physics.NewBody(
		r2.Vec{X: r.X, Y: r.Y},
		r2.Vec{X: r.VX, Y: r.VY},
		r.Radius, r.Mass/(r.Radius*r.Radius), r.Drag, r.Color)
}

func sampleRows(samples []sim.Sample) [][]string {
	rows := make([][]string, len(samples))
	for i, s := range samples {
		rows[i] = []string{
			formatFloat(s.Time),
			strconv.Itoa(s.Count),
			formatFloat(s.KineticEnergy),
			formatFloat(s.MeanSpeed),
			strconv.Itoa(s.Collisions),
		}
	}
	return rows
}

func bodyRows(bodies []BodyRecord) [][]string {
	rows := make([][]string, len(bodies))
	for i, r := range bodies {
		rows[i] = []string{
			strconv.Itoa(r.Index),
			formatFloat(r.X),
			formatFloat(r.Y),
			formatFloat(r.VX),
			formatFloat(r.VY),
			formatFloat(r.Radius),
			formatFloat(r.Mass),
			formatFloat(r.Drag),
			r.Hex,
		}
	}
	return rows
}

func parseSample(record []string) (sim.Sample, error) {
	if len(record) != len(sampleHeader) {
		return sim.Sample{}, fmt.Errorf("expected %d fields, got %d", len(sampleHeader), len(record))
	}
	count, err := strconv.Atoi(record[1])
	if err != nil {
		return sim.Sample{}, err
	}
	collisions, err := strconv.Atoi(record[4])
	if err != nil {
		return sim.Sample{}, err
	}
	vals, err := parseFloats([]string{record[0], record[2], record[3]})
	if err != nil {
		return sim.Sample{}, err
	}
	return sim.Sample{
		Time:          vals[0],
		Count:         count,
		KineticEnergy: vals[1],
		MeanSpeed:     vals[2],
		Collisions:    collisions,
	}, nil
}

func parseBody(record []string) (BodyRecord, error) {
	if len(record) != len(bodyHeader) {
		return BodyRecord{}, fmt.Errorf("expected %d fields, got %d", len(bodyHeader), len(record))
	}
	idx, err := strconv.Atoi(record[0])
	if err != nil {
		return BodyRecord{}, err
	}
	vals, err := parseFloats(record[1:8])
	if err != nil {
		return BodyRecord{}, err
	}
	c, err := palette.ParseHex(record[8])
	if err != nil {
		return BodyRecord{}, err
	}
	return BodyRecord{
		Index:  idx,
		X:      vals[0],
		Y:      vals[1],
		VX:     vals[2],
		VY:     vals[3],
		Radius: vals[4],
		Mass:   vals[5],
		Drag:   vals[6],
		Color:  c,
		Hex:    record[8],
	}, nil
}
