package export

import (
	"bytes"
	"encoding/json"
	"image/color"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
)

func bodies() []physics.Body {
	return []physics.Body{
		physics.NewBody(r2.Vec{X: 10, Y: 20}, r2.Vec{}, 5, math.Pi, 1, color.RGBA{R: 255, A: 255}),
		physics.NewBody(r2.Vec{X: 30, Y: 40}, r2.Vec{}, 5, math.Pi, 1, color.RGBA{G: 255, A: 255}),
		physics.NewBody(r2.Vec{X: 50, Y: 60}, r2.Vec{}, 5, math.Pi, 1, color.RGBA{B: 255, A: 255}),
	}
}

func TestSnapshotToSVG(t *testing.T) {
	svg := SnapshotToSVG(bodies(), r2.Vec{X: 600, Y: 400}, 350, 1200, 800)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete svg document")
	}
	// boundary plus one per body
	if got := strings.Count(svg, "<circle"); got != 4 {
		t.Errorf("expected 4 circles, got %d", got)
	}
	if !strings.Contains(svg, `r="350.00" fill="none"`) {
		t.Error("expected boundary circle")
	}
	for _, hex := range []string{"#ff0000", "#00ff00", "#0000ff"} {
		if !strings.Contains(svg, hex) {
			t.Errorf("expected body fill %s", hex)
		}
	}
}

func TestSnapshotToSVGEmpty(t *testing.T) {
	svg := SnapshotToSVG(nil, r2.Vec{X: 100, Y: 100}, 50, 200, 200)
	if got := strings.Count(svg, "<circle"); got != 1 {
		t.Errorf("expected only the boundary circle, got %d", got)
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{5, 10, 5}, 300, 100, "#00ff00")
	if !strings.Contains(svg, `d="M0.0,`) || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected path: %s", svg)
	}
	if SeriesToSVG([]float64{0}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestWriteJSON(t *testing.T) {
	data := ExportData{
		Run:     storage.RunMetadata{ID: "run_1", Name: "run"},
		Samples: []sim.Sample{{Time: 0.5, Count: 3}},
		Bodies:  storage.Records(bodies()),
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Run     map[string]any   `json:"run"`
		Samples []map[string]any `json:"samples"`
		Bodies  []map[string]any `json:"bodies"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Run["id"] != "run_1" {
		t.Errorf("unexpected run %v", decoded.Run)
	}
	if decoded.Samples[0]["count"] != 3.0 {
		t.Errorf("unexpected sample %v", decoded.Samples[0])
	}
	if len(decoded.Bodies) != 3 || decoded.Bodies[1]["color"] != "#00ff00" {
		t.Errorf("unexpected bodies %v", decoded.Bodies)
	}
}

func TestLoadRun(t *testing.T) {
	st := storage.New(t.TempDir())
	id, err := st.Save(storage.RunMetadata{Name: "x"}, &sim.Result{
		Samples: []sim.Sample{{Time: 1, Count: 3}},
		Final:   bodies(),
		Metrics: map[string]float64{},
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := LoadRun(st, id)
	if err != nil {
		t.Fatal(err)
	}
	if data.Run.ID != id || len(data.Samples) != 1 || len(data.Bodies) != 3 {
		t.Errorf("unexpected export data %+v", data)
	}

	if _, err := LoadRun(st, "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}
