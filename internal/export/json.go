package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
)

type ExportData struct {
	Run     storage.RunMetadata  `json:"run"`
	Samples []sim.Sample         `json:"samples"`
	Bodies  []storage.BodyRecord `json:"bodies"`
}

// WriteJSON encodes a run, its sample series and final bodies as indented
// JSON.
func WriteJSON(w io.Writer, data ExportData) error {
	if data.Samples == nil {
		data.Samples = []sim.Sample{}
	}
	if data.Bodies == nil {
		data.Bodies = []storage.BodyRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// LoadRun gathers everything stored for runID.
func LoadRun(st *storage.Store, runID string) (ExportData, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return ExportData{}, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return ExportData{}, err
	}
	bodies, err := st.LoadBodies(runID)
	if err != nil {
		return ExportData{}, err
	}
	return ExportData{Run: *meta, Samples: samples, Bodies: bodies}, nil
}
