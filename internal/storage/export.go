package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/kuramoto/internal/observer"
)

// ExportData is the single-document JSON form of a run.
type ExportData struct {
	RunMetadata
	Times  Series  `json:"times"`
	Phases Matrix  `json:"phases"`
	Groups [][]int `json:"groups"`
	Order  Series  `json:"order_parameter"`
}

// ExportJSON writes meta and the recorded trajectory as one JSON document.
// Non-finite values are written as strings, see Series.
func ExportJSON(w io.Writer, meta RunMetadata, rec *observer.Recorder) error {
	meta.Samples = rec.Len()
	data := ExportData{
		RunMetadata: meta,
		Times:       rec.Times,
		Phases:      rec.Phases,
		Groups:      rec.Groups,
		Order:       rec.OrderSeries(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
