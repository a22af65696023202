package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Runaway runs carry NaN and Inf, which encoding/json refuses. The types
// below write them as the strings "NaN", "+Inf" and "-Inf" and read them
// back; finite values stay plain JSON numbers.

// Metrics maps metric names to their final values.
type Metrics map[string]float64

// Series is one float per sample.
type Series []float64

// Matrix is one row of floats per sample.
type Matrix [][]float64

func jsonFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return formatFloat(v)
	}
	return v
}

func parseJSONFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float %q", s)
		}
		return v, nil
	}
	var v float64
	err := json.Unmarshal(raw, &v)
	return v, err
}

func (m Metrics) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = jsonFloat(v)
	}
	return json.Marshal(out)
}

func (m *Metrics) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := make(Metrics, len(raw))
	for k, r := range raw {
		v, err := parseJSONFloat(r)
		if err != nil {
			return fmt.Errorf("metric %s: %w", k, err)
		}
		out[k] = v
	}
	*m = out
	return nil
}

func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = jsonFloat(v)
	}
	return json.Marshal(out)
}

func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, r := range raw {
		v, err := parseJSONFloat(r)
		if err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = v
	}
	*s = out
	return nil
}

func (m Matrix) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	rows := make([]Series, len(m))
	for i, row := range m {
		rows[i] = row
	}
	return json.Marshal(rows)
}

func (m *Matrix) UnmarshalJSON(data []byte) error {
	var rows []Series
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if rows == nil {
		*m = nil
		return nil
	}
	out := make(Matrix, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	*m = out
	return nil
}
