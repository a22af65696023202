// Package storage archives finished runs on disk: one directory per run
// holding metadata.json, phases.csv and groups.csv. Archives are written
// once and read back for listing, plotting and analysis.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/kuramoto/internal/observer"
)

const (
	metadataFile = "metadata.json"
	phasesFile   = "phases.csv"
	groupsFile   = "groups.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	N           int                `json:"n"`
	Groups      int                `json:"groups"`
	Coupling    float64            `json:"coupling"`
	Topology    string             `json:"topology"`
	Evaluation  string             `json:"evaluation"`
	Integrator  string             `json:"integrator"`
	T0          float64            `json:"t0"`
	T1          float64            `json:"t1"`
	Dt          float64            `json:"dt"`
	Stride      int                `json:"stride"`
	Steps       int                `json:"steps"`
	Evaluations int                `json:"evaluations"`
	Samples     int                `json:"samples"`
	Metrics     Metrics            `json:"metrics"`
}

// Save writes a run and returns its id, derived from meta.Name and the
// timestamp (set to now when zero).
func (s *Store) Save(meta RunMetadata, rec *observer.Recorder) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, meta.Timestamp.UnixNano())
	meta.Samples = rec.Len()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	if err := writeRun(runDir, meta, rec); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("failed to save run %s: %w", meta.ID, err)
	}
	return meta.ID, nil
}

func writeRun(runDir string, meta RunMetadata, rec *observer.Recorder) error {
	phases := make([][]string, len(rec.Times))
	groups := make([][]string, len(rec.Times))
	for k, t := range rec.Times {
		ts := formatFloat(t)
		phases[k] = append([]string{ts}, floatsToStrings(rec.Phases[k])...)
		groups[k] = append([]string{ts}, intsToStrings(rec.Groups[k])...)
	}

	if err := writeCSV(filepath.Join(runDir, phasesFile), header("p", meta.N), phases); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(runDir, groupsFile), header("g", meta.N), groups); err != nil {
		return err
	}
	// metadata last: List only shows runs whose trajectories are complete
	return writeJSON(filepath.Join(runDir, metadataFile), meta)
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory reads the recorded samples of a run back into a Recorder.
func (s *Store) LoadTrajectory(runID string) (*observer.Recorder, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	times, phases, err := readCSV(filepath.Join(s.baseDir, runID, phasesFile), parseFloat)
	if err != nil {
		return nil, err
	}
	_, groups, err := readCSV(filepath.Join(s.baseDir, runID, groupsFile), strconv.Atoi)
	if err != nil {
		return nil, err
	}
	if len(groups) != len(phases) {
		return nil, fmt.Errorf("run %s: %d phase rows but %d group rows", runID, len(phases), len(groups))
	}

	rec := observer.NewRecorder(meta.Stride)
	rec.Times = times
	rec.Phases = phases
	rec.Groups = groups
	return rec, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(path string, head []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(head); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readCSV parses a "time,v0,v1,..." file with a header row.
func readCSV[T any](path string, parse func(string) (T, error)) ([]float64, [][]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if len(records) < 2 {
		return []float64{}, [][]T{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]T, 0, len(records)-1)
	for line, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line+2, err)
		}
		row := make([]T, len(record)-1)
		for j, field := range record[1:] {
			if row[j], err = parse(field); err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line+2, err)
			}
		}
		times = append(times, t)
		rows = append(rows, row)
	}
	return times, rows, nil
}

func header(prefix string, n int) []string {
	h := make([]string, n+1)
	h[0] = "time"
	for i := 0; i < n; i++ {
		h[i+1] = prefix + strconv.Itoa(i)
	}
	return h
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func floatsToStrings(vs []float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = formatFloat(v)
	}
	return out
}

func intsToStrings(vs []int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strconv.Itoa(v)
	}
	return out
}
