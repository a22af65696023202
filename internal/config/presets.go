package config

import (
	"math"
	"sort"
)

type preset struct {
	description string
	cfg         Config
}

var presets = map[string]preset{
	"reference": {
		description: "100 oscillators, 10 groups, K=2 over t=0..100",
		cfg: Config{
			N: 100, Groups: 10, Coupling: 2, Topology: "halves",
			T1: 100, Dt: 0.01, Seed: 1,
			Init:   InitConfig{Distribution: "uniform", Spread: 2 * math.Pi},
			Output: OutConfig{Stride: 10},
		},
	},
	"communities": {
		description: "two antiphase pairs with mixed labels collapsing to one group",
		cfg: Config{
			N: 4, Groups: 2, Coupling: 1, Topology: "halves",
			T1: 10, Dt: 0.01,
			Init: InitConfig{
				Distribution: "fixed",
				Phases:       []float64{0, 0, math.Pi, math.Pi},
				Labels:       []int{0, 1, 0, 1},
			},
			Output: OutConfig{Stride: 1},
		},
	},
	"small": {
		description: "20 oscillators, 4 groups, quick look",
		cfg: Config{
			N: 20, Groups: 4, Coupling: 0.5, Topology: "halves",
			T1: 20, Dt: 0.01, Seed: 7,
			Init:   InitConfig{Distribution: "uniform", Spread: 2 * math.Pi},
			Output: OutConfig{Stride: 5},
		},
	},
	"strong": {
		description: "strong all-to-all coupling, full phase locking",
		cfg: Config{
			N: 50, Groups: 5, Coupling: 0.5, Topology: "all-to-all",
			T1: 20, Dt: 0.005, Seed: 3,
			Init:   InitConfig{Distribution: "uniform", Spread: 2 * math.Pi},
			Output: OutConfig{Stride: 20},
		},
	},
	"weak": {
		description: "weak coupling, groups drift at their native frequencies",
		cfg: Config{
			N: 100, Groups: 10, Coupling: 0.001, Topology: "halves",
			T1: 50, Dt: 0.01, Seed: 1,
			Init:   InitConfig{Distribution: "uniform", Spread: 2 * math.Pi},
			Output: OutConfig{Stride: 10},
		},
	},
}

// GetPreset returns a fresh copy of a named preset completed with the
// default integrator, evaluation, logging and output settings, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := p.cfg.Clone()
	def := DefaultConfig()
	cfg.Name = name
	cfg.Integrator = def.Integrator
	cfg.Evaluation = def.Evaluation
	cfg.Workers = def.Workers
	cfg.Log = def.Log
	cfg.Output.DataDir = def.Output.DataDir
	cfg.Output.Plot = def.Output.Plot
	return cfg
}

// PresetDescription returns the one-line summary of a preset.
func PresetDescription(name string) string {
	return presets[name].description
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
