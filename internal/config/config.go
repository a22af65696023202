// Package config holds the YAML run configuration, named presets and their
// validation.
package config

import (
	"os"

	"github.com/san-kum/kuramoto/internal/initcond"
	"gopkg.in/yaml.v3"
)

const (
	DefaultN        = 100
	DefaultGroups   = 10
	DefaultCoupling = 2.0
	DefaultT1       = 100.0
	DefaultDt       = 0.01
	DefaultStride   = 10
	DefaultLogEvery = 100
	DefaultDataDir  = "data"
)

type Config struct {
	Name       string     `yaml:"name,omitempty"`
	N          int        `yaml:"n"`
	Groups     int        `yaml:"groups"`
	Coupling   float64    `yaml:"coupling"`
	Topology   string     `yaml:"topology"`
	T0         float64    `yaml:"t0"`
	T1         float64    `yaml:"t1"`
	Dt         float64    `yaml:"dt"`
	Seed       int64      `yaml:"seed"`
	Integrator string     `yaml:"integrator"`
	Evaluation string     `yaml:"evaluation"`
	Workers    int        `yaml:"workers"`
	Init       InitConfig `yaml:"init"`
	Log        LogConfig  `yaml:"log"`
	Output     OutConfig  `yaml:"output"`
}

type InitConfig struct {
	Distribution string    `yaml:"distribution"`
	Spread       float64   `yaml:"spread"`
	Phases       []float64 `yaml:"phases,omitempty"`
	Labels       []int     `yaml:"labels,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	Every int    `yaml:"every"`
}

type OutConfig struct {
	DataDir string `yaml:"data_dir"`
	Stride  int    `yaml:"stride"`
	Plot    bool   `yaml:"plot"`
}

// DefaultConfig is the 100-oscillator, 10-group reference run.
func DefaultConfig() *Config {
	ic := initcond.DefaultOptions()
	return &Config{
		Name:       "run",
		N:          DefaultN,
		Groups:     DefaultGroups,
		Coupling:   DefaultCoupling,
		Topology:   "halves",
		T0:         0,
		T1:         DefaultT1,
		Dt:         DefaultDt,
		Seed:       1,
		Integrator: "rk4",
		Evaluation: "snapshot",
		Workers:    1,
		Init: InitConfig{
			Distribution: string(ic.Distribution),
			Spread:       ic.Spread,
		},
		Log: LogConfig{
			Level: "INFO",
			Every: DefaultLogEvery,
		},
		Output: OutConfig{
			DataDir: DefaultDataDir,
			Stride:  DefaultStride,
			Plot:    true,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Init.Phases = append([]float64(nil), c.Init.Phases...)
	out.Init.Labels = append([]int(nil), c.Init.Labels...)
	return &out
}

// Load reads YAML over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads YAML over base; keys absent from the file keep base's
// values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML in the layout Load reads.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
