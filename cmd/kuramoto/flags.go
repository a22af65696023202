package main

import (
	"fmt"
	"strings"

	"github.com/san-kum/kuramoto/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"name":              "name",
	"n":                 "n",
	"groups":            "groups",
	"coupling":          "coupling",
	"topology":          "topology",
	"t0":                "t0",
	"t1":                "t1",
	"dt":                "dt",
	"seed":              "seed",
	"integrator":        "integrator",
	"evaluation":        "evaluation",
	"workers":           "workers",
	"init.distribution": "init",
	"init.spread":       "spread",
	"output.stride":     "stride",
	"output.plot":       "plot",
	"output.data_dir":   "data",
	"log.level":         "log-level",
	"log.dir":           "log-dir",
	"log.every":         "log-every",
}

// addConfigFlags registers the model and grid flags shared by run, live and
// sweep. Defaults only document the reference run; a flag overrides the
// preset or file only when it is given.
func addConfigFlags(fs *pflag.FlagSet) {
	def := config.DefaultConfig()

	fs.String("preset", "", "start from a named preset (see `kuramoto presets`)")
	fs.String("config", "", "YAML config file applied over the preset")
	fs.String("name", "", "run name used in the run id")
	fs.Int("n", def.N, "number of oscillators")
	fs.Int("groups", def.Groups, "number of group labels")
	fs.Float64("coupling", def.Coupling, "coupling strength K")
	fs.String("topology", def.Topology, "coupling topology (halves, all-to-all)")
	fs.Float64("t0", def.T0, "start time")
	fs.Float64("t1", def.T1, "end time")
	fs.Float64("dt", def.Dt, "timestep")
	fs.Int64("seed", def.Seed, "random seed for initial conditions")
	fs.String("integrator", def.Integrator, "integrator (rk4, euler)")
	fs.String("evaluation", def.Evaluation, "label update order (snapshot, sequential)")
	fs.Int("workers", def.Workers, "goroutines per evaluation (0 = one per CPU)")
	fs.String("init", def.Init.Distribution, "initial phase distribution (uniform, normal, fixed)")
	fs.Float64("spread", def.Init.Spread, "width of the initial phase distribution")
	fs.Int("stride", def.Output.Stride, "record every n-th step")
	fs.Bool("plot", def.Output.Plot, "print the order parameter chart")
	fs.Int("log-every", def.Log.Every, "log every n-th step at DEBUG")
}

// resolveConfig layers preset < config file < KURAMOTO_* environment <
// flags, then validates the result.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	fs := cmd.Flags()

	cfg := config.DefaultConfig()
	if name, _ := fs.GetString("preset"); name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		loaded, err := config.LoadOver(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	v, err := bindFlags(fs)
	if err != nil {
		return nil, err
	}
	config.ApplyOverrides(v, cfg)
	if cfg.Name == "" {
		cfg.Name = "run"
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

func bindFlags(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := config.NewViper()
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return v, nil
}
