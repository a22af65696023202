package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: KURAMOTO_COUPLING,
// KURAMOTO_INIT_SPREAD and so on.
const EnvPrefix = "KURAMOTO"

// NewViper returns a viper instance reading KURAMOTO_* environment variables,
// with dotted keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v (by environment or bound flag)
// onto cfg. Keys left unset keep cfg's value, so the layering is
// preset < file < environment < flags.
func ApplyOverrides(v *viper.Viper, cfg *Config) {
	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	setFloat := func(key string, dst *float64) {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	setString("name", &cfg.Name)
	setInt("n", &cfg.N)
	setInt("groups", &cfg.Groups)
	setFloat("coupling", &cfg.Coupling)
	setString("topology", &cfg.Topology)
	setFloat("t0", &cfg.T0)
	setFloat("t1", &cfg.T1)
	setFloat("dt", &cfg.Dt)
	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	setString("integrator", &cfg.Integrator)
	setString("evaluation", &cfg.Evaluation)
	setInt("workers", &cfg.Workers)

	setString("init.distribution", &cfg.Init.Distribution)
	setFloat("init.spread", &cfg.Init.Spread)

	setString("log.level", &cfg.Log.Level)
	setString("log.dir", &cfg.Log.Dir)
	setInt("log.every", &cfg.Log.Every)

	setString("output.data_dir", &cfg.Output.DataDir)
	setInt("output.stride", &cfg.Output.Stride)
	if v.IsSet("output.plot") {
		cfg.Output.Plot = v.GetBool("output.plot")
	}
}
