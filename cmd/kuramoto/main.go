package main

import (
	"fmt"
	"os"

	"github.com/san-kum/kuramoto/internal/config"
	"github.com/san-kum/kuramoto/internal/tui"
	"github.com/spf13/cobra"
)

// main registers the kuramoto commands and opens the preset browser when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kuramoto",
		Short: "phase oscillators with winner-take-all group labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("data", config.DefaultDataDir, "data directory for saved runs")
	rootCmd.PersistentFlags().String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().String("log-dir", "", "write logs to this directory instead of stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd.Flags())
	runCmd.Flags().Bool("animate", false, "redraw the phase circle while running")
	runCmd.Flags().Int("fps", 15, "frame rate for --animate")
	runCmd.Flags().String("json", "", "also export the run as JSON to this file")
	runCmd.Flags().Bool("no-save", false, "do not archive the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation in the interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd.Flags())

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per coupling strength and report synchronization",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd.Flags())
	sweepCmd.Flags().Float64("kmin", 0, "smallest coupling strength")
	sweepCmd.Flags().Float64("kmax", 2, "largest coupling strength")
	sweepCmd.Flags().Int("points", 11, "number of coupling strengths")
	sweepCmd.Flags().Float64("transient", 0, "time skipped before averaging r")
	sweepCmd.Flags().Int("jobs", 4, "runs executed concurrently")
	sweepCmd.Flags().Float64("jitter", 0, "std dev of phase noise added to each run's initial population")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the order parameter and final phases of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Int("height", 12, "chart height")
	plotCmd.Flags().Int("width", 80, "chart width")
	plotCmd.Flags().String("svg", "", "also write phase circle and r(t) SVGs into this directory")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "coherence, group and frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}
	presetsCmd.Flags().String("write", "", "write the preset to this YAML file")

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd)
	return rootCmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return tui.RunLive(cfg)
}

func showPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Fprintf(out, "  %s %s\n", accent.Render(fmt.Sprintf("%-12s", name)), muted.Render(config.PresetDescription(name)))
		}
		return nil
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}

	if path, _ := cmd.Flags().GetString("write"); path != "" {
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
		return nil
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
