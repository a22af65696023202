package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/config"
	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/initcond"
	"github.com/san-kum/kuramoto/internal/integrators"
	"github.com/san-kum/kuramoto/internal/logging"
	"github.com/san-kum/kuramoto/internal/metrics"
	"github.com/san-kum/kuramoto/internal/observer"
	"github.com/san-kum/kuramoto/internal/sim"
	"github.com/san-kum/kuramoto/internal/storage"
	"github.com/san-kum/kuramoto/internal/tui"
	"github.com/spf13/cobra"
)

var (
	accent = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	muted  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	good   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	plotWidth  = 80
	plotHeight = 10
	circleRows = 11
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	logger, err := logging.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Close()
	runLog := logger.WithRun(cfg.Name)

	s, err := cfg.Simulator()
	if err != nil {
		return err
	}
	s.SetLogger(runLog.WithComponent("sim"))
	for _, m := range metrics.Standard(cfg.Groups) {
		s.AddMetric(m)
	}

	rec := observer.NewRecorder(cfg.Output.Stride)
	s.AddObserver(rec)
	steps := integrators.Steps(cfg.T0, cfg.T1, cfg.Dt)
	plot := observer.NewPlot(max(steps/plotWidth, 1))
	s.AddObserver(plot)
	s.AddObserver(observer.NewLog(runLog, cfg.Log.Every, cfg.Groups))

	if animate, _ := cmd.Flags().GetBool("animate"); animate {
		fps, _ := cmd.Flags().GetInt("fps")
		frames := tui.NewFrames(out, cfg.Name, fps, circleRows)
		frames.Start()
		defer frames.Stop()
		s.AddObserver(frames)
	}

	pop, err := cfg.Population()
	if err != nil {
		return err
	}
	rec.Record(pop, cfg.T0)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "running %s: N=%d L=%d K=%g t=%g..%g dt=%g\n",
		accent.Render(cfg.Name), cfg.N, cfg.Groups, cfg.Coupling, cfg.T0, cfg.T1, cfg.Dt)
	start := time.Now()

	result, runErr := s.Run(ctx, pop, cfg.Grid())
	if runErr != nil && !errors.Is(runErr, dynamo.ErrContextCanceled) {
		return runErr
	}
	elapsed := time.Since(start)

	meta := runMetadata(cfg, result)
	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		st := storage.New(cfg.Output.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, rec)
		if err != nil {
			return err
		}
		meta.ID = id
		meta.Samples = rec.Len()
		runLog.Info("run saved", "id", id, "samples", rec.Len())
	}

	if path, _ := cmd.Flags().GetString("json"); path != "" {
		if err := exportToFile(path, meta, rec); err != nil {
			return err
		}
	}

	printSummary(out, meta, result, elapsed, runErr != nil)
	if cfg.Output.Plot {
		if g := plot.Render(plotWidth, plotHeight); g != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, g)
		}
	}
	return runErr
}

func runMetadata(cfg *config.Config, result *sim.Result) storage.RunMetadata {
	return storage.RunMetadata{
		Name:        cfg.Name,
		Seed:        cfg.Seed,
		N:           cfg.N,
		Groups:      cfg.Groups,
		Coupling:    cfg.Coupling,
		Topology:    cfg.Topology,
		Evaluation:  cfg.Evaluation,
		Integrator:  cfg.Integrator,
		T0:          cfg.T0,
		T1:          result.Time,
		Dt:          cfg.Dt,
		Stride:      cfg.Output.Stride,
		Steps:       result.StepsTaken,
		Evaluations: result.Evaluations,
		Metrics:     result.Metrics,
	}
}

func exportToFile(path string, meta storage.RunMetadata, rec *observer.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(f, meta, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(out io.Writer, meta storage.RunMetadata, result *sim.Result, elapsed time.Duration, interrupted bool) {
	status := good.Render("completed")
	if interrupted {
		status = warn.Render("interrupted")
	}
	fmt.Fprintf(out, "%s in %v\n", status, elapsed.Round(time.Millisecond))
	if meta.ID != "" {
		fmt.Fprintf(out, "%s %s\n", muted.Render("run id:"), meta.ID)
	}
	fmt.Fprintf(out, "%s %d  %s %d\n", muted.Render("steps:"), result.StepsTaken, muted.Render("evaluations:"), result.Evaluations)

	if len(result.Final) > 0 {
		r, _ := analysis.OrderParameter(result.Final.Phases())
		counts := analysis.GroupCounts(result.Final.Groups(), meta.Groups)
		fmt.Fprintf(out, "%s %.4f  %s %d/%d\n", muted.Render("final r:"), r, muted.Render("occupied groups:"), analysis.Occupied(counts), meta.Groups)
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-20s %.6f\n", name, result.Metrics[name])
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fs := cmd.Flags()

	sweep := analysis.SweepConfig{}
	sweep.KMin, _ = fs.GetFloat64("kmin")
	sweep.KMax, _ = fs.GetFloat64("kmax")
	sweep.Points, _ = fs.GetInt("points")
	sweep.Transient, _ = fs.GetFloat64("transient")
	sweep.Workers, _ = fs.GetInt("jobs")
	jitter, _ := fs.GetFloat64("jitter")
	if !(jitter >= 0) || math.IsInf(jitter, 0) {
		return fmt.Errorf("jitter must be finite and non-negative, got %g", jitter)
	}

	logger, err := logging.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Close()
	sweepLog := logger.WithRun(cfg.Name).WithComponent("sweep")

	initial, err := cfg.Population()
	if err != nil {
		return err
	}
	// build runs in K order, so the noise drawn per run is reproducible
	noise := initcond.NewGenerator(cfg.Seed + 1)

	build := func(k float64) (sim.Job, error) {
		c := cfg.Clone()
		c.Coupling = k
		s, err := c.Simulator()
		if err != nil {
			return sim.Job{}, err
		}
		s.SetLogger(sweepLog.With("k", k))
		start := initial
		if jitter > 0 {
			start = noise.Perturb(initial, jitter)
		}
		return sim.Job{Name: fmt.Sprintf("K=%g", k), Sim: s, Initial: start, Config: c.Grid()}, nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "sweeping %s: K=%g..%g over %d points, N=%d L=%d\n\n",
		accent.Render(cfg.Name), sweep.KMin, sweep.KMax, sweep.Points, cfg.N, cfg.Groups)
	points, err := analysis.CouplingSweep(ctx, sweep, build)
	if err != nil {
		return err
	}

	printSweep(out, points)
	return nil
}

func printSweep(out io.Writer, points []analysis.SweepPoint) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K\tMEAN R\tFINAL R\tOCCUPIED")
	series := make([]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%.4g\t%.4f\t%.4f\t%d\n", p.K, p.MeanR, p.FinalR, p.Occupied)
		series[i] = p.MeanR
	}
	w.Flush()

	if len(series) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, observer.RenderSeries(series, plotWidth, plotHeight, "mean r vs K"))
	}
}
