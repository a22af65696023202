package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kuramoto/internal/analysis"
	"github.com/san-kum/kuramoto/internal/export"
	"github.com/san-kum/kuramoto/internal/observer"
	"github.com/san-kum/kuramoto/internal/storage"
	"github.com/spf13/cobra"
)

// openStore resolves the data directory from --data or
// KURAMOTO_OUTPUT_DATA_DIR.
func openStore(cmd *cobra.Command) (*storage.Store, error) {
	v, err := bindFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}
	return storage.New(v.GetString("output.data_dir")), nil
}

func loadRun(cmd *cobra.Command, id string) (*storage.RunMetadata, *observer.Recorder, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	rec, err := st.LoadTrajectory(id)
	if err != nil {
		return nil, nil, err
	}
	if rec.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", id)
	}
	return meta, rec, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tL\tK\tTOPOLOGY\tSPAN\tDT\tINTEG\tFINAL R")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%s\t%g..%g\t%g\t%s\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.N,
			run.Groups,
			run.Coupling,
			run.Topology,
			run.T0, run.T1,
			run.Dt,
			run.Integrator,
			run.Metrics["order_parameter"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	height, _ := cmd.Flags().GetInt("height")
	width, _ := cmd.Flags().GetInt("width")
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "run: %s\n", accent.Render(meta.ID))
	fmt.Fprintf(out, "N=%d L=%d K=%g %s  samples: %d\n\n", meta.N, meta.Groups, meta.Coupling, meta.Topology, rec.Len())

	caption := fmt.Sprintf("order parameter r(t), t=%g..%g", rec.Times[0], rec.Times[rec.Len()-1])
	fmt.Fprintln(out, observer.RenderSeries(rec.OrderSeries(), width, height, caption))
	fmt.Fprintln(out)

	final := rec.At(rec.Len() - 1)
	fmt.Fprintf(out, "phases at t=%g, '+' marks the mean field\n", rec.Times[rec.Len()-1])
	fmt.Fprint(out, analysis.CircleASCII(final, circleRows))

	counts := analysis.GroupCounts(final.Groups(), meta.Groups)
	fmt.Fprintf(out, "\noccupied groups: %d/%d\n", analysis.Occupied(counts), meta.Groups)
	for g, c := range counts {
		if c > 0 {
			fmt.Fprintf(out, "  %c %d\n", analysis.GroupGlyph(g), c)
		}
	}

	if dir, _ := cmd.Flags().GetString("svg"); dir != "" {
		paths, err := writeSVGs(dir, meta.ID, rec)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(out, "wrote %s\n", p)
		}
	}
	return nil
}

func writeSVGs(dir, id string, rec *observer.Recorder) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	files := []struct{ path, svg string }{
		{filepath.Join(dir, id+"_phases.svg"), export.PhaseCircleSVG(rec.At(rec.Len()-1), 480)},
		{filepath.Join(dir, id+"_order.svg"), export.SeriesSVG(rec.Times, rec.OrderSeries(), 0, 1, 640, 240, "#5fffd7")},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.svg == "" {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.svg), 0644); err != nil {
			return nil, err
		}
		paths = append(paths, f.path)
	}
	return paths, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "analysis: %s\n\n", accent.Render(meta.ID))

	series := rec.OrderSeries()
	last := rec.Len() - 1
	final := rec.At(last)

	meanR := 0.0
	for _, r := range series {
		meanR += r
	}
	meanR /= float64(len(series))

	first, second := analysis.PartitionCoherence(final.Phases())
	counts := analysis.GroupCounts(final.Groups(), meta.Groups)
	coherence := analysis.GroupCoherence(final, meta.Groups)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "final r\t%.4f\n", series[last])
	fmt.Fprintf(w, "mean r\t%.4f\n", meanR)
	fmt.Fprintf(w, "half coherence\t%.4f / %.4f\n", first, second)
	fmt.Fprintf(w, "occupied groups\t%d/%d\n", analysis.Occupied(counts), meta.Groups)

	freqs := analysis.EffectiveFrequencies(rec.Times, rec.Phases)
	if freqs != nil {
		mean := 0.0
		for _, f := range freqs {
			mean += f
		}
		mean /= float64(len(freqs))
		fmt.Fprintf(w, "mean frequency\t%.4f rad/s\n", mean)
		fmt.Fprintf(w, "frequency spread\t%.4f rad/s\n", analysis.FrequencySpread(freqs))
	}

	sampleDt := meta.Dt * float64(meta.Stride)
	if f := analysis.DominantFrequency(series, sampleDt); f > 0 {
		fmt.Fprintf(w, "r(t) oscillation\t%.4f hz (period %.3f)\n", f, 1/f)
	} else {
		fmt.Fprintf(w, "r(t) oscillation\tnone\n")
	}
	w.Flush()

	fmt.Fprintln(out, "\ngroups:")
	for g, c := range counts {
		if c > 0 {
			fmt.Fprintf(out, "  %c  %4d oscillators  r=%.4f\n", analysis.GroupGlyph(g), c, coherence[g])
		}
	}

	if len(meta.Metrics) > 0 {
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(out, "\nrun metrics:")
		for _, name := range names {
			fmt.Fprintf(out, "  %-20s %.6f\n", name, meta.Metrics[name])
		}
	}

	ps := analysis.PowerSpectrum(series)
	if len(ps) > 2 {
		plotData := ps[1:]
		if peak := maxOf(plotData); peak > 0 && !math.IsNaN(peak) {
			fmt.Fprintln(out)
			fmt.Fprintln(out, asciigraph.Plot(plotData,
				asciigraph.Height(plotHeight),
				asciigraph.Width(plotWidth),
				asciigraph.Caption("power spectrum of r(t)"),
			))
		}
	}
	return nil
}

func maxOf(data []float64) float64 {
	m := math.Inf(-1)
	for _, v := range data {
		m = math.Max(m, v)
	}
	return m
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), *meta, rec)
}
