package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/analysis"
	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/export"
	"github.com/san-kum/particlesim/internal/optim"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
)

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// output returns stdout or the file named by --out. The caller closes it.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func parseQuantity(name string) (analysis.Quantity, error) {
	q, ok := analysis.ParseQuantity(name)
	if !ok {
		return 0, fmt.Errorf("%w: quantity %q", dynamo.ErrUnknownParam, name)
	}
	return q, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tSTEPS\tBODIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Bodies,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	quantities := []analysis.Quantity{analysis.Count, analysis.KineticEnergy, analysis.MeanSpeed, analysis.Collisions}
	if quantity != "" {
		q, err := parseQuantity(quantity)
		if err != nil {
			return err
		}
		quantities = []analysis.Quantity{q}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(samples))

	for _, q := range quantities {
		graph := asciigraph.Plot(analysis.Series(samples, q),
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(q.String()+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	q, err := parseQuantity(quantity)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("run %s has %d samples, need at least 2", runID, len(samples))
	}

	data := analysis.Series(samples, q)
	sum := analysis.Summarize(data)
	fmt.Printf("%s over %d samples\n", q, sum.N)
	fmt.Printf("  mean:   %.6g\n", sum.Mean)
	fmt.Printf("  stddev: %.6g\n", sum.StdDev)
	fmt.Printf("  min:    %.6g\n", sum.Min)
	fmt.Printf("  max:    %.6g\n", sum.Max)

	times := analysis.Times(samples)
	interval := times[1] - times[0]
	if interval <= 0 {
		return nil
	}
	freq, power := analysis.DominantFrequency(data, 1/interval)
	fmt.Printf("\ndominant frequency: %.4f Hz (power %.4g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.4f s\n", 1/freq)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	data, err := export.LoadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return export.WriteJSON(w, data)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID := args[0]

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	if withBody {
		bodies, err := st.LoadBodies(runID)
		if err != nil {
			return err
		}
		return storage.WriteBodies(w, bodies)
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	return storage.WriteSamples(w, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	data, err := export.LoadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	var svg string
	if quantity != "" {
		q, err := parseQuantity(quantity)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(analysis.Times(data.Samples), analysis.Series(data.Samples, q), 800, 400, "#00cccc")
	} else {
		bodies := make([]physics.Body, 0, len(data.Bodies))
		for _, r := range data.Bodies {
			bodies = append(bodies, r.Body())
		}
		center := r2.Vec{X: data.Run.Center[0], Y: data.Run.Center[1]}
		svg = export.SnapshotToSVG(bodies, center, data.Run.Radius, 800, 800)
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = io.WriteString(w, svg)
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("max: %w", err)
	}
	steps, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("steps: %w", err)
	}

	cfg, scenario, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if scenario == nil {
		scenario = defaultScenario(cfg)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Param:    args[0],
		Min:      lo,
		Max:      hi,
		NumSteps: steps,
		Base:     cfg.Physics,
		Scene:    cfg.SimScene(),
		Run:      cfg.SimRun(),
		Scenario: scenario,
		Logger:   log,
	})
	if len(results) > 0 {
		printSweep(args[0], results)
	}
	return err
}

func printSweep(param string, results []automation.SweepResult) {
	keys := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBODIES\tERRORS", param)
	for _, k := range keys {
		fmt.Fprintf(w, "\t%s", k)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%d", r.ParamValue, r.Count, r.Errors)
		for _, k := range keys {
			fmt.Fprintf(w, "\t%.4g", r.Metrics[k])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if scenario == nil {
		scenario = defaultScenario(cfg)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg.Physics,
		Scene:        cfg.SimScene(),
		Run:          cfg.SimRun(),
		Scenario:     scenario,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         seed,
		Logger:       log,
	})
	if err != nil && len(results) == 0 {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	energy := make([]float64, 0, len(results))
	for _, r := range results {
		energy = append(energy, r.Metrics["kinetic_energy"])
	}
	sum := analysis.Summarize(energy)

	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("stable: %d\n", stable)
	fmt.Printf("unstable: %d\n", unstable)
	fmt.Printf("kinetic energy: mean %.4g, stddev %.4g, range [%.4g, %.4g]\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)
	return err
}

// parseRange reads "name=min:max:steps".
func parseRange(arg string) (string, []float64, error) {
	name, bounds, ok := strings.Cut(arg, "=")
	parts := strings.Split(bounds, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("%w: range %q, want name=min:max:steps", dynamo.ErrParameterBounds, arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %q min: %w", arg, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %q max: %w", arg, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("%w: range %q steps", dynamo.ErrParameterBounds, arg)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, arg := range tuneParams {
		name, values, err := parseRange(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	cfg, scenario, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if scenario == nil {
		scenario = defaultScenario(cfg)
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	scene, run := cfg.SimScene(), cfg.SimRun()
	evaluate := func(ctx context.Context, c dynamo.Config) (*sim.Result, error) {
		res, err := automation.Evaluate(ctx, c, scene, run, scenario)
		log.Debug("grid point", "metric", tuneMetric, "value", metricOrNaN(res, tuneMetric), "err", err)
		return res, err
	}

	best, value, err := search.Search(ctx, cfg.Physics, evaluate, tuneMetric)
	if err != nil {
		return err
	}
	fmt.Printf("best %s: %.6g\n", tuneMetric, value)
	for _, name := range sortedKeys(best) {
		fmt.Printf("  %s = %.6g\n", name, best[name])
	}
	return nil
}

func metricOrNaN(res *sim.Result, name string) float64 {
	if res == nil {
		return math.NaN()
	}
	if v, ok := res.Metrics[name]; ok {
		return v
	}
	return math.NaN()
}
