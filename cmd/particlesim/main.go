package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/gui"
	"github.com/san-kum/particlesim/internal/logging"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
	"github.com/san-kum/particlesim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	log      *slog.Logger

	configFile   string
	preset       string
	scenarioFile string
	dt           float64
	duration     float64
	gravity      float64
	gravityDir   float64
	subSteps     int
	maxBodies    int
	parallel     bool
	runName      string

	quantity  string
	outFile   string
	withBody  bool
	benchN    int
	benchStep int

	trials       int
	perturbation float64
	seed         int64

	tuneParams []string
	tuneMetric string
)

// main registers the commands and runs the window front-end when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "particlesim",
		Short: "2D particle simulation in a circular boundary",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelFromEnv()
			if cmd.Flags().Changed("log-level") {
				level = logging.ParseLevel(logLevel)
			}
			log = logging.NewWithLevel(os.Stderr, level)
			slog.SetDefault(log)
		},
		RunE:          runGUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	addSceneFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulation window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSceneFlags(guiCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick and tune a preset in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(log)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset or \"run\")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored sample series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&quantity, "quantity", "", "series to plot (count, kinetic_energy, mean_speed, collisions); all when empty")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary statistics and dominant frequency of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&quantity, "quantity", "kinetic_energy", "series to analyze")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples or final bodies to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")
	exportCSVCmd.Flags().BoolVar(&withBody, "bodies", false, "export the final body snapshot instead of samples")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the final snapshot or a series as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")
	svgCmd.Flags().StringVar(&quantity, "quantity", "", "plot this series instead of the snapshot")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time simulation updates at a fixed body count",
		Args:  cobra.NoArgs,
		RunE:  benchSimulation,
	}
	addSceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchN, "bodies", 500, "bodies to emit before timing")
	benchCmd.Flags().IntVar(&benchStep, "steps", 600, "updates to time")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-10s %s\n", name, config.Presets[name].Description)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [min] [max] [steps]",
		Short: "run the scenario across a range of one physics value",
		Args:  cobra.ExactArgs(4),
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	addRunFlags(sweepCmd)

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat the scenario with jittered emitter positions",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSceneFlags(monteCarloCmd)
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 50, "maximum emitter offset per axis")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search physics values for the lowest metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSceneFlags(tuneCmd)
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=min:max:steps, repeatable")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "max_overlap", "metric to minimize")

	rootCmd.AddCommand(guiCmd, liveCmd, tuiCmd, runCmd, listCmd, plotCmd, analyzeCmd,
		exportJSONCmd, exportCSVCmd, svgCmd, benchCmd, presetsCmd, sweepCmd, monteCarloCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "gravity strength")
	cmd.Flags().Float64Var(&gravityDir, "gravity-dir", 0, "initial gravity direction in degrees")
	cmd.Flags().IntVar(&subSteps, "substeps", 0, "integration sub-steps per update")
	cmd.Flags().IntVar(&maxBodies, "max-bodies", 0, "body cap (0 is unlimited)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "integrate bodies in parallel")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration")
}

// loadConfig resolves preset, config file and flags in that order. Flags
// only override values when given.
func loadConfig(cmd *cobra.Command) (*config.Config, *automation.Scenario, error) {
	cfg := config.DefaultConfig()
	var scenario *automation.Scenario

	if preset != "" {
		var err error
		cfg, scenario, err = config.GetPreset(preset)
		if err != nil {
			return nil, nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if sc, err := cfg.LoadScenario(); err != nil {
			return nil, nil, err
		} else if sc != nil {
			scenario = sc
		}
	}

	flags := cmd.Flags()
	if flags.Changed("gravity") {
		cfg.Physics.GravityStrength = gravity
	}
	if flags.Changed("gravity-dir") {
		cfg.Physics.GravityDirection = gravityDir
	}
	if flags.Changed("substeps") {
		cfg.Physics.SubSteps = subSteps
	}
	if flags.Changed("max-bodies") {
		cfg.Physics.MaxBodies = maxBodies
	}
	if flags.Changed("parallel") {
		cfg.Physics.Parallel = parallel
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("scenario") {
		sc, err := automation.LoadScenario(scenarioFile)
		if err != nil {
			return nil, nil, err
		}
		scenario = sc
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, scenario, nil
}

// defaultScenario streams one body every 50 ms for the first half of the
// run so that headless runs without a scenario still have something to
// simulate.
func defaultScenario(cfg *config.Config) *automation.Scenario {
	return &automation.Scenario{
		Name: "stream",
		Events: []automation.Event{
			{At: 0, Every: 0.05, Until: cfg.Run.Duration / 2, Emit: 1},
		},
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, log)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.Build()
	if err != nil {
		return err
	}
	name := preset
	if name == "" {
		name = "particlesim"
	}
	return viz.Run(s, name, log)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if scenario == nil {
		scenario = defaultScenario(cfg)
	}
	s, err := cfg.Build()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner := sim.NewRunner(s, automation.NewPlayer(scenario))
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	name := runName
	if name == "" {
		name = preset
	}
	if name == "" {
		name = "run"
	}

	log.Info("running simulation", "name", name, "scenario", scenario.Name, "duration", cfg.Run.Duration, "dt", cfg.Run.Dt)
	start := time.Now()
	result, runErr := runner.Run(ctx, cfg.SimRun())
	if result == nil {
		return runErr
	}
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) {
			return runErr
		}
		log.Warn("run interrupted, saving partial result", "steps", result.StepsTaken)
	}
	elapsed := time.Since(start)

	scene := cfg.SimScene()
	runID, err := st.Save(storage.RunMetadata{
		Name:     name,
		Dt:       cfg.Run.Dt,
		Duration: cfg.Run.Duration,
		Center:   [2]float64{scene.Center.X, scene.Center.Y},
		Radius:   scene.Radius,
		Physics:  cfg.Physics,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("bodies: %d\n", len(result.Final))
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %v\n", e)
	}
	return nil
}

func benchSimulation(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Physics.MaxBodies = 0
	s, err := cfg.Build()
	if err != nil {
		return err
	}

	// spread the emission out so bodies do not all start stacked
	for s.Len() < benchN {
		if s.Emit(1) == 0 {
			break
		}
		s.Update(cfg.Run.Dt)
	}

	start := time.Now()
	for i := 0; i < benchStep; i++ {
		s.Update(cfg.Run.Dt)
	}
	elapsed := time.Since(start)

	perStep := elapsed / time.Duration(max(benchStep, 1))
	fmt.Printf("bodies: %d\n", s.Len())
	fmt.Printf("steps: %d\n", benchStep)
	fmt.Printf("total: %v\n", elapsed)
	fmt.Printf("per update: %v\n", perStep)
	if perStep > 0 {
		fmt.Printf("max fps: %.1f\n", float64(time.Second)/float64(perStep))
	}
	return nil
}
