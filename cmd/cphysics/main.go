package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/cphysics/internal/analysis"
	"github.com/san-kum/cphysics/internal/collision"
	"github.com/san-kum/cphysics/internal/config"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/export"
	"github.com/san-kum/cphysics/internal/field"
	"github.com/san-kum/cphysics/internal/logging"
	"github.com/san-kum/cphysics/internal/metrics"
	"github.com/san-kum/cphysics/internal/report"
	"github.com/san-kum/cphysics/internal/sim"
	"github.com/san-kum/cphysics/internal/storage"
	"github.com/san-kum/cphysics/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	logLevel  string
	logPretty bool

	dt       float64
	duration float64
	seed     int64
	workers  int
	preset   string
	jsonOut  bool
	noSave   bool
	styled   bool

	runs   int
	jitter float64

	column  string
	xColumn string
	yColumn string
	outPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cphysics",
		Short:         "rigid body physics kernel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cphysics", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "human readable logs")

	runCmd := &cobra.Command{
		Use:   "run [scene.yaml]",
		Short: "run a scene and store the trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as json")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scene.yaml]",
		Short: "run perturbed copies of a scene in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	sceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	ensembleCmd.Flags().Float64Var(&jitter, "jitter", 0.01, "velocity jitter standard deviation")

	liveCmd := &cobra.Command{
		Use:   "live [scene.yaml]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "print the details of a dynamic and a static entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.OutOrStdout(), styled)
		},
	}
	inspectCmd.Flags().BoolVar(&styled, "styled", false, "render as panels")

	codesCmd := &cobra.Command{
		Use:   "codes",
		Short: "list every outcome code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCodes(cmd.OutOrStdout())
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(out, "  %-10s %d entities, %.2fs\n", name, len(p.Entities), p.Duration)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot kinetic energy and collision loss of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "", "states.csv column, e.g. planet.x (default: first entity x)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of two recorded columns",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xColumn, "x", "", "column for the x axis (default: first entity x)")
	phaseCmd.Flags().StringVar(&yColumn, "y", "", "column for the y axis (default: first entity vx)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the XY trajectories of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(runCmd, ensembleCmd, liveCmd, inspectCmd, codesCmd, presetsCmd, listCmd, plotCmd, exportCmd, analyzeCmd, phaseCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset scene")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "goroutines for the field pass")
}

func newLogger() zerolog.Logger {
	return logging.New(logLevel, logPretty, os.Stderr)
}

// loadScene resolves the scene from --preset or a file argument and applies
// any explicitly set flags on top of it.
func loadScene(cmd *cobra.Command, args []string) (*config.Scene, error) {
	var sc *config.Scene
	switch {
	case preset != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a scene file or --preset, not both")
	case preset != "":
		sc = config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case len(args) == 1:
		var err error
		sc, err = config.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("no scene given: pass a scene file or --preset (available: %v)", config.ListPresets())
	}

	if cmd.Flags().Changed("dt") {
		sc.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		sc.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		sc.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		sc.Workers = workers
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// printRejections writes the nonzero rejection counts in code order.
func printRejections(w io.Writer, rejected map[field.Code]int) {
	for _, c := range field.Codes {
		if n := rejected[c]; n > 0 {
			fmt.Fprintf(w, "field rejections (%s): %d\n", report.DescribeField(c), n)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScene(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	scene, err := sc.Build()
	if err != nil {
		return err
	}
	cfg := sc.SimConfig()

	log := newLogger()
	s := sim.New(log)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, err := s.Run(ctx, scene, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	if jsonOut {
		return storage.ExportJSON(out, sc.Name, cfg, result)
	}

	fmt.Fprintf(out, "completed %s in %v\n", sc.Name, elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sc.Name, cfg, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "collisions: %d\n", result.Collisions)
	fmt.Fprintf(out, "energy lost: %.6f\n", result.TotalLoss)
	printRejections(out, result.Rejected)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error: %s\n", report.Describe(e))
	}

	fmt.Fprintln(out, "\nmetrics:")
	for _, m := range metrics.Default() {
		fmt.Fprintf(out, "  %s: %.6g\n", m.Name(), result.Metrics[m.Name()])
	}

	fmt.Fprintln(out)
	for _, e := range scene.Entities {
		if err := report.WriteDetails(out, e); err != nil {
			return err
		}
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	scene, err := sc.Build()
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	ctx, cancel := signalContext()
	defer cancel()

	ens := sim.NewEnsemble(sim.New(newLogger()), runs, sc.Seed, jitter).WithMetrics(metrics.Default)
	results, err := ens.Run(ctx, scene, sc.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSEED\tSTEPS\tCOLLISIONS\tLOSS\tMOMENTUM DRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.6f\t%.3g\n",
			i, sc.Seed+int64(i), r.StepsTaken, r.Collisions, r.TotalLoss, r.Metrics["momentum_drift"])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	// logs would tear the alternate screen
	s := sim.New(zerolog.Nop())
	return tui.Run(s, sc.Build, sc.SimConfig())
}

// inspect builds one dynamic and one static entity and prints their dumps.
func inspect(w io.Writer, panels bool) error {
	pos, vel, acc := mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0.5, -0.3, 0.8}, mgl64.Vec3{0.1, 0.2, -0.1}
	dynamic := entity.New("Test Object", 10, 5, entity.Options{
		Position:     &pos,
		Velocity:     &vel,
		Acceleration: &acc,
		Restitution:  0.7,
		RigidBody:    true,
	})
	dynamic.Orientation = mgl64.Quat{W: 0.7071, V: mgl64.Vec3{0, 0.7071, 0}}
	if err := dynamic.SetAngularVelocity(0.1, 0.2, 0.3); err != nil {
		return err
	}
	if err := dynamic.SetAngularAcceleration(0.01, 0.02, 0.03); err != nil {
		return err
	}
	dynamic.MomentOfInertia = 2.5

	static := entity.New("Static Object", 100, 0, entity.Options{Restitution: 0.5, RigidBody: true, Static: true})

	for _, e := range []*entity.Entity{dynamic, static} {
		if panels {
			fmt.Fprintln(w, report.Styled(e))
			continue
		}
		if err := report.WriteDetails(w, e); err != nil {
			return err
		}
	}
	return nil
}

func printCodes(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tCODE\tDESCRIPTION")
	for _, c := range entity.Codes {
		fmt.Fprintf(w, "entity\t%s\t%s\n", c, report.DescribeEntity(c))
	}
	for _, c := range field.Codes {
		fmt.Fprintf(w, "field\t%s\t%s\n", c, report.DescribeField(c))
	}
	for _, o := range collision.Outcomes {
		fmt.Fprintf(w, "collision\t%s\t%s\n", o, report.DescribeCollision(o))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	all, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(all) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tSTEPS\tCOLLISIONS\tLOSS")

	for _, run := range all {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%.4f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Collisions,
			run.TotalLoss,
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

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s\n", meta.Scene)
	fmt.Fprintf(out, "samples: %d\n\n", len(series.Times))

	for _, p := range []struct {
		data    []float64
		caption string
	}{
		{series.KineticEnergy, "kinetic energy"},
		{series.Loss, "cumulative collision loss"},
	} {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// defaultColumn names a column of the first recorded entity.
func defaultColumn(meta *storage.RunMetadata, suffix string) (string, error) {
	if len(meta.Entities) == 0 {
		return "", fmt.Errorf("run %s has no entities", meta.ID)
	}
	return meta.Entities[0] + "." + suffix, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	col := column
	if col == "" {
		if col, err = defaultColumn(meta, "x"); err != nil {
			return err
		}
	}
	data, err := st.LoadColumn(runID, col)
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return fmt.Errorf("no data")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "column: %s\n\n", col)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:max(len(ps)/4, 2)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+col+")"),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)

	freq, _ := analysis.DominantFrequency(data, meta.Dt)
	fmt.Fprintf(out, "dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Fprintf(out, "period: %.4f s\n", 1.0/freq)
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	xc, yc := xColumn, yColumn
	if xc == "" {
		if xc, err = defaultColumn(meta, "x"); err != nil {
			return err
		}
	}
	if yc == "" {
		if yc, err = defaultColumn(meta, "vx"); err != nil {
			return err
		}
	}

	xs, err := st.LoadColumn(runID, xc)
	if err != nil {
		return err
	}
	ys, err := st.LoadColumn(runID, yc)
	if err != nil {
		return err
	}

	portrait := analysis.NewPhasePortrait(xc, xs, yc, ys)
	if len(portrait.Points) == 0 {
		return fmt.Errorf("no data")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "phase portrait: %s\n\n", meta.ID)
	fmt.Fprint(out, portrait.ASCII(70, 24))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	paths := make([]export.Path, 0, len(meta.Entities))
	for _, name := range meta.Entities {
		xs, err := st.LoadColumn(runID, name+".x")
		if err != nil {
			return err
		}
		ys, err := st.LoadColumn(runID, name+".y")
		if err != nil {
			return err
		}
		paths = append(paths, export.Path{Name: name, X: xs, Y: ys})
	}

	svg := export.TrajectoriesSVG(paths, 800, 600)
	if outPath == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), svg)
		return err
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}
