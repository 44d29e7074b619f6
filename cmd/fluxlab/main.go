package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/lasmithusa/engineered-magnetics/internal/analysis"
	"github.com/lasmithusa/engineered-magnetics/internal/config"
	"github.com/lasmithusa/engineered-magnetics/internal/export"
	"github.com/lasmithusa/engineered-magnetics/internal/field"
	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
	"github.com/lasmithusa/engineered-magnetics/internal/storage"
	"github.com/lasmithusa/engineered-magnetics/internal/viz"
)

var (
	dataDir    string
	configFile string
	grade      string
	remanence  float64
	radius     float64
	thickness  float64
	shapeName  string
	distMin    float64
	distMax    float64
	resolution int
	// surface
	saveRun bool
	// profile
	profileDists []float64
	// sweep
	target float64
	steps  int
	// point
	dist float64
	pos  float64
	// export-svg
	svgScale float64
)

// main registers commands and flags; with no subcommand the
// interactive surface viewer starts.
func main() {
	rootCmd := &cobra.Command{
		Use:   "fluxlab",
		Short: "flux density calculator for opposed cylindrical magnets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluxlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&grade, "grade", "", "magnet grade (sets remanence, see presets)")
	rootCmd.PersistentFlags().Float64Var(&remanence, "br", config.DefaultRemanence, "remanence (Tesla)")
	rootCmd.PersistentFlags().Float64Var(&radius, "radius", config.DefaultRadius, "magnet radius (mm)")
	rootCmd.PersistentFlags().Float64Var(&thickness, "thickness", config.DefaultThickness, "magnet thickness (mm)")
	rootCmd.PersistentFlags().StringVar(&shapeName, "shape", config.DefaultShape, "magnet shape (cyl, block, ring)")
	rootCmd.PersistentFlags().Float64Var(&distMin, "dmin", config.DefaultDistMin, "distance range min (mm)")
	rootCmd.PersistentFlags().Float64Var(&distMax, "dmax", config.DefaultDistMax, "distance range max (mm)")
	rootCmd.PersistentFlags().IntVar(&resolution, "res", config.DefaultResolution, "grid resolution per axis")

	surfaceCmd := &cobra.Command{
		Use:   "surface",
		Short: "compute the flux surface and render it",
		RunE:  runSurface,
	}
	surfaceCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "interactive surface viewer",
		RunE:  runView,
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "plot flux vs position at fixed gap distances",
		RunE:  runProfile,
	}
	profileCmd.Flags().Float64SliceVar(&profileDists, "dist", []float64{0, 5, 10}, "gap distances (mm)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "plot midpoint flux across the distance range",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&target, "target", 0, "find the largest gap meeting this flux (Tesla)")
	sweepCmd.Flags().IntVar(&steps, "steps", 100, "sweep sample count")

	pointCmd := &cobra.Command{
		Use:   "point",
		Short: "evaluate flux at one sample point",
		RunE:  runPoint,
	}
	pointCmd.Flags().Float64Var(&dist, "dist", 0, "midpoint distance (mm)")
	pointCmd.Flags().Float64Var(&pos, "pos", 0, "position from midpoint (mm)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list magnet grades",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GRADE\tREMANENCE")
			for _, name := range config.ListGrades() {
				br, _ := config.GradeRemanence(name)
				fmt.Fprintf(w, "%s\t%.2f T\n", name, br)
			}
			w.Flush()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "render a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved grid to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved grid to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a saved run as an SVG surface render",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 4, "pixels per braille dot")

	rootCmd.AddCommand(surfaceCmd, viewCmd, profileCmd, sweepCmd, pointCmd,
		presetsCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges defaults, config file, grade preset and CLI
// flags, in increasing priority.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if grade != "" {
		br, ok := config.GradeRemanence(grade)
		if !ok {
			return nil, fmt.Errorf("unknown grade: %s (available: %v)", grade, config.ListGrades())
		}
		cfg.Remanence = br
	}

	flags := cmd.Flags()
	if flags.Changed("br") {
		cfg.Remanence = remanence
	}
	if flags.Changed("radius") {
		cfg.Radius = radius
	}
	if flags.Changed("thickness") {
		cfg.Thickness = thickness
	}
	if flags.Changed("shape") {
		cfg.Shape = shapeName
	}
	if flags.Changed("dmin") {
		cfg.DistRange.Min = distMin
	}
	if flags.Changed("dmax") {
		cfg.DistRange.Max = distMax
	}
	if flags.Changed("res") {
		cfg.Resolution = resolution
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func computeGrid(cfg *config.Config) (magnet.Geometry, *field.Grid, error) {
	geom, err := cfg.Geometry()
	if err != nil {
		return magnet.Geometry{}, nil, err
	}
	g, err := field.New(cfg.DistRange.Min, cfg.DistRange.Max, cfg.Resolution)
	if err != nil {
		return magnet.Geometry{}, nil, err
	}
	g.Compute(geom)
	return geom, g, nil
}

func runSurface(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	geom, g, err := computeGrid(cfg)
	if err != nil {
		return err
	}

	cm := viz.NewDiverging()
	mesh := viz.BuildMesh(g, cm, 34)
	canvas := viz.NewCanvas(76, 26)
	mesh.Render(canvas, viz.NewCamera())

	fmt.Println(canvas.Colored(cm))
	fmt.Println(viz.LabelX + "   " + viz.LabelY + "   " + viz.LabelZ)
	stats := g.Summarize()
	fmt.Println(cm.Legend(stats.Min, stats.Max))
	fmt.Println()

	printStats(geom, g)

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(geom, g)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	geom, err := cfg.Geometry()
	if err != nil {
		return err
	}
	return viz.Run(geom, cfg.DistRange.Min, cfg.DistRange.Max, cfg.Resolution)
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	geom, err := cfg.Geometry()
	if err != nil {
		return err
	}

	positions := field.Linspace(-cfg.DistRange.Max, cfg.DistRange.Max, cfg.Resolution)

	for _, d := range profileDists {
		fluxes := geom.FluxProfile(d, positions)

		if allNaN(fluxes) {
			fmt.Printf("gap %.2f mm: no formula for shape %q\n\n", d, geom.Shape)
			continue
		}

		graph := asciigraph.Plot(fluxes,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("flux (T) vs position, gap %.2f mm [%.1f .. %.1f mm]",
				d, positions[0], positions[len(positions)-1])),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	geom, err := cfg.Geometry()
	if err != nil {
		return err
	}

	points := analysis.Sweep(geom, cfg.DistRange.Min, cfg.DistRange.Max, steps)
	fluxes := analysis.Fluxes(points)

	if allNaN(fluxes) {
		return fmt.Errorf("no formula for shape %q", geom.Shape)
	}

	graph := asciigraph.Plot(fluxes,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("midpoint flux (T) vs gap distance [%.1f .. %.1f mm]",
			cfg.DistRange.Min, cfg.DistRange.Max)),
	)
	fmt.Println(graph)

	if cmd.Flags().Changed("target") {
		gap, err := analysis.FindGap(geom, target, cfg.DistRange.Min, cfg.DistRange.Max)
		if err != nil {
			return fmt.Errorf("target %.4f T: %w", target, err)
		}
		fmt.Printf("\nlargest gap meeting %.4f T: %.3f mm (flux %.6f T)\n",
			target, gap, geom.FluxDensity(gap, 0))
	}
	return nil
}

func runPoint(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	geom, err := cfg.Geometry()
	if err != nil {
		return err
	}

	b := geom.FluxDensity(dist, pos)
	switch {
	case math.IsNaN(b):
		fmt.Printf("B(%.3f, %.3f) = NaN (no formula for shape %q)\n", dist, pos, geom.Shape)
	case b == 0 && pos > dist:
		fmt.Printf("B(%.3f, %.3f) = 0 T (outside envelope)\n", dist, pos)
	default:
		fmt.Printf("B(%.3f, %.3f) = %.6f T\n", dist, pos, b)
	}
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tBR\tRADIUS\tTHICK\tSHAPE\tRANGE\tPEAK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fT\t%.2fmm\t%.2fmm\t%s\t%.1f–%.1fmm\t%.4fT\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Remanence,
			run.Radius,
			run.Thickness,
			run.Shape,
			run.DistMin,
			run.DistMax,
			run.PeakFlux,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	g, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("magnet: Br %.2f T, r %.2f mm, t %.2f mm, %s\n\n",
		meta.Remanence, meta.Radius, meta.Thickness, meta.Shape)

	cm := viz.NewDiverging()
	mesh := viz.BuildMesh(g, cm, 34)
	canvas := viz.NewCanvas(76, 26)
	mesh.Render(canvas, viz.NewCamera())

	fmt.Println(canvas.Colored(cm))
	fmt.Println(viz.LabelX + "   " + viz.LabelY + "   " + viz.LabelZ)
	stats := g.Summarize()
	fmt.Println(cm.Legend(stats.Min, stats.Max))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	g, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, g)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	g, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}

	shape, err := magnet.ParseShape(meta.Shape)
	if err != nil {
		return err
	}
	geom := magnet.Geometry{
		Remanence: meta.Remanence,
		Radius:    meta.Radius,
		Thickness: meta.Thickness,
		Shape:     shape,
	}
	return export.WriteJSON(os.Stdout, export.NewGridData(geom, g))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	g, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}

	cm := viz.NewDiverging()
	mesh := viz.BuildMesh(g, cm, 34)
	canvas := viz.NewCanvas(76, 26)
	mesh.Render(canvas, viz.NewCamera())

	fmt.Println(export.CanvasSVG(canvas, cm, svgScale))
	return nil
}

// printStats reports the computed surface the way the summary sidebar
// does in the interactive viewer.
func printStats(geom magnet.Geometry, g *field.Grid) {
	stats := g.Summarize()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "shape\t%s\n", geom.Shape)
	fmt.Fprintf(w, "remanence\t%.3f T\n", geom.Remanence)
	fmt.Fprintf(w, "radius\t%.3f mm\n", geom.Radius)
	fmt.Fprintf(w, "thickness\t%.3f mm\n", geom.Thickness)
	if math.IsNaN(stats.Max) {
		fmt.Fprintf(w, "flux\tn/a (no formula for this shape)\n")
	} else {
		fmt.Fprintf(w, "peak flux\t%.6f T at gap %.2f mm\n", stats.Max, stats.PeakDistance)
		fmt.Fprintf(w, "masked\t%.1f%% of samples outside envelope\n", stats.Masked*100)
	}
	w.Flush()
}

func allNaN(vals []float64) bool {
	for _, v := range vals {
		if !math.IsNaN(v) {
			return false
		}
	}
	return len(vals) > 0
}
