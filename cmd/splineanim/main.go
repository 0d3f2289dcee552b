package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/splineanim/internal/anim"
	"github.com/san-kum/splineanim/internal/config"
	"github.com/san-kum/splineanim/internal/curve"
	"github.com/san-kum/splineanim/internal/pipeline"
	"github.com/san-kum/splineanim/internal/render"
	"github.com/san-kum/splineanim/internal/storage"
	"github.com/san-kum/splineanim/internal/system"
	"github.com/san-kum/splineanim/internal/video"
	"github.com/san-kum/splineanim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	method         string
	targets        []int
	rangeScale     float64
	framesPerIndex int
	fps            int
	outPath        string
	seed           int64
	workers        int
	theme          string

	quiet   bool
	formats []string
	loop    bool
	file    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "splineanim",
		Short:        "animate spline curves by moving their control points",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".splineanim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the animation to a video, gif or png sequence",
		RunE:  runRender,
	}
	problemFlags(renderCmd)
	renderCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "no progress display")

	figureCmd := &cobra.Command{
		Use:   "figure",
		Short: "save a static figure of the initial curve",
		RunE:  runFigure,
	}
	problemFlags(figureCmd)
	figureCmd.Flags().StringSliceVar(&formats, "formats", []string{"png"}, "figure formats ("+strings.Join(render.FigureFormats, ", ")+")")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "play the animation in the terminal",
		RunE:  runPreview,
	}
	problemFlags(previewCmd)
	previewCmd.Flags().BoolVar(&loop, "loop", true, "repeat after the repeat delay")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list rendered runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the animated values of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&file, "file", "f", "", "write to file instead of stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets [method]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list curve methods",
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range curve.NewRegistry().List() {
				fmt.Println(m)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with the default settings",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	initCmd.Flags().StringVar(&method, "method", "bsplines", "curve method for --preset")

	rootCmd.AddCommand(renderCmd, figureCmd, previewCmd, listCmd, plotCmd, exportCmd, presetsCmd, methodsCmd, initCmd)
	return rootCmd
}

func problemFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&method, "method", "bsplines", "curve method")
	f.IntSliceVar(&targets, "targets", []int{3}, "control point indices to animate, in order")
	f.Float64Var(&rangeScale, "scale", config.DefaultRangeScale, "range scale of the trajectory")
	f.IntVar(&framesPerIndex, "frames", config.DefaultFramesPerIndex, "frames per animated index (even, >= 4)")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	f.StringVarP(&outPath, "out", "o", config.DefaultOutput, "output path")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed for generated control points")
	f.IntVar(&workers, "workers", 0, "render workers (0 = one per cpu)")
	f.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(render.ThemeNames(), ", ")+")")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRenderer(p *problem) *render.Renderer {
	r := render.New(p.cfg.Curve, render.GetTheme(p.cfg.Output.Theme))
	r.Width = p.cfg.Output.Width
	r.Height = p.cfg.Output.Height
	r.DPI = p.cfg.Output.DPI
	return r
}

func runRender(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	p, err := newProblem(cmd)
	if err != nil {
		return err
	}
	d, err := p.driver(log)
	if err != nil {
		return err
	}

	out := p.cfg.Output
	enc, err := video.ForPath(out.Path, video.Options{
		FPS:         out.FPS,
		Codec:       out.Codec,
		CRF:         out.CRF,
		RepeatDelay: p.repeatDelay(),
		Logger:      log,
	})
	if err != nil {
		return err
	}

	pool := system.NewImagePool()
	renderer := newRenderer(p)
	renderer.Pool = pool

	n := system.Probe().Workers(out.Workers, uint64(out.Width*out.Height*4))
	job := pipeline.Job{
		Driver:   d,
		Renderer: renderer,
		Encoder:  enc,
		Pool:     pool,
		Workers:  n,
		Logger:   log,
	}

	ctx, stop := signalContext()
	defer stop()

	var result *pipeline.Result
	if quiet || verbose {
		result, err = pipeline.Run(ctx, job)
	} else {
		result, err = runWithProgress(ctx, job, fmt.Sprintf("rendering %s -> %s", p.cfg.Curve.Method, out.Path))
	}
	if err != nil {
		return err
	}

	runID, err := saveRun(p, d, result, n)
	if err != nil {
		return fmt.Errorf("output written but run record failed: %w", err)
	}

	fmt.Printf("wrote %s (%d frames, %dx%d) in %v\n", out.Path, result.Encoded, result.Width, result.Height, result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runWithProgress(ctx context.Context, job pipeline.Job, title string) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *pipeline.Result
	started := make(chan struct{})
	finished := make(chan struct{})
	work := func(report func(done, total int)) error {
		close(started)
		defer close(finished)
		job.Progress = report
		r, err := pipeline.Run(ctx, job)
		result = r
		return err
	}

	final, err := tea.NewProgram(viz.NewProgress(title, work, cancel)).Run()

	// The encoder must be closed or aborted before returning.
	cancel()
	select {
	case <-started:
		<-finished
	default:
	}

	if err != nil {
		return nil, err
	}
	if err := final.(viz.Progress).Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func saveRun(p *problem, d *anim.Driver, result *pipeline.Result, workers int) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, f := range result.Frames {
		lo = min(lo, f.Value)
		hi = max(hi, f.Value)
	}

	cfg := p.cfg
	meta := storage.RunMetadata{
		Method:         cfg.Curve.Method,
		Seed:           cfg.Random.Seed,
		NumCP:          cfg.Curve.NumCP,
		Order:          cfg.Curve.EffectiveOrder(),
		Samples:        cfg.Curve.Samples,
		Targets:        cfg.Animation.Targets,
		RangeScale:     cfg.Animation.RangeScale,
		FramesPerIndex: cfg.Animation.FramesPerIndex,
		TotalFrames:    d.Total(),
		FPS:            cfg.Output.FPS,
		Output:         cfg.Output.Path,
		Initial:        p.initial,
		Bounds:         d.Bounds(),
		Metrics: map[string]float64{
			"elapsed_s": result.Elapsed.Seconds(),
			"workers":   float64(workers),
			"value_min": lo,
			"value_max": hi,
		},
	}
	return st.Save(meta, storage.RecordFrames(result.Frames))
}

func runFigure(cmd *cobra.Command, args []string) error {
	p, err := newProblem(cmd)
	if err != nil {
		return err
	}

	samples, err := p.model.Evaluate(p.initial)
	if err != nil {
		return fmt.Errorf("%w: %w", anim.ErrEvaluationFailure, err)
	}
	f := anim.Frame{
		Index:         -1,
		Segment:       -1,
		Active:        -1,
		Samples:       samples,
		ControlPoints: p.initial,
		Bounds:        anim.FigureBounds(p.initial),
	}

	base := p.cfg.Curve.Method
	if cmd.Flags().Changed("out") {
		base = strings.TrimSuffix(outPath, filepath.Ext(outPath))
	}

	r := newRenderer(p)
	for _, ext := range formats {
		path := base + "." + strings.TrimPrefix(ext, ".")
		if err := r.SaveFigure(f, path); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", path)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	p, err := newProblem(cmd)
	if err != nil {
		return err
	}
	// logs would tear the alt screen
	d, err := p.driver(zap.NewNop())
	if err != nil {
		return err
	}

	m := viz.NewPreview(d, viz.PreviewOptions{
		Title:       p.cfg.Curve.Method,
		ControlX:    p.cfg.Curve.ControlX(),
		FPS:         p.cfg.Output.FPS,
		RepeatDelay: p.repeatDelay(),
		Theme:       p.cfg.Output.Theme,
		Loop:        loop,
	})
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	return final.(viz.Preview).Err()
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
	fmt.Fprintln(w, "ID\tMETHOD\tTIME\tFRAMES\tTARGETS\tFPS\tOUTPUT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\t%d\t%s\n",
			run.ID,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TotalFrames,
			run.Targets,
			run.FPS,
			run.Output,
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
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("method: %s\n", meta.Method)
	fmt.Printf("frames: %d\n", len(frames))
	fmt.Printf("y range: [%.3f, %.3f]\n\n", meta.Bounds.Min, meta.Bounds.Max)

	graph := asciigraph.Plot(storage.Values(frames),
		asciigraph.Height(15),
		asciigraph.Width(70),
		asciigraph.Caption(fmt.Sprintf("animated values, targets %v", meta.Targets)),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if file != "" {
		if err := st.ExportFile(file, args[0]); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", file)
		return nil
	}
	return st.Export(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	methods := curve.NewRegistry().List()
	if len(args) > 0 {
		methods = args
	}
	found := false
	for _, m := range methods {
		presets := config.ListPresets(m)
		if len(presets) == 0 {
			continue
		}
		sort.Strings(presets)
		found = true
		fmt.Printf("presets for %s:\n", m)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	if !found {
		fmt.Printf("no presets for: %s\n", strings.Join(methods, ", "))
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(method, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, method, config.ListPresets(method))
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
