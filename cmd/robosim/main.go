package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/robosim/internal/actuator"
	"github.com/san-kum/robosim/internal/body"
	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/export"
	"github.com/san-kum/robosim/internal/joint"
	"github.com/san-kum/robosim/internal/metrics"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/scene"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/telemetry"
	"github.com/san-kum/robosim/internal/viz"
)

var (
	configFile string
	engineName string
	dt         float64
	scenePath  string
	preset     string
	telemAddr  string
	watchScene bool
	duration   float64
	stats      bool
	traceBody  uint64
	traceFile  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "robosim",
		Short: "robotics simulation runtime",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless",
		RunE:  runScene,
	}
	addRunFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", 0, "stop after this many simulated seconds (0 = run forever)")
	runCmd.Flags().BoolVar(&stats, "stats", false, "print per-body motion and joint drift stats on exit")
	runCmd.Flags().Uint64Var(&traceBody, "trace", 0, "body index to trace (0 disables)")
	runCmd.Flags().StringVar(&traceFile, "trace-svg", "trace.svg", "output file for the traced trajectory")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run a scene with a live terminal view",
		RunE:  watchRun,
	}
	addRunFlags(watchCmd)

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scene presets",
		Run:   listScenes,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [scene.yaml]",
		Short: "check a scene file without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  validateScene,
	}

	rootCmd.AddCommand(runCmd, watchCmd, scenesCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "yaml config file")
	cmd.Flags().StringVar(&engineName, "engine", "",
		fmt.Sprintf("physics engine (%s)", strings.Join(physics.Names(), ", ")))
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep in seconds")
	cmd.Flags().StringVar(&scenePath, "scene", "", "scene file")
	cmd.Flags().StringVar(&preset, "preset", "", "built-in scene preset")
	cmd.Flags().StringVar(&telemAddr, "telemetry", "", "websocket telemetry listen address")
	cmd.Flags().BoolVar(&watchScene, "reload", false, "hot-reload the scene file on change")
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if engineName != "" {
		cfg.Engine = engineName
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if scenePath != "" {
		cfg.Scene = scenePath
		cfg.Preset = ""
	}
	if preset != "" {
		cfg.Preset = preset
		cfg.Scene = ""
	}
	if telemAddr != "" {
		cfg.Telemetry = telemAddr
	}
	if watchScene {
		cfg.Watch = true
	}
	return cfg, cfg.Validate()
}

// world bundles everything a running simulation needs.
type world struct {
	cfg      *config.Config
	engine   joint.Engine
	bodies   *body.Store
	motors   *actuator.Manager
	registry *joint.Registry
	runner   *sim.Runner
	scn      *scene.Scene
}

func buildWorld(cfg *config.Config) (*world, error) {
	engine, err := physics.New(cfg.Engine)
	if err != nil {
		return nil, err
	}
	physics.Set(engine)

	scn, err := resolveScene(cfg)
	if err != nil {
		return nil, err
	}
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	store := body.NewStore(engine)
	motors := actuator.NewManager()
	registry := joint.NewRegistry(engine, store, motors, sim.NewChangeCounter())
	motors.Bind(registry)

	applyGravity(engine, scn)
	if err := scn.Build(store, registry); err != nil {
		return nil, err
	}

	runner, err := sim.NewRunner(engine, registry, motors, cfg.Dt)
	if err != nil {
		return nil, err
	}

	return &world{
		cfg:      cfg,
		engine:   engine,
		bodies:   store,
		motors:   motors,
		registry: registry,
		runner:   runner,
		scn:      scn,
	}, nil
}

func resolveScene(cfg *config.Config) (*scene.Scene, error) {
	if cfg.Scene != "" {
		return scene.Load(cfg.Scene)
	}
	name := cfg.Preset
	if name == "" {
		name = "pendulum"
	}
	s, ok := scene.Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return s, nil
}

func applyGravity(engine joint.Engine, s *scene.Scene) {
	type gravityEngine interface {
		SetGravity(mgl64.Vec3)
	}
	if ge, ok := engine.(gravityEngine); ok {
		ge.SetGravity(mgl64.Vec3{s.Gravity[0], s.Gravity[1], s.Gravity[2]})
	}
}

// reloadFromFile rebuilds the world's scene content in place after the
// scene file changed: all joints and bodies go, then the new description
// is built against the same engine and registry.
func (w *world) reloadFromFile(path string) error {
	scn, err := scene.Load(path)
	if err != nil {
		return err
	}
	if err := scn.Validate(); err != nil {
		return err
	}

	w.registry.ClearAll(true)
	w.bodies.Clear()
	applyGravity(w.engine, scn)
	if err := scn.Build(w.bodies, w.registry); err != nil {
		return err
	}
	w.scn = scn
	return nil
}

func (w *world) startTelemetry(ctx context.Context) {
	if w.cfg.Telemetry == "" {
		return
	}
	srv := telemetry.NewServer(w.registry, time.Duration(w.cfg.Interval)*time.Millisecond)
	go srv.Run(ctx)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/telemetry", srv)
		httpSrv := &http.Server{Addr: w.cfg.Telemetry, Handler: mux}
		go func() {
			<-ctx.Done()
			httpSrv.Close()
		}()
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "telemetry: %v\n", err)
		}
	}()
}

func (w *world) startWatcher(ctx context.Context) error {
	if !w.cfg.Watch || w.cfg.Scene == "" {
		return nil
	}
	watcher, err := scene.NewWatcher(filepath.Dir(w.cfg.Scene))
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case path, ok := <-watcher.Events:
				if !ok {
					return
				}
				if err := w.reloadFromFile(path); err != nil {
					fmt.Fprintf(os.Stderr, "reload %s: %v\n", path, err)
				} else {
					fmt.Fprintf(os.Stderr, "reloaded %s (%d joints)\n", path, w.registry.Count())
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			}
		}
	}()
	return nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(duration*float64(time.Second)))
		defer cancel()
	}

	w.startTelemetry(ctx)
	if err := w.startWatcher(ctx); err != nil {
		return err
	}

	var collector *metrics.Collector
	if stats {
		collector = metrics.NewCollector()
		for _, idx := range w.bodies.Indices() {
			collector.Add(metrics.NewMotion(w.bodies, idx))
		}
		for _, jx := range w.registry.List() {
			if jx.BodyA != 0 && jx.BodyB != 0 {
				collector.Add(metrics.NewSeparation(w.bodies, jx.BodyA, jx.BodyB))
			}
		}
		w.runner.AddObserver(collector)
	}

	var tracer *export.Tracer
	if traceBody != 0 {
		tracer = export.NewTracer(w.bodies, traceBody, 0)
		w.runner.AddObserver(tracer)
	}

	fmt.Fprintf(os.Stderr, "running %q on %s: %d bodies, %d joints\n",
		w.scn.Name, w.engine.Name(), w.bodies.Len(), w.registry.Count())

	err = w.runner.Run(ctx)
	if err == context.Canceled || err == context.DeadlineExceeded {
		fmt.Fprintf(os.Stderr, "stopped after %d steps (t=%.2fs)\n", w.runner.Steps(), w.runner.Time())
		err = nil
	}
	if err != nil {
		return err
	}

	if collector != nil {
		printReport(collector.Report())
	}
	if tracer != nil {
		if werr := tracer.WriteSVG(traceFile, export.PlaneXY, 800, 600); werr != nil {
			return werr
		}
		fmt.Fprintf(os.Stderr, "trajectory written to %s\n", traceFile)
	}
	return nil
}

func printReport(report map[string]float64) {
	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%.4f\n", name, report[name])
	}
	tw.Flush()
}

func watchRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.startTelemetry(ctx)
	if err := w.startWatcher(ctx); err != nil {
		return err
	}
	go w.runner.Run(ctx)

	return viz.Run(w.registry)
}

func listScenes(cmd *cobra.Command, args []string) {
	names := make([]string, 0, len(scene.Presets))
	for name := range scene.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBODIES\tJOINTS")
	for _, name := range names {
		s := scene.Presets[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\n", name, len(s.Bodies), len(s.Joints))
	}
	tw.Flush()
}

func validateScene(cmd *cobra.Command, args []string) error {
	s, err := scene.Load(args[0])
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	fmt.Printf("%s: %d bodies, %d joints, ok\n", args[0], len(s.Bodies), len(s.Joints))
	return nil
}
