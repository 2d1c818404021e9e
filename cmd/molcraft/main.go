package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/audio"
	"github.com/lixenwraith/molcraft/catalog"
	"github.com/lixenwraith/molcraft/config"
	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/input"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/render"
	"github.com/lixenwraith/molcraft/status"
	"github.com/lixenwraith/molcraft/system"
	"github.com/lixenwraith/molcraft/terminal"
)

var (
	configFlag = flag.String("config", "", "Path to TOML configuration; watched for live tuning")
	atomsFlag  = flag.String("atoms", "H,O,H", "Comma-separated element symbols spawned at start")
	debugFlag  = flag.Bool("debug", false, "Audit graph invariants after every mutation")
)

// disposalZone is the centre of the disposal area below the workspace
var disposalZone = r3.Vec{Y: -6}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "molcraft: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *debugFlag {
		cfg.Debug = true
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	collector := status.NewCollector()
	stopMetrics := serveMetrics(cfg.Metrics.Listen, collector, logger)
	defer stopMetrics()

	table, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load periodic table: %w", err)
	}
	graph := molecule.NewGraph()
	spawner := catalog.NewSpawner(table, graph, logger)
	symbols := parseSymbols(*atomsFlag)
	for i, pos := range layout(len(symbols)) {
		if _, err := spawner.Spawn(symbols[i], pos); err != nil {
			return err
		}
	}

	store := render.NewStore()
	world := engine.NewWorld(graph,
		engine.WithSink(store),
		engine.WithLogger(logger),
		engine.WithMetrics(collector),
		engine.WithTuning(cfg.Tuning()),
		engine.WithDebug(cfg.Debug),
	)
	tracker := input.NewTracker(world, input.WithSpawner(spawner), input.WithDisposalZone(disposalZone))
	world.Tracker = tracker

	cs := engine.NewClockScheduler(world, engine.NewMonotonicTimeProvider(), cfg.Timing.TickInterval)
	cs.AddSystem(tracker)
	system.NewPipeline(world).Register(cs)

	var player *audio.Player
	if cfg.Audio.Enabled {
		player = audio.NewPlayer(cfg.Audio.Volume, logger)
		if err := player.Initialize(); err != nil {
			// Non-fatal, runs without sound
			logger.Warn("audio unavailable", zap.Error(err))
			player = nil
		} else {
			world.AddListener(player)
			defer player.Close()
		}
	}

	if *configFlag != "" {
		watcher, err := config.NewWatcher(*configFlag, cfg, logger, func(next config.Config) {
			event.EmitTuning(world.Events, next.Tuning())
		})
		if err != nil {
			return err
		}
		watcher.Start()
		defer watcher.Stop()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// Panic recovery: the deferred Fini below restores the terminal first
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "molcraft crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	deps := terminal.Deps{
		Tracker:    tracker,
		Frames:     cs,
		Visual:     store,
		Board:      collector.Board(),
		Events:     world.Events,
		Logger:     logger,
		Zone:       disposalZone,
		ZoneRadius: cfg.Proximity.DisposalRadius,
	}
	if player != nil {
		deps.Muter = player
	}
	loop := terminal.NewLoop(screen, terminal.NewRenderer(screen, cfg.Terminal.Scale, cfg.Terminal.Color), deps)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("molcraft started",
		zap.Int("atoms", graph.AtomCount()),
		zap.Duration("tick", cfg.Timing.TickInterval),
		zap.Bool("debug", cfg.Debug),
	)
	cs.Start()
	defer cs.Stop()

	return loop.Run(ctx)
}

// serveMetrics exposes the collector over HTTP when listen is set
func serveMetrics(listen string, c *status.Collector, logger *zap.Logger) func() {
	if listen == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	logger.Info("metrics listening", zap.String("addr", listen))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// parseSymbols splits a comma-separated symbol list, dropping blanks
func parseSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// layout spaces n atoms along a row centred on the origin
func layout(n int) []r3.Vec {
	const spacing = 3.0
	out := make([]r3.Vec, n)
	start := -spacing * float64(n-1) / 2
	for i := range out {
		out[i] = r3.Vec{X: start + spacing*float64(i), Y: 3}
	}
	return out
}
