package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/observer"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/render"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/sim"
	"github.com/l1jgo/arena/internal/spectator"
	"github.com/l1jgo/arena/internal/system"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(cfg *config.Config) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Arena  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mArena:\033[0m %dx%d \033[90m(%s)\033[0m\n\n",
		cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.Duration)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg)

	// 3. Data tables and scripts
	printSection("Data")
	kinds, err := loadKinds(cfg.Data.KindTable, log)
	if err != nil {
		return err
	}
	printStat("Kinds", kinds.Count())

	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	printOK("Combat dice script loaded")
	fmt.Println()

	// 4. Observers and population
	printSection("Population")
	console := observer.NewConsole(os.Stdout)
	fileObs, err := observer.NewFileObserver(cfg.Storage.EventLog, log)
	if err != nil {
		return fmt.Errorf("event log: %w", err)
	}
	defer fileObs.Close()
	printOK("Event log: " + fileObs.Path())
	bounds := world.Bounds{Width: cfg.Arena.Width, Height: cfg.Arena.Height}
	listeners := []world.Listener{fileObs, observer.NewConsoleObserver(console)}
	if cfg.Logging.Format == "json" {
		listeners = append(listeners, observer.NewLogObserver(log))
	}
	factory := world.NewFactory(bounds, listeners...)
	registry := world.NewRegistry()

	if cfg.Storage.LoadPath != "" {
		loaded, skipped, err := persist.LoadFile(cfg.Storage.LoadPath, registry, factory)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}
		if skipped > 0 {
			log.Warn("roster lines skipped", zap.String("path", cfg.Storage.LoadPath), zap.Int("skipped", skipped))
		}
		printStat("Loaded from "+cfg.Storage.LoadPath, loaded)
	} else {
		if err := world.SpawnRandom(registry, factory, cfg.Arena.InitialPopulation, nil); err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
		printStat("Spawned", registry.Len())
	}
	console.Publish(render.Roster(registry.Snapshot()))

	if d := cfg.Arena.OpeningBattle; d > 0 {
		if system.Battle(registry, d) == 0 {
			console.Println("No one died in this round.")
		} else {
			console.Println(fmt.Sprintf("Battle ended. These Legends survived: %d", registry.Len()))
		}
	}
	fmt.Println()

	// 5. Journal
	bus := event.NewBus()
	printSection("Journal")
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 30*time.Second)
	journal, err := persist.OpenJournal(openCtx, cfg.Journal, log)
	cancelOpen()
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	var recorder *persist.Recorder
	if journal != nil {
		defer journal.Close()
		recorder, err = persist.StartRecorder(context.Background(), journal, persist.RunInfo{
			StartedAt:  time.Now(),
			Width:      bounds.Width,
			Height:     bounds.Height,
			Population: registry.Len(),
		}, bus, log)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		printOK(fmt.Sprintf("%s journal ready (run %d)", cfg.Journal.Driver, recorder.RunID()))
	} else {
		printOK("Journal disabled")
	}
	fmt.Println()

	// 6. Simulation
	s := sim.New(sim.Config{
		Bounds:       bounds,
		Duration:     cfg.Arena.Duration,
		RenderPeriod: cfg.Arena.RenderPeriod,
		TickRate:     cfg.Arena.TickRate,
		EvictDead:    cfg.Arena.EvictDead,
	}, registry, kinds, engine, bus, log)
	s.AddSink(console)

	var hub *spectator.Hub
	if cfg.Spectator.BindAddress != "" {
		hub = spectator.NewHub(log)
		if err := hub.Serve(cfg.Spectator.BindAddress); err != nil {
			return fmt.Errorf("spectator: %w", err)
		}
		s.AddSink(hub)
		printReady("Spectator feed on ws://" + hub.Addr() + "/ws")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printReady(fmt.Sprintf("Running for %s", cfg.Arena.Duration))
	fmt.Println()

	report, runErr := s.Run(ctx)
	if report != nil {
		logReport(log, report)
	}

	// 7. Shutdown: spectators, roster, journal
	if hub != nil {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := hub.Shutdown(shutCtx); err != nil {
			log.Warn("spectator shutdown", zap.Error(err))
		}
		cancel()
	}

	var saveErr error
	if cfg.Storage.SavePath != "" {
		n, err := persist.SaveFile(cfg.Storage.SavePath, registry)
		if err != nil {
			saveErr = fmt.Errorf("save roster: %w", err)
		} else {
			log.Info("roster saved", zap.String("path", cfg.Storage.SavePath), zap.Int("actors", n))
		}
	}

	var journalErr error
	if recorder != nil && report != nil {
		finCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		written, err := recorder.Finish(finCtx, survivorRows(report.Survivors))
		cancel()
		if err != nil {
			journalErr = fmt.Errorf("journal: %w", err)
		} else {
			log.Info("journal closed", zap.Int64("run", recorder.RunID()), zap.Int("kills", written))
		}
	}

	return errors.Join(runErr, saveErr, journalErr)
}

func loadKinds(path string, log *zap.Logger) (*data.KindTable, error) {
	if path == "" {
		return data.DefaultKindTable(), nil
	}
	kinds, err := data.LoadKindTable(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("kind table missing, using defaults", zap.String("path", path))
		return data.DefaultKindTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("kind table: %w", err)
	}
	return kinds, nil
}

func survivorRows(actors []*world.Actor) []persist.SurvivorRow {
	rows := make([]persist.SurvivorRow, 0, len(actors))
	for _, a := range actors {
		p := a.Position()
		rows = append(rows, persist.SurvivorRow{Name: a.Name(), Kind: a.Kind().String(), X: p.X, Y: p.Y})
	}
	return rows
}

func logReport(log *zap.Logger, r *sim.Report) {
	fields := []zap.Field{
		zap.Int("survivors", len(r.Survivors)),
		zap.Int("dead", r.Dead),
		zap.Uint64("ticks", r.Ticks),
		zap.Bool("interrupted", r.Interrupted),
	}
	for _, k := range r.KillKinds() {
		fields = append(fields, zap.Int("kills_"+strings.ToLower(k), r.Kills[k]))
	}
	log.Info("battle over", fields...)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
