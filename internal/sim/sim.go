package sim

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/l1jgo/arena/internal/combat"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/render"
	"github.com/l1jgo/arena/internal/system"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyStarted is returned by a second call to Run.
var ErrAlreadyStarted = errors.New("simulation already started")

// Kinds supplies the per-kind tables movement, engagement and rendering need.
type Kinds interface {
	system.KindRanges
	render.Symbols
}

// Config holds the run parameters.
type Config struct {
	Bounds       world.Bounds
	Duration     time.Duration
	RenderPeriod time.Duration
	TickRate     time.Duration
	EvictDead    bool
}

// Simulation drives one arena run: a movement worker on a ticker, a single
// combat resolver, and a render loop on the caller's goroutine.
type Simulation struct {
	cfg      Config
	registry *world.Registry
	kinds    Kinds
	dice     combat.Dice
	bus      *event.Bus
	sinks    []render.FrameSink
	log      *zap.Logger

	sched *combat.Scheduler
	state atomic.Int32
	ticks atomic.Uint64

	evicted atomic.Int64

	killMu sync.Mutex
	kills  map[string]int
}

// New builds a simulation over registry. A nil dice rolls math/rand; a nil
// bus gets a private one.
func New(cfg Config, registry *world.Registry, kinds Kinds, dice combat.Dice, bus *event.Bus, log *zap.Logger) *Simulation {
	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulation{
		cfg:      cfg,
		registry: registry,
		kinds:    kinds,
		dice:     dice,
		bus:      bus,
		log:      log,
		sched:    combat.NewScheduler(),
		kills:    make(map[string]int),
	}
}

// AddSink registers a frame consumer. Call before Run.
func (s *Simulation) AddSink(sink render.FrameSink) {
	s.sinks = append(s.sinks, sink)
}

func (s *Simulation) State() State { return State(s.state.Load()) }

// Scheduler exposes the fight queue.
func (s *Simulation) Scheduler() *combat.Scheduler { return s.sched }

// Run executes the simulation until the configured duration elapses or ctx
// is cancelled, then stops movement, lets the resolver finish every queued
// fight and returns the final report. Survivors are published to every sink.
func (s *Simulation) Run(ctx context.Context) (*Report, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrAlreadyStarted
	}
	event.Subscribe(s.bus, s.onKill)

	start := time.Now()
	deadline := start.Add(s.cfg.Duration)
	s.log.Info("simulation started",
		zap.Int("actors", s.registry.Len()),
		zap.Int("width", s.cfg.Bounds.Width),
		zap.Int("height", s.cfg.Bounds.Height),
		zap.Duration("duration", s.cfg.Duration),
		zap.Bool("evict_dead", s.cfg.EvictDead))

	runner := s.newRunner()
	s.log.Debug("systems registered", zap.Int("systems", runner.Len()))

	// Movement stops on its own context so that ctx cancellation and the
	// deadline take the same shutdown path.
	moveCtx, stopMove := context.WithCancel(context.Background())
	defer stopMove()

	movers, gctx := errgroup.WithContext(ctx)
	movers.Go(func() error { return s.moveLoop(moveCtx, runner) })

	var resolvers errgroup.Group
	resolver := combat.NewResolver(s.sched, s.registry, s.dice, s.bus, s.log)
	resolvers.Go(func() error { return resolver.Run(context.Background()) })

	interrupted := s.renderLoop(gctx, deadline)

	s.state.Store(int32(StateDraining))
	s.log.Info("draining", zap.Int("queued", s.sched.Len()), zap.Bool("interrupted", interrupted))
	stopMove()
	moveErr := movers.Wait()
	s.sched.Close()
	resErr := resolvers.Wait()
	s.state.Store(int32(StateStopped))

	report := s.report(start, interrupted)
	out := render.Survivors(report.Survivors)
	for _, sink := range s.sinks {
		sink.Publish(out)
	}
	s.log.Info("simulation stopped",
		zap.Int("survivors", len(report.Survivors)),
		zap.Int("dead", report.Dead),
		zap.Uint64("ticks", report.Ticks),
		zap.Duration("elapsed", report.Elapsed))

	if err := errors.Join(moveErr, resErr); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Simulation) newRunner() *coresys.Runner[*system.Tick] {
	r := coresys.NewRunner[*system.Tick]()
	r.Register(system.NewMovementSystem(s.cfg.Bounds, s.kinds))
	r.Register(system.NewEngageSystem(s.kinds, s.sched))
	if s.cfg.EvictDead {
		r.Register(system.NewCleanupSystem(s.registry, s.log))
	}
	return r
}

func (s *Simulation) moveLoop(ctx context.Context, runner *coresys.Runner[*system.Tick]) error {
	ticker := time.NewTicker(s.cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return nil
		}
		s.step(runner)
	}
}

// step runs one movement tick over a fresh snapshot.
func (s *Simulation) step(runner *coresys.Runner[*system.Tick]) *system.Tick {
	tick := &system.Tick{
		Seq:    s.ticks.Add(1),
		Actors: s.registry.Snapshot(),
	}
	runner.Tick(tick)
	if tick.Evicted > 0 {
		s.evicted.Add(int64(tick.Evicted))
	}
	event.Emit(s.bus, event.TickCompleted{
		Tick:     tick.Seq,
		Alive:    s.registry.CountAlive(),
		Enqueued: tick.Enqueued,
	})
	return tick
}

// renderLoop publishes a frame every RenderPeriod until deadline or ctx.
// It reports whether ctx ended the run.
func (s *Simulation) renderLoop(ctx context.Context, deadline time.Time) bool {
	period := time.NewTicker(s.cfg.RenderPeriod)
	defer period.Stop()
	end := time.NewTimer(time.Until(deadline))
	defer end.Stop()

	s.publishFrame(deadline)
	for {
		select {
		case <-ctx.Done():
			return true
		case <-end.C:
			return false
		case <-period.C:
			s.publishFrame(deadline)
		}
	}
}

func (s *Simulation) publishFrame(deadline time.Time) {
	if len(s.sinks) == 0 {
		return
	}
	left := int(time.Until(deadline).Round(time.Second) / time.Second)
	if left < 0 {
		left = 0
	}
	frame := render.Frame(s.registry.Snapshot(), s.cfg.Bounds, s.kinds, left)
	for _, sink := range s.sinks {
		sink.Publish(frame)
	}
}

func (s *Simulation) onKill(e event.ActorKilled) {
	s.killMu.Lock()
	s.kills[e.AttackerKind]++
	s.killMu.Unlock()
}

func (s *Simulation) report(start time.Time, interrupted bool) *Report {
	members := s.registry.Snapshot()
	survivors := make([]*world.Actor, 0, len(members))
	for _, a := range members {
		if a.Alive() {
			survivors = append(survivors, a)
		}
	}

	s.killMu.Lock()
	kills := make(map[string]int, len(s.kills))
	for k, v := range s.kills {
		kills[k] = v
	}
	s.killMu.Unlock()

	return &Report{
		Survivors:   survivors,
		Dead:        len(members) - len(survivors) + int(s.evicted.Load()),
		Kills:       kills,
		Ticks:       s.ticks.Load(),
		Elapsed:     time.Since(start),
		Interrupted: interrupted,
	}
}
