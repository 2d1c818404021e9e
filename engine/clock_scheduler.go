package engine

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/parameter"
)

// ClockScheduler drives the interaction engines on a fixed tick
// Each tick: dispatch queued events, then Update every system in priority order
// Tests call Step directly for deterministic time
type ClockScheduler struct {
	world   *World
	router  *event.Router
	systems []System
	clock   TimeProvider

	tickInterval time.Duration
	tickCount    atomic.Uint64
	lastRevision uint64

	// Latest graph snapshot for off-tick readers (terminal, metrics)
	frame atomic.Pointer[Frame]

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	logger *zap.Logger
}

// NewClockScheduler creates a scheduler bound to world
func NewClockScheduler(world *World, clock TimeProvider, tickInterval time.Duration) *ClockScheduler {
	cs := &ClockScheduler{
		world:        world,
		router:       event.NewRouter(world.Events),
		clock:        clock,
		tickInterval: tickInterval,
		lastRevision: math.MaxUint64,
		stopChan:     make(chan struct{}),
		logger:       world.Logger.Named("scheduler"),
	}
	cs.router.Register(cs)
	cs.frame.Store(NewFrame(0, world.Graph))
	return cs
}

// AddSystem registers a system for event routing and per-tick updates
// Must be called before Start
func (cs *ClockScheduler) AddSystem(s System) {
	cs.router.Register(s)
	cs.systems = append(cs.systems, s)
	sort.SliceStable(cs.systems, func(i, j int) bool {
		return cs.systems[i].Priority() < cs.systems[j].Priority()
	})
}

// Systems returns registered systems in update order
func (cs *ClockScheduler) Systems() []System {
	out := make([]System, len(cs.systems))
	copy(out, cs.systems)
	return out
}

// Router exposes the event router for synchronous dispatch in tests
func (cs *ClockScheduler) Router() *event.Router {
	return cs.router
}

// EventTypes implements event.Handler; the scheduler owns tuning updates
func (cs *ClockScheduler) EventTypes() []event.EventType {
	return []event.EventType{event.EventTuningUpdate}
}

// HandleEvent applies tuning at the tick boundary where it is dispatched
func (cs *ClockScheduler) HandleEvent(ev event.GameEvent) {
	if p, ok := ev.Payload.(*event.TuningPayload); ok {
		cs.world.SetTuning(p.Tuning)
		cs.logger.Info("tuning applied",
			zap.Duration("construction", p.Tuning.ConstructionCountdown),
			zap.Duration("destruction", p.Tuning.DestructionCountdown),
			zap.Float64("atom_radius", p.Tuning.AtomRadius),
		)
	}
}

// Step runs one tick with the given delta
func (cs *ClockScheduler) Step(dt time.Duration) {
	tick := cs.tickCount.Add(1)
	cs.world.tick = tick
	start := time.Now()

	cs.router.DispatchAll(tick)
	for _, s := range cs.systems {
		s.Update(dt)
	}

	cs.afterTick(tick)
	cs.world.Metrics.ObserveTick(time.Since(start), cs.world.Events.Dropped())
}

func (cs *ClockScheduler) afterTick(tick uint64) {
	g := cs.world.Graph
	rev := g.Revision()
	if rev == cs.lastRevision {
		return
	}
	cs.lastRevision = rev

	if cs.world.Debug {
		if err := g.Validate(); err != nil {
			cs.logger.Error("graph invariant violated", zap.Uint64("tick", tick), zap.Error(err))
		}
	}

	frame := NewFrame(tick, g)
	cs.frame.Store(frame)
	cs.world.Metrics.SetComponents(frame.Roots, len(g.FreeAtoms()), g.AtomCount())
}

// Frame returns the most recent graph snapshot
func (cs *ClockScheduler) Frame() *Frame {
	return cs.frame.Load()
}

// TickCount returns the number of ticks run
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Start runs the tick loop on a new goroutine
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		go func() {
			defer cs.wg.Done()
			cs.loop(cs.stopChan)
		}()
	}
}

// Stop halts the tick loop and waits for it to exit
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// Run blocks running ticks until ctx is done
func (cs *ClockScheduler) Run(ctx context.Context) error {
	cs.loop(ctx.Done())
	return ctx.Err()
}

func (cs *ClockScheduler) loop(done <-chan struct{}) {
	ticker := time.NewTicker(cs.tickInterval)
	defer ticker.Stop()

	last := cs.clock.Now()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			now := cs.clock.Now()
			dt := min(now.Sub(last), parameter.MaxTickDelta)
			last = now
			cs.Step(dt)
		}
	}
}
