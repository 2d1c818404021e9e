package engine

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/render"
	"github.com/lixenwraith/molcraft/status"
)

// World is the shared context handed to every system
// All fields are owned by the tick goroutine
type World struct {
	Graph       *molecule.Graph
	Sink        render.Sink
	Events      *event.Queue
	Logger      *zap.Logger
	Metrics     *status.Collector
	Tracker     Tracker
	Inputs      *InputPoints
	Affordances *Affordances

	// Debug enables a graph invariant audit after every mutating tick
	Debug bool

	tuning    event.Tuning
	listeners []Listener
	tick      uint64
}

// WorldOption configures optional World collaborators
type WorldOption func(*World)

func WithSink(s render.Sink) WorldOption {
	return func(w *World) { w.Sink = s }
}

func WithLogger(l *zap.Logger) WorldOption {
	return func(w *World) { w.Logger = l }
}

func WithMetrics(c *status.Collector) WorldOption {
	return func(w *World) { w.Metrics = c }
}

func WithTracker(t Tracker) WorldOption {
	return func(w *World) { w.Tracker = t }
}

func WithTuning(t event.Tuning) WorldOption {
	return func(w *World) { w.tuning = t }
}

func WithDebug(enabled bool) WorldOption {
	return func(w *World) { w.Debug = enabled }
}

// NewWorld creates a world around graph; unset collaborators get inert defaults
func NewWorld(graph *molecule.Graph, opts ...WorldOption) *World {
	w := &World{
		Graph:       graph,
		Sink:        render.Nop{},
		Events:      event.NewQueue(),
		Logger:      zap.NewNop(),
		Tracker:     AlwaysTracked{},
		Inputs:      NewInputPoints(),
		Affordances: NewAffordances(),
		tuning:      DefaultTuning(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.Metrics == nil {
		w.Metrics = status.NewCollector()
	}
	return w
}

// Tuning returns the active countdown durations and radii
func (w *World) Tuning() event.Tuning {
	return w.tuning
}

// SetTuning replaces the active tuning; call only at a tick boundary
func (w *World) SetTuning(t event.Tuning) {
	w.tuning = t
}

// Tick returns the current tick number
func (w *World) Tick() uint64 {
	return w.tick
}

// AddListener subscribes l to process outcomes
func (w *World) AddListener(l Listener) {
	w.listeners = append(w.listeners, l)
}

// Notify delivers an outcome to every listener in subscription order
func (w *World) Notify(o Outcome) {
	o.Tick = w.tick
	for _, l := range w.listeners {
		l.OnOutcome(o)
	}
}
