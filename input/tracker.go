package input

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/catalog"
	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/parameter"
)

// Hand is the tracked state of one channel
type Hand struct {
	Position r3.Vec
	Alive    bool
	Gate     event.ProcessKind // ProcessNone while the extended gesture is released
	Grab     bool
}

type gateChange struct {
	ch   event.Channel
	kind event.ProcessKind
	open bool
}

// Tracker simulates the hand tracking collaborator
// Intents arrive from the terminal goroutine; Update runs on the tick goroutine and
// turns hand state into inbound events consumed on the next tick
type Tracker struct {
	world   *engine.World
	logger  *zap.Logger
	spawner *catalog.Spawner
	zone    r3.Vec

	mu     sync.Mutex
	hands  [len(event.Channels) + 1]Hand
	focus  event.Channel
	gates  []gateChange
	spawns []string

	// Tick goroutine only
	prox     Proximity
	grabbed  molecule.AtomID
	grabFrom r3.Vec
}

// TrackerOption configures optional tracker collaborators
type TrackerOption func(*Tracker)

// WithSpawner enables spawn intents
func WithSpawner(s *catalog.Spawner) TrackerOption {
	return func(t *Tracker) { t.spawner = s }
}

// WithDisposalZone sets the centre of the disposal area
func WithDisposalZone(center r3.Vec) TrackerOption {
	return func(t *Tracker) { t.zone = center }
}

// NewTracker creates a tracker with both hands alive at rest positions
func NewTracker(world *engine.World, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		world:  world,
		logger: world.Logger.Named("tracker"),
		focus:  event.ChannelRight,
		zone:   r3.Vec{Y: -8},
	}
	t.hands[event.ChannelLeft] = Hand{Position: r3.Vec{X: -4}, Alive: true}
	t.hands[event.ChannelRight] = Hand{Position: r3.Vec{X: 4}, Alive: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns system's name
func (t *Tracker) Name() string {
	return "tracker"
}

// Priority returns the system's priority, hands are published before any engine runs
func (t *Tracker) Priority() int {
	return parameter.PriorityTracker
}

// EventTypes returns nil, the tracker only produces events
func (t *Tracker) EventTypes() []event.EventType {
	return nil
}

// HandleEvent is a no-op
func (t *Tracker) HandleEvent(event.GameEvent) {}

// Alive implements engine.Tracker
func (t *Tracker) Alive(ch event.Channel) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hands[ch].Alive
}

// GateActive implements engine.Tracker; a lost hand never holds the gate
func (t *Tracker) GateActive(ch event.Channel) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.hands[ch]
	return h.Alive && h.Gate != event.ProcessNone
}

// Hand returns a copy of the state of ch
func (t *Tracker) Hand(ch event.Channel) Hand {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hands[ch]
}

// Focus returns the hand driven by intents without an explicit channel
func (t *Tracker) Focus() event.Channel {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focus
}

// Apply executes a hand intent; safe from any goroutine
func (t *Tracker) Apply(in Intent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := in.Channel
	if ch == event.ChannelNone {
		ch = t.focus
	}
	h := &t.hands[ch]

	switch in.Type {
	case IntentMove:
		h.Position = r3.Add(h.Position, in.Delta)

	case IntentFocus:
		if t.focus == event.ChannelLeft {
			t.focus = event.ChannelRight
		} else {
			t.focus = event.ChannelLeft
		}

	case IntentGate:
		switch h.Gate {
		case event.ProcessNone:
			h.Gate = in.Kind
			t.gates = append(t.gates, gateChange{ch: ch, kind: in.Kind, open: true})
		case in.Kind:
			h.Gate = event.ProcessNone
			t.gates = append(t.gates, gateChange{ch: ch, kind: in.Kind, open: false})
		}

	case IntentToggleAlive:
		h.Alive = !h.Alive

	case IntentGrab:
		h.Grab = !h.Grab

	case IntentSpawn:
		t.spawns = append(t.spawns, in.Symbol)
	}
}

// Update publishes fingertip positions, gate transitions and proximity changes
func (t *Tracker) Update(dt time.Duration) {
	t.mu.Lock()
	hands := t.hands
	focus := t.focus
	gates := t.gates
	spawns := t.spawns
	t.gates, t.spawns = nil, nil
	t.mu.Unlock()

	q := t.world.Events
	for _, ch := range event.Channels {
		if hands[ch].Alive {
			event.EmitInputPoint(q, ch, hands[ch].Position)
		}
	}

	for _, g := range gates {
		if !hands[g.ch].Alive {
			continue
		}
		if g.open {
			event.EmitGestureStart(q, g.ch, g.kind)
		} else {
			event.EmitGestureEnd(q, g.ch, g.kind)
		}
	}

	hand := hands[focus]
	for _, symbol := range spawns {
		t.spawn(symbol, hand.Position)
	}

	if !hand.Alive {
		t.grabbed = ""
		t.publish(Proximity{})
		return
	}

	t.drag(hand)
	t.publish(Detect(t.world.Graph, hand.Position, t.zone, t.world.Tuning()))
}

// drag moves the grabbed component with the hand while transforms are allowed
func (t *Tracker) drag(hand Hand) {
	if !hand.Grab || !t.world.Affordances.Enabled(engine.AffordanceTransform) {
		t.grabbed = ""
		return
	}
	if t.grabbed == "" {
		if t.prox.Atom == "" {
			return
		}
		t.grabbed = t.prox.Atom
		t.grabFrom = hand.Position
		return
	}

	delta := r3.Sub(hand.Position, t.grabFrom)
	if delta == (r3.Vec{}) {
		return
	}
	if err := t.world.Graph.MoveComponent(t.grabbed, delta); err != nil {
		t.logger.Debug("grab released", zap.String("atom", string(t.grabbed)), zap.Error(err))
		t.grabbed = ""
		return
	}
	t.grabFrom = hand.Position
}

func (t *Tracker) spawn(symbol string, pos r3.Vec) {
	if t.spawner == nil {
		return
	}
	if _, err := t.spawner.Spawn(symbol, pos); err != nil {
		t.logger.Warn("spawn failed", zap.String("symbol", symbol), zap.Error(err))
	}
}

// publish emits leave-then-enter pairs for every proximity that changed
func (t *Tracker) publish(next Proximity) {
	q := t.world.Events
	prev := t.prox
	t.prox = next

	if prev.Atom != next.Atom {
		if prev.Atom != "" {
			event.EmitAtomLeave(q)
		}
		if next.Atom != "" {
			event.EmitAtomEnter(q, next.Atom)
		}
	}
	if prev.Snap != next.Snap {
		if prev.Snap != "" {
			event.EmitSnapLeave(q)
		}
		if next.Snap != "" {
			event.EmitSnapEnter(q, next.Snap)
		}
	}
	if prev.Bond != next.Bond {
		if prev.Bond != "" {
			event.EmitBondLeave(q)
		}
		if next.Bond != "" {
			event.EmitBondEnter(q, next.Bond)
		}
	}
	if prev.Disposal != next.Disposal {
		if prev.Disposal != "" {
			event.EmitDisposalLeave(q)
		}
		if next.Disposal != "" {
			event.EmitDisposalEnter(q, next.Disposal)
		}
	}
}

// Proximity returns what the focused fingertip was near on the last tick
func (t *Tracker) Proximity() Proximity {
	return t.prox
}
