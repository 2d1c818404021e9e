package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/catalog"
	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
)

func newWorld(t *testing.T) *engine.World {
	t.Helper()
	g := molecule.NewGraph()
	_, err := g.AddAtom(molecule.AtomSpec{ID: "H1", Element: "H", Position: r3.Vec{Y: 5}, SlotOffsets: []r3.Vec{{X: 0.5}}})
	require.NoError(t, err)
	_, err = g.AddAtom(molecule.AtomSpec{ID: "O1", Element: "O", Position: r3.Vec{X: 3, Y: 5}, SlotOffsets: []r3.Vec{{X: -0.5}, {X: 0.5}}})
	require.NoError(t, err)
	return engine.NewWorld(g, engine.WithLogger(zap.NewNop()))
}

func types(evs []event.GameEvent) []event.EventType {
	var out []event.EventType
	for _, ev := range evs {
		out = append(out, ev.Type)
	}
	return out
}

// moveTo drives ch to an absolute position
func moveTo(tr *Tracker, ch event.Channel, pos r3.Vec) {
	tr.Apply(Intent{Type: IntentMove, Channel: ch, Delta: r3.Sub(pos, tr.Hand(ch).Position)})
}

func TestDetect(t *testing.T) {
	w := newWorld(t)
	tuning := w.Tuning()
	far := r3.Vec{Y: -100}

	prox := Detect(w.Graph, r3.Vec{X: 0.3, Y: 5}, far, tuning)
	assert.Equal(t, molecule.AtomID("H1"), prox.Atom)
	assert.Equal(t, molecule.AtomID("H1"), prox.Snap)
	assert.Empty(t, prox.Bond)
	assert.Empty(t, prox.Disposal)

	prox = Detect(w.Graph, r3.Vec{X: 1.9, Y: 5}, far, tuning)
	assert.Equal(t, molecule.AtomID("O1"), prox.Atom, "nearest atom wins")
	assert.Empty(t, prox.Snap)

	prox = Detect(w.Graph, r3.Vec{X: 1.5, Y: 5}, far, tuning)
	assert.Equal(t, molecule.AtomID("H1"), prox.Atom, "ties keep graph order")

	prox = Detect(w.Graph, r3.Vec{}, r3.Vec{X: 3, Y: 4}, tuning)
	assert.Empty(t, prox.Atom)
	assert.Equal(t, molecule.AtomID("O1"), prox.Disposal)

	bond, err := w.Graph.Connect(molecule.SlotRef{Atom: "H1", Slot: "s0"}, molecule.SlotRef{Atom: "O1", Slot: "s0"})
	require.NoError(t, err)
	prox = Detect(w.Graph, bond.Midpoint, far, tuning)
	assert.Equal(t, bond.ID, prox.Bond)
}

func TestTrackerPublishesTransitions(t *testing.T) {
	w := newWorld(t)
	tr := NewTracker(w)

	tr.Update(0)
	assert.Equal(t, []event.EventType{event.EventInputPointUpdate, event.EventInputPointUpdate}, types(w.Events.Consume()))

	moveTo(tr, event.ChannelRight, r3.Vec{X: 0.2, Y: 5})
	tr.Update(0)
	evs := w.Events.Consume()
	require.Equal(t, []event.EventType{
		event.EventInputPointUpdate,
		event.EventInputPointUpdate,
		event.EventAtomProximityEnter,
		event.EventSnapProximityEnter,
	}, types(evs))
	assert.Equal(t, molecule.AtomID("H1"), evs[2].Payload.(*event.AtomPayload).Atom)
	ip := evs[1].Payload.(*event.InputPointPayload)
	assert.Equal(t, event.ChannelRight, ip.Channel)
	assert.InDelta(t, 0.2, ip.Position.X, 1e-9)
	assert.InDelta(t, 5.0, ip.Position.Y, 1e-9)

	tr.Update(0)
	assert.Len(t, w.Events.Consume(), 2, "unchanged proximity emits nothing")

	moveTo(tr, event.ChannelRight, r3.Vec{X: 2.5, Y: 5})
	tr.Update(0)
	assert.Equal(t, []event.EventType{
		event.EventInputPointUpdate,
		event.EventInputPointUpdate,
		event.EventAtomProximityLeave,
		event.EventAtomProximityEnter,
		event.EventSnapProximityLeave,
		event.EventSnapProximityEnter,
	}, types(w.Events.Consume()))
}

func TestTrackerGate(t *testing.T) {
	w := newWorld(t)
	tr := NewTracker(w)

	tr.Apply(Intent{Type: IntentGate, Kind: event.ProcessConstruction})
	assert.True(t, tr.GateActive(event.ChannelRight))
	assert.False(t, tr.GateActive(event.ChannelLeft))

	tr.Apply(Intent{Type: IntentGate, Kind: event.ProcessDestruction})
	assert.Equal(t, event.ProcessConstruction, tr.Hand(event.ChannelRight).Gate, "other kind ignored while open")

	tr.Apply(Intent{Type: IntentGate, Kind: event.ProcessConstruction})
	assert.False(t, tr.GateActive(event.ChannelRight))

	tr.Update(0)
	evs := w.Events.Consume()
	require.Len(t, evs, 4)
	start := evs[2].Payload.(*event.GesturePayload)
	assert.Equal(t, event.EventExtendedGestureStart, evs[2].Type)
	assert.Equal(t, event.ChannelRight, start.Channel)
	assert.Equal(t, event.ProcessConstruction, start.Kind)
	assert.Equal(t, event.EventExtendedGestureEnd, evs[3].Type)
}

func TestTrackerLiveness(t *testing.T) {
	w := newWorld(t)
	tr := NewTracker(w)

	moveTo(tr, event.ChannelRight, r3.Vec{Y: 5})
	tr.Apply(Intent{Type: IntentGate, Kind: event.ProcessConstruction})
	tr.Update(0)
	w.Events.Consume()

	tr.Apply(Intent{Type: IntentToggleAlive})
	assert.False(t, tr.Alive(event.ChannelRight))
	assert.False(t, tr.GateActive(event.ChannelRight), "lost hand holds no gate")
	assert.True(t, tr.Alive(event.ChannelLeft))

	tr.Update(0)
	assert.Equal(t, []event.EventType{
		event.EventInputPointUpdate,
		event.EventAtomProximityLeave,
		event.EventSnapProximityLeave,
	}, types(w.Events.Consume()))
}

func TestTrackerFocus(t *testing.T) {
	tr := NewTracker(newWorld(t))
	assert.Equal(t, event.ChannelRight, tr.Focus())

	tr.Apply(Intent{Type: IntentFocus})
	assert.Equal(t, event.ChannelLeft, tr.Focus())

	before := tr.Hand(event.ChannelLeft).Position
	tr.Apply(Intent{Type: IntentMove, Delta: r3.Vec{X: Step}})
	assert.Equal(t, before.X+Step, tr.Hand(event.ChannelLeft).Position.X)
}

func TestTrackerGrabMovesComponent(t *testing.T) {
	w := newWorld(t)
	tr := NewTracker(w)

	moveTo(tr, event.ChannelRight, r3.Vec{Y: 5})
	tr.Update(time.Millisecond)
	tr.Apply(Intent{Type: IntentGrab})
	tr.Update(time.Millisecond)

	tr.Apply(Intent{Type: IntentMove, Delta: r3.Vec{X: -1}})
	tr.Update(time.Millisecond)
	h1, err := w.Graph.Atom("H1")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: -1, Y: 5}, h1.Position)

	w.Affordances.Suspend(engine.AffordanceTransform)
	tr.Apply(Intent{Type: IntentMove, Delta: r3.Vec{X: -1}})
	tr.Update(time.Millisecond)
	assert.Equal(t, r3.Vec{X: -1, Y: 5}, h1.Position, "suspended transform does not move")
}

func TestTrackerDisposalZone(t *testing.T) {
	w := newWorld(t)
	tr := NewTracker(w, WithDisposalZone(r3.Vec{Y: 8}))

	tr.Update(0)
	w.Events.Consume()

	require.NoError(t, w.Graph.MoveComponent("H1", r3.Vec{Y: 2}))
	tr.Update(0)
	evs := w.Events.Consume()
	require.Equal(t, event.EventDisposalEnter, evs[len(evs)-1].Type)
	assert.Equal(t, molecule.AtomID("H1"), evs[len(evs)-1].Payload.(*event.AtomPayload).Atom)
}

func TestTrackerSpawn(t *testing.T) {
	table, err := catalog.Default()
	require.NoError(t, err)
	w := newWorld(t)
	tr := NewTracker(w, WithSpawner(catalog.NewSpawner(table, w.Graph, zap.NewNop())))

	moveTo(tr, event.ChannelRight, r3.Vec{X: 10})
	tr.Apply(Intent{Type: IntentSpawn, Symbol: "H"})
	tr.Apply(Intent{Type: IntentSpawn, Symbol: "Xx"})
	tr.Update(0)

	h2, err := w.Graph.Atom("H2")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 10}, h2.Position)
	assert.Equal(t, 3, w.Graph.AtomCount())
}

func TestKeyTableLookup(t *testing.T) {
	kt := DefaultKeyTable()

	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Intent
		ok   bool
	}{
		{"construct", tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), Intent{Type: IntentGate, Kind: event.ProcessConstruction}, true},
		{"destruct", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), Intent{Type: IntentGate, Kind: event.ProcessDestruction}, true},
		{"spawn", tcell.NewEventKey(tcell.KeyRune, 'O', tcell.ModNone), Intent{Type: IntentSpawn, Symbol: "O"}, true},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), Intent{Type: IntentMove, Delta: r3.Vec{X: -Step}}, true},
		{"quit", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), Intent{Type: IntentQuit}, true},
		{"reset", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Intent{Type: IntentReset}, true},
		{"unbound", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), Intent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := kt.Lookup(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, Intent{Type: IntentSpawn}.Hand())
	assert.False(t, Intent{Type: IntentReset}.Hand())
}
