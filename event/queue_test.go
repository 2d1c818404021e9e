package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/molcraft/parameter"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	EmitAtomEnter(q, "H1")
	EmitAtomLeave(q)
	EmitGestureStart(q, ChannelLeft, ProcessConstruction)

	assert.Equal(t, 3, q.Len())
	events := q.Consume()
	require.Len(t, events, 3)
	assert.Equal(t, EventAtomProximityEnter, events[0].Type)
	assert.Equal(t, "H1", string(events[0].Payload.(*AtomPayload).Atom))
	assert.Equal(t, EventAtomProximityLeave, events[1].Type)
	assert.Equal(t, ProcessConstruction, events[2].Payload.(*GesturePayload).Kind)

	assert.Nil(t, q.Consume())
	assert.Zero(t, q.Len())
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(GameEvent{Type: EventInputPointUpdate, Tick: uint64(i)})
	}

	events := q.Consume()
	require.Len(t, events, parameter.EventQueueSize)
	assert.Equal(t, uint64(10), events[0].Tick)
	assert.Equal(t, uint64(total-1), events[len(events)-1].Tick)
	assert.Equal(t, uint64(10), q.Dropped())
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	const producers, each = 4, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				EmitAtomLeave(q)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, q.Consume(), producers*each)
}

type recordingHandler struct {
	types []EventType
	seen  []GameEvent
}

func (h *recordingHandler) HandleEvent(ev GameEvent) { h.seen = append(h.seen, ev) }
func (h *recordingHandler) EventTypes() []EventType { return h.types }

func TestRouterDispatch(t *testing.T) {
	q := NewQueue()
	r := NewRouter(q)
	atoms := &recordingHandler{types: []EventType{EventAtomProximityEnter, EventAtomProximityLeave}}
	bonds := &recordingHandler{types: []EventType{EventBondProximityEnter}}
	r.Register(atoms)
	r.Register(bonds)

	assert.True(t, r.HasHandlers(EventAtomProximityLeave))
	assert.Equal(t, 0, r.HandlerCount(EventDisposalEnter))

	EmitAtomEnter(q, "O1")
	EmitBondEnter(q, "FixedBond_H1-s0_O1-s0")
	EmitAtomLeave(q)
	EmitDisposalLeave(q)

	assert.Equal(t, 4, r.DispatchAll(42))
	require.Len(t, atoms.seen, 2)
	require.Len(t, bonds.seen, 1)
	assert.Equal(t, uint64(42), atoms.seen[0].Tick)
	assert.Equal(t, EventAtomProximityLeave, atoms.seen[1].Type)
}

func TestEventTypeNames(t *testing.T) {
	for et := EventAtomProximityEnter; et < eventTypeCount; et++ {
		name := et.String()
		assert.NotEmpty(t, name)
		parsed, ok := ParseEventType(name)
		assert.True(t, ok, name)
		assert.Equal(t, et, parsed)
	}
	_, ok := ParseEventType("None")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", EventType(999).String())
}
