package fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stIdle StateID = iota + 2
	stBusy
	stWaiting
	stRunning
)

const (
	trStart Trigger = iota + 1
	trStop
	trAbort
)

type recorder struct {
	log   []string
	ready bool
}

func (r *recorder) add(s string) func(*recorder) {
	return func(r *recorder) { r.log = append(r.log, s) }
}

// newMachine builds Root{Idle, Busy{Waiting, Running}}
func newMachine(t *testing.T, r *recorder) *Machine[*recorder] {
	t.Helper()
	m := NewMachine[*recorder]()
	m.AddState(StateRoot, "Root", StateNone)
	m.AddState(stIdle, "Idle", StateRoot).OnEnter = []ActionFunc[*recorder]{r.add("enter idle")}
	busy := m.AddState(stBusy, "Busy", StateRoot)
	busy.OnEnter = []ActionFunc[*recorder]{r.add("enter busy")}
	busy.OnExit = []ActionFunc[*recorder]{r.add("exit busy")}
	waiting := m.AddState(stWaiting, "Waiting", stBusy)
	waiting.OnExit = []ActionFunc[*recorder]{r.add("exit waiting")}
	m.AddState(stRunning, "Running", stBusy).OnEnter = []ActionFunc[*recorder]{r.add("enter running")}

	m.On(stIdle, trStart, stWaiting, nil)
	m.On(stWaiting, TriggerTick, stRunning, func(r *recorder) bool { return r.ready })
	m.On(stBusy, trStop, stIdle, nil)

	require.NoError(t, m.CompilePaths())
	require.NoError(t, m.Init(r, stIdle))
	return m
}

func TestMachineTransitions(t *testing.T) {
	r := &recorder{}
	m := newMachine(t, r)
	assert.Equal(t, []string{"enter idle"}, r.log)
	assert.Equal(t, "Idle", m.StateName())

	r.log = nil
	assert.True(t, m.Fire(r, trStart))
	assert.Equal(t, stWaiting, m.State())
	assert.Equal(t, []string{"enter busy"}, r.log)
	assert.True(t, m.In(stBusy))
	assert.True(t, m.In(StateRoot))
	assert.False(t, m.In(stIdle))

	assert.False(t, m.Fire(r, trStart), "no transition for trigger")
	assert.False(t, m.Fire(r, trAbort))

	m.Update(r, 10*time.Millisecond)
	assert.Equal(t, stWaiting, m.State(), "guard holds the tick transition")
	assert.Equal(t, 10*time.Millisecond, m.TimeInState())

	r.ready = true
	r.log = nil
	m.Update(r, 10*time.Millisecond)
	assert.Equal(t, stRunning, m.State())
	assert.Equal(t, []string{"exit waiting", "enter running"}, r.log, "busy is not re-entered")
	assert.Zero(t, m.TimeInState())

	r.log = nil
	assert.True(t, m.Fire(r, trStop), "bubbles to the parent")
	assert.Equal(t, stIdle, m.State())
	assert.Equal(t, []string{"exit busy", "enter idle"}, r.log)
}

func TestMachineCanIgnoresGuards(t *testing.T) {
	r := &recorder{}
	m := newMachine(t, r)
	m.Goto(r, stWaiting)

	assert.True(t, m.Can(TriggerTick))
	assert.True(t, m.Can(trStop), "inherited from parent")
	assert.False(t, m.Can(trStart))
}

func TestMachineReset(t *testing.T) {
	r := &recorder{}
	m := newMachine(t, r)
	m.Goto(r, stRunning)

	r.log = nil
	m.Reset(r)
	assert.Equal(t, stIdle, m.State())
	assert.Equal(t, []string{"exit busy", "enter idle"}, r.log)

	r.log = nil
	m.Reset(r)
	assert.Empty(t, r.log, "reset at the initial state runs no actions")
}

func TestMachineNestedTransitionWins(t *testing.T) {
	r := &recorder{}
	m := newMachine(t, r)
	m.nodes[stBusy].OnEnter = []ActionFunc[*recorder]{func(r *recorder) { m.Goto(r, stIdle) }}

	m.Fire(r, trStart)
	assert.Equal(t, stIdle, m.State(), "action redirected the transition")
}

func TestMachineInitErrors(t *testing.T) {
	m := NewMachine[*recorder]()
	m.AddState(stIdle, "Idle", StateNone)
	assert.Error(t, m.Init(&recorder{}, stIdle), "paths not compiled")
	assert.Error(t, m.Init(&recorder{}, stBusy), "unknown state")

	m.AddState(stBusy, "Busy", stRunning)
	assert.Error(t, m.CompilePaths(), "missing parent")
}
