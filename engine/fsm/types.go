package fsm

import "time"

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

// Trigger names a transition cause; TriggerTick transitions are evaluated on Update
type Trigger int

const TriggerTick Trigger = 0

// Machine is a hierarchical finite state machine with one active leaf
// T is the context passed to guards and actions, usually the owning engine
type Machine[T any] struct {
	nodes   map[StateID]*Node[T]
	initial StateID

	active      StateID
	activePath  []StateID // Root -> leaf
	timeInState time.Duration

	// seq changes on every transition so actions can detect a nested transition
	seq uint64
}

// Node represents a state in the hierarchy
type Node[T any] struct {
	ID       StateID
	Name     string
	ParentID StateID

	// Path from root to this node, filled by CompilePaths
	Path []StateID

	OnEnter  []ActionFunc[T]
	OnUpdate []ActionFunc[T]
	OnExit   []ActionFunc[T]

	// Transitions in evaluation order; the first matching guard wins
	Transitions []Transition[T]
}

// Transition defines a guarded link between states
type Transition[T any] struct {
	Target  StateID
	Trigger Trigger
	Guard   GuardFunc[T] // nil = always
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T)
