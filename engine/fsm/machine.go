package fsm

import (
	"fmt"
	"time"
)

// NewMachine creates an empty machine; add states, compile paths, then Init
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{nodes: make(map[StateID]*Node[T])}
}

// Init enters initialID, running OnEnter from the root down
func (m *Machine[T]) Init(ctx T, initialID StateID) error {
	node, ok := m.nodes[initialID]
	if !ok {
		return fmt.Errorf("initial state ID %d not found", initialID)
	}
	if node.Path == nil {
		return fmt.Errorf("state %q has no path, CompilePaths not called", node.Name)
	}

	m.initial = initialID
	m.active = initialID
	m.activePath = append(m.activePath[:0], node.Path...)
	m.timeInState = 0
	m.seq++

	for _, id := range m.activePath {
		for _, action := range m.nodes[id].OnEnter {
			action(ctx)
		}
	}
	return nil
}

// Update advances time in state, runs the leaf's OnUpdate actions
// and takes the first tick transition whose guard passes
func (m *Machine[T]) Update(ctx T, dt time.Duration) {
	if m.active == StateNone {
		return
	}
	m.timeInState += dt

	seq := m.seq
	for _, action := range m.nodes[m.active].OnUpdate {
		action(ctx)
		if m.seq != seq {
			return
		}
	}
	m.Fire(ctx, TriggerTick)
}

// Fire offers trigger to the active leaf, bubbling up to the root
// Returns true if a transition matched, including one to the current state
func (m *Machine[T]) Fire(ctx T, trigger Trigger) bool {
	for id := m.active; id != StateNone; {
		node := m.nodes[id]
		for _, t := range node.Transitions {
			if t.Trigger != trigger {
				continue
			}
			if t.Guard == nil || t.Guard(ctx) {
				m.transition(ctx, t.Target)
				return true
			}
		}
		id = node.ParentID
	}
	return false
}

// Can reports whether trigger has a transition from the active state, ignoring guards
func (m *Machine[T]) Can(trigger Trigger) bool {
	for id := m.active; id != StateNone; {
		node := m.nodes[id]
		for _, t := range node.Transitions {
			if t.Trigger == trigger {
				return true
			}
		}
		id = node.ParentID
	}
	return false
}

// Goto forces a transition regardless of the transition table
func (m *Machine[T]) Goto(ctx T, targetID StateID) {
	m.transition(ctx, targetID)
}

// Reset returns to the initial state
func (m *Machine[T]) Reset(ctx T) {
	if m.active == m.initial {
		m.timeInState = 0
		return
	}
	m.transition(ctx, m.initial)
}

// transition exits up to the lowest common ancestor and enters down to the target
// An action that starts another transition ends this one
func (m *Machine[T]) transition(ctx T, targetID StateID) {
	if m.active == targetID {
		return
	}
	target, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("fsm: transition to unknown state ID %d", targetID))
	}

	m.seq++
	seq := m.seq

	lca := -1
	for i := 0; i < min(len(m.activePath), len(target.Path)); i++ {
		if m.activePath[i] != target.Path[i] {
			break
		}
		lca = i
	}

	for i := len(m.activePath) - 1; i > lca; i-- {
		for _, action := range m.nodes[m.activePath[i]].OnExit {
			action(ctx)
			if m.seq != seq {
				return
			}
		}
	}

	m.active = targetID
	m.activePath = append(m.activePath[:0], target.Path...)
	m.timeInState = 0

	for i := lca + 1; i < len(target.Path); i++ {
		for _, action := range m.nodes[target.Path[i]].OnEnter {
			action(ctx)
			if m.seq != seq {
				return
			}
		}
	}
}

// State returns the active leaf
func (m *Machine[T]) State() StateID {
	return m.active
}

// StateName returns the active leaf's name
func (m *Machine[T]) StateName() string {
	return m.Name(m.active)
}

// Name returns the name of id, "" if unknown
func (m *Machine[T]) Name(id StateID) string {
	if node, ok := m.nodes[id]; ok {
		return node.Name
	}
	return ""
}

// In reports whether id is the active leaf or one of its ancestors
func (m *Machine[T]) In(id StateID) bool {
	for _, p := range m.activePath {
		if p == id {
			return true
		}
	}
	return false
}

// TimeInState returns time spent in the active leaf
func (m *Machine[T]) TimeInState() time.Duration {
	return m.timeInState
}
