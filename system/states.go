package system

import (
	"github.com/lixenwraith/molcraft/engine/fsm"
)

// Triggers shared by the engine state machines
const (
	trigHover fsm.Trigger = iota + 1
	trigLeave
	trigArm
	trigCancel
	trigSelected
	trigRejected
	trigAwaitSecond
	trigConfirmed
	trigSplit
)

// Atom selection states
// Locked groups the states in which bond selection owns the atom
const (
	atomIdle fsm.StateID = iota + fsm.StateRoot + 1
	atomFirst
	atomHighlighted
	atomPendingFirstConfirm
	atomAwaitingSecond
	atomLocked
	atomFirstConfirmed
	atomHighlightedSecond
	atomPendingSecondConfirm
)

func newAtomMachine() *fsm.Machine[*AtomSelection] {
	m := fsm.NewMachine[*AtomSelection]()
	m.AddState(fsm.StateRoot, "AtomSelection", fsm.StateNone)
	m.AddState(atomIdle, "Idle", fsm.StateRoot)
	m.AddState(atomFirst, "FirstAtom", fsm.StateRoot)
	m.AddState(atomHighlighted, "Highlighted", atomFirst)
	m.AddState(atomPendingFirstConfirm, "PendingFirstConfirm", atomFirst).OnEnter =
		[]fsm.ActionFunc[*AtomSelection]{(*AtomSelection).startConfirm}
	m.AddState(atomAwaitingSecond, "AwaitingSecondAtom", fsm.StateRoot)
	m.AddState(atomLocked, "Locked", fsm.StateRoot)
	m.AddState(atomFirstConfirmed, "FirstConfirmed", atomLocked)
	m.AddState(atomHighlightedSecond, "HighlightedSecond", atomLocked)
	m.AddState(atomPendingSecondConfirm, "PendingSecondConfirm", atomLocked)

	m.On(atomIdle, trigHover, atomHighlighted, nil)
	m.On(atomHighlighted, trigLeave, atomIdle, nil)
	m.On(atomHighlighted, trigArm, atomPendingFirstConfirm, nil)
	m.On(atomPendingFirstConfirm, trigCancel, atomHighlighted, nil)
	m.On(atomPendingFirstConfirm, trigSelected, atomFirstConfirmed, nil)
	m.On(atomPendingFirstConfirm, trigRejected, atomHighlighted, nil)
	m.On(atomLocked, trigAwaitSecond, atomAwaitingSecond, nil)
	m.On(atomAwaitingSecond, trigSelected, atomHighlightedSecond, nil)

	// The snap countdown belongs to bond selection; these mirror it
	m.On(atomHighlightedSecond, fsm.TriggerTick, atomPendingSecondConfirm, (*AtomSelection).snapPending)
	m.On(atomPendingSecondConfirm, fsm.TriggerTick, atomHighlightedSecond,
		func(a *AtomSelection) bool { return !a.snapPending() })

	mustCompile(m)
	return m
}

// Disassembler states
// Removed and Repartitioned are passed through within the committing tick
const (
	bondIdle fsm.StateID = iota + fsm.StateRoot + 1
	bondTargeted
	bondPendingConfirm
	bondRemoved
	bondRepartitioned
)

func newBondMachine() *fsm.Machine[*Disassembler] {
	m := fsm.NewMachine[*Disassembler]()
	m.AddState(fsm.StateRoot, "Disassembler", fsm.StateNone)
	m.AddState(bondIdle, "Idle", fsm.StateRoot)
	m.AddState(bondTargeted, "BondTargeted", fsm.StateRoot)
	m.AddState(bondPendingConfirm, "PendingConfirm", fsm.StateRoot).OnEnter =
		[]fsm.ActionFunc[*Disassembler]{(*Disassembler).startConfirm}
	m.AddState(bondRemoved, "Removed", fsm.StateRoot)
	m.AddState(bondRepartitioned, "Repartitioned", fsm.StateRoot)

	m.On(bondIdle, trigHover, bondTargeted, nil)
	m.On(bondTargeted, trigArm, bondPendingConfirm, nil)
	m.On(bondPendingConfirm, trigCancel, bondTargeted, nil)
	m.On(bondPendingConfirm, trigConfirmed, bondRemoved, nil)
	m.On(bondRemoved, trigSplit, bondRepartitioned, nil)

	mustCompile(m)
	return m
}

// mustCompile panics on a malformed state table, a programming error
func mustCompile[T any](m *fsm.Machine[T]) {
	if err := m.CompilePaths(); err != nil {
		panic(err)
	}
}
