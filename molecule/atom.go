package molecule

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/vmath"
)

// AtomID is the stable atom name, e.g. "H1"
type AtomID string

// SlotID names a bond slot on its atom, e.g. "s0"
type SlotID string

// SlotState tracks bond slot availability
type SlotState uint8

const (
	SlotFree SlotState = iota
	SlotReserved
	SlotAssigned
)

func (s SlotState) String() string {
	switch s {
	case SlotFree:
		return "free"
	case SlotReserved:
		return "reserved"
	case SlotAssigned:
		return "assigned"
	default:
		return "invalid"
	}
}

// SlotRef addresses one slot of one atom
type SlotRef struct {
	Atom AtomID
	Slot SlotID
}

func (r SlotRef) String() string {
	return string(r.Atom) + "." + string(r.Slot)
}

// BondSlot is a single bondable position on an atom
// Offset is expressed in the atom's local frame, from atom center to slot anchor
type BondSlot struct {
	ID     SlotID
	State  SlotState
	Offset r3.Vec

	atom *Atom
}

// Atom returns the owning atom
func (s *BondSlot) Atom() *Atom {
	return s.atom
}

// Ref returns the slot address
func (s *BondSlot) Ref() SlotRef {
	return SlotRef{Atom: s.atom.ID, Slot: s.ID}
}

// Anchor returns the slot position in world space
func (s *BondSlot) Anchor() r3.Vec {
	return r3.Add(s.atom.Position, s.atom.Orientation.Rotate(s.Offset))
}

// Direction returns the outward unit direction of the slot in world space
func (s *BondSlot) Direction() r3.Vec {
	return vmath.Unit(s.atom.Orientation.Rotate(s.Offset))
}

// Atom is a chemical unit with a fixed number of bond slots
// An atom without a parent is free-standing in the pool
type Atom struct {
	ID          AtomID
	Element     string
	Position    r3.Vec
	Orientation r3.Rotation

	slots  []*BondSlot
	parent *Molecule
}

// Valence returns the fixed slot count
func (a *Atom) Valence() int {
	return len(a.slots)
}

// Slots returns the ordered slots; callers must not modify the slice
func (a *Atom) Slots() []*BondSlot {
	return a.slots
}

// Slot looks up a slot by id
func (a *Atom) Slot(id SlotID) (*BondSlot, bool) {
	for _, s := range a.slots {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// FreeSlots returns slots in Free state, in slot order
func (a *Atom) FreeSlots() []*BondSlot {
	var free []*BondSlot
	for _, s := range a.slots {
		if s.State == SlotFree {
			free = append(free, s)
		}
	}
	return free
}

// CountSlots returns the number of slots in the given state
func (a *Atom) CountSlots(state SlotState) int {
	n := 0
	for _, s := range a.slots {
		if s.State == state {
			n++
		}
	}
	return n
}

// Parent returns the enclosing molecule node, nil for a free atom
func (a *Atom) Parent() *Molecule {
	return a.parent
}

func (a *Atom) setParent(m *Molecule) {
	a.parent = m
}

// NodeName implements Node
func (a *Atom) NodeName() string {
	return string(a.ID)
}

// Atoms implements Node
func (a *Atom) Atoms() []*Atom {
	return []*Atom{a}
}

// Free reports whether the atom stands alone in the pool
func (a *Atom) Free() bool {
	return a.parent == nil
}

// AtomSpec describes an atom to add to a graph
type AtomSpec struct {
	ID          AtomID
	Element     string
	Position    r3.Vec
	Orientation r3.Rotation
	// SlotOffsets gives one local anchor offset per slot; slot ids are assigned s0..sN-1
	SlotOffsets []r3.Vec
}

// SlotName returns the canonical id of the i-th slot
func SlotName(i int) SlotID {
	return SlotID("s" + strconv.Itoa(i))
}

// ValidAtomID reports whether id can be embedded in a bond identifier
func ValidAtomID(id AtomID) bool {
	return id != "" && !strings.ContainsAny(string(id), "-_")
}
