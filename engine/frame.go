package engine

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/molecule"
)

// SlotView is a read-only slot copy
type SlotView struct {
	ID     molecule.SlotID
	State  molecule.SlotState
	Anchor r3.Vec
}

// AtomView is a read-only atom copy
type AtomView struct {
	ID       molecule.AtomID
	Element  string
	Position r3.Vec
	Free     bool
	Slots    []SlotView
}

// BondView is a read-only fixed bond copy
type BondView struct {
	ID       molecule.BondID
	Midpoint r3.Vec
	Start    r3.Vec
	End      r3.Vec
}

// Frame is an immutable per-tick snapshot of the graph for off-tick readers
type Frame struct {
	Tick  uint64
	Atoms []AtomView
	Bonds []BondView
	Roots int
}

// NewFrame copies the renderable state of g
func NewFrame(tick uint64, g *molecule.Graph) *Frame {
	f := &Frame{Tick: tick, Roots: len(g.Roots())}

	for _, a := range g.Atoms() {
		av := AtomView{ID: a.ID, Element: a.Element, Position: a.Position, Free: a.Free()}
		for _, s := range a.Slots() {
			av.Slots = append(av.Slots, SlotView{ID: s.ID, State: s.State, Anchor: s.Anchor()})
		}
		f.Atoms = append(f.Atoms, av)
	}

	for _, b := range g.Bonds() {
		bv := BondView{ID: b.ID, Midpoint: b.Midpoint}
		if a, err := g.Atom(b.First.Atom); err == nil {
			bv.Start = a.Position
		}
		if a, err := g.Atom(b.Second.Atom); err == nil {
			bv.End = a.Position
		}
		f.Bonds = append(f.Bonds, bv)
	}
	return f
}

// Atom finds an atom view by id
func (f *Frame) Atom(id molecule.AtomID) (AtomView, bool) {
	for _, a := range f.Atoms {
		if a.ID == id {
			return a, true
		}
	}
	return AtomView{}, false
}
