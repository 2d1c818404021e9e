package molecule

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/vmath"
)

// Graph owns every atom, molecule node and fixed bond
// Not thread-safe: mutated only from the tick goroutine
type Graph struct {
	atoms     map[AtomID]*Atom
	atomOrder []AtomID
	molecules map[MoleculeID]*Molecule
	bonds     map[BondID]*FixedBond

	newMoleculeID func() MoleculeID
	revision      uint64
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		atoms:     make(map[AtomID]*Atom),
		molecules: make(map[MoleculeID]*Molecule),
		bonds:     make(map[BondID]*FixedBond),
		newMoleculeID: func() MoleculeID {
			return MoleculeID("Molecule-" + uuid.NewString())
		},
	}
}

// Revision increments on every structural or slot state change
func (g *Graph) Revision() uint64 {
	return g.revision
}

// AddAtom inserts a free atom into the pool
func (g *Graph) AddAtom(spec AtomSpec) (*Atom, error) {
	if !ValidAtomID(spec.ID) {
		return nil, fmt.Errorf("add atom %q: id must be non-empty and free of '-' and '_'", spec.ID)
	}
	if _, exists := g.atoms[spec.ID]; exists {
		return nil, fmt.Errorf("add atom %q: duplicate id", spec.ID)
	}

	orientation := spec.Orientation
	if orientation == (r3.Rotation{}) {
		orientation = vmath.Identity()
	}

	atom := &Atom{
		ID:          spec.ID,
		Element:     spec.Element,
		Position:    spec.Position,
		Orientation: orientation,
	}
	atom.slots = make([]*BondSlot, len(spec.SlotOffsets))
	for i, off := range spec.SlotOffsets {
		atom.slots[i] = &BondSlot{ID: SlotName(i), Offset: off, atom: atom}
	}

	g.atoms[atom.ID] = atom
	g.atomOrder = append(g.atomOrder, atom.ID)
	g.revision++
	return atom, nil
}

// Atom resolves an atom id
func (g *Graph) Atom(id AtomID) (*Atom, error) {
	if a, ok := g.atoms[id]; ok {
		return a, nil
	}
	return nil, NewError(KindStaleReference, "atom", string(id), nil)
}

// HasAtom reports whether id is live
func (g *Graph) HasAtom(id AtomID) bool {
	_, ok := g.atoms[id]
	return ok
}

// Slot resolves a slot reference
func (g *Graph) Slot(ref SlotRef) (*BondSlot, error) {
	a, err := g.Atom(ref.Atom)
	if err != nil {
		return nil, err
	}
	s, ok := a.Slot(ref.Slot)
	if !ok {
		return nil, NewError(KindStaleReference, "slot", ref.String(), nil)
	}
	return s, nil
}

// Bond resolves a bond id
func (g *Graph) Bond(id BondID) (*FixedBond, error) {
	if b, ok := g.bonds[id]; ok {
		return b, nil
	}
	return nil, NewError(KindStaleReference, "bond", string(id), nil)
}

// Molecule resolves a molecule node id
func (g *Graph) Molecule(id MoleculeID) (*Molecule, bool) {
	m, ok := g.molecules[id]
	return m, ok
}

// Atoms returns all live atoms in insertion order
func (g *Graph) Atoms() []*Atom {
	out := make([]*Atom, 0, len(g.atomOrder))
	for _, id := range g.atomOrder {
		out = append(out, g.atoms[id])
	}
	return out
}

// AtomCount returns the number of live atoms
func (g *Graph) AtomCount() int {
	return len(g.atoms)
}

// Bonds returns all fixed bonds sorted by id
func (g *Graph) Bonds() []*FixedBond {
	out := make([]*FixedBond, 0, len(g.bonds))
	for _, b := range g.bonds {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FreeAtoms returns atoms standing alone in the pool, in insertion order
func (g *Graph) FreeAtoms() []*Atom {
	var out []*Atom
	for _, id := range g.atomOrder {
		if a := g.atoms[id]; a.parent == nil {
			out = append(out, a)
		}
	}
	return out
}

// Roots returns the root node of every molecule tree
// Order follows the insertion order of each tree's first atom
func (g *Graph) Roots() []*Molecule {
	seen := make(map[*Molecule]bool)
	var out []*Molecule
	for _, id := range g.atomOrder {
		a := g.atoms[id]
		if a.parent == nil {
			continue
		}
		root := Root(a).(*Molecule)
		if !seen[root] {
			seen[root] = true
			out = append(out, root)
		}
	}
	return out
}

// Components returns every top-level node: molecule roots and free atoms
func (g *Graph) Components() []Node {
	seen := make(map[Node]bool)
	var out []Node
	for _, id := range g.atomOrder {
		root := Root(g.atoms[id])
		if !seen[root] {
			seen[root] = true
			out = append(out, root)
		}
	}
	return out
}

// Component returns the top-level owner of an atom: its tree root, or the atom itself if free
func (g *Graph) Component(id AtomID) (Node, error) {
	a, err := g.Atom(id)
	if err != nil {
		return nil, err
	}
	return Root(a), nil
}

// SameComponent reports whether two live atoms belong to the same tree
func (g *Graph) SameComponent(a, b AtomID) bool {
	ca, errA := g.Component(a)
	cb, errB := g.Component(b)
	return errA == nil && errB == nil && ca == cb
}

// Reserve claims a Free slot for an in-progress construction
func (g *Graph) Reserve(ref SlotRef) error {
	s, err := g.Slot(ref)
	if err != nil {
		return err
	}
	switch s.State {
	case SlotReserved:
		return nil
	case SlotAssigned:
		return NewError(KindSlotUnavailable, "reserve", ref.String(), nil)
	}
	s.State = SlotReserved
	g.revision++
	return nil
}

// Release reverts a Reserved slot to Free; other states are left untouched
func (g *Graph) Release(ref SlotRef) {
	s, err := g.Slot(ref)
	if err != nil || s.State != SlotReserved {
		return
	}
	s.State = SlotFree
	g.revision++
}

// ReleaseAll reverts every Reserved slot to Free and returns how many were released
func (g *Graph) ReleaseAll() int {
	n := 0
	for _, a := range g.atoms {
		for _, s := range a.slots {
			if s.State == SlotReserved {
				s.State = SlotFree
				n++
			}
		}
	}
	if n > 0 {
		g.revision++
	}
	return n
}

// MoveComponent translates the whole tree containing atom by delta
func (g *Graph) MoveComponent(id AtomID, delta r3.Vec) error {
	comp, err := g.Component(id)
	if err != nil {
		return err
	}
	for _, a := range comp.Atoms() {
		a.Position = r3.Add(a.Position, delta)
	}
	for _, b := range componentBonds(comp) {
		b.Midpoint = r3.Add(b.Midpoint, delta)
	}
	g.revision++
	return nil
}

func componentBonds(n Node) []*FixedBond {
	if m, ok := n.(*Molecule); ok {
		return m.Bonds()
	}
	return nil
}
