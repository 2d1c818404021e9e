package molecule

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/vmath"
)

// CanConnect reports whether first and second could be bonded now
func (g *Graph) CanConnect(first, second SlotRef) error {
	const op = "connect"

	s1, err := g.Slot(first)
	if err != nil {
		return err
	}
	s2, err := g.Slot(second)
	if err != nil {
		return err
	}
	if first.Atom == second.Atom {
		return NewError(KindInvalidMerge, op, string(first.Atom), nil)
	}
	if Root(s1.atom) == Root(s2.atom) {
		return NewError(KindInvalidMerge, op, string(FormatBondID(first, second)), nil)
	}
	if s1.State == SlotAssigned {
		return NewError(KindSlotUnavailable, op, first.String(), nil)
	}
	if s2.State == SlotAssigned {
		return NewError(KindSlotUnavailable, op, second.String(), nil)
	}
	return nil
}

// Connect aligns the second component nose-to-nose with the first, bonds the two slots,
// and merges both components under a new molecule root
// Validation failures leave the graph untouched
func (g *Graph) Connect(first, second SlotRef) (*FixedBond, error) {
	if err := g.CanConnect(first, second); err != nil {
		return nil, err
	}

	s1, _ := g.Slot(first)
	s2, _ := g.Slot(second)
	comp1, comp2 := Root(s1.atom), Root(s2.atom)

	alignComponent(comp2, s2, s1)

	s1.State = SlotAssigned
	s2.State = SlotAssigned

	a1, a2 := s1.atom.Position, s2.atom.Position
	bond := &FixedBond{
		ID:       FormatBondID(first, second),
		First:    first,
		Second:   second,
		Midpoint: vmath.Midpoint(a1, a2),
		Length:   vmath.Distance(a1, a2),
	}

	root := &Molecule{
		ID:       g.newMoleculeID(),
		children: []Node{comp1, comp2},
		bond:     bond,
	}
	bond.owner = root
	comp1.setParent(root)
	comp2.setParent(root)

	g.molecules[root.ID] = root
	g.bonds[bond.ID] = bond
	g.revision++
	return bond, nil
}

// alignComponent rigidly moves comp so that moving's slot faces anchor's slot and both anchors coincide
func alignComponent(comp Node, moving, anchor *BondSlot) {
	pivot := moving.Anchor()
	rot := vmath.AlignRotation(moving.Direction(), r3.Scale(-1, anchor.Direction()))

	atoms := comp.Atoms()
	for _, a := range atoms {
		a.Position = vmath.RotateAbout(a.Position, pivot, rot)
		a.Orientation = vmath.Compose(rot, a.Orientation)
	}

	delta := r3.Sub(anchor.Anchor(), moving.Anchor())
	for _, a := range atoms {
		a.Position = r3.Add(a.Position, delta)
	}

	for _, b := range componentBonds(comp) {
		b.Midpoint = r3.Add(vmath.RotateAbout(b.Midpoint, pivot, rot), delta)
	}
}
