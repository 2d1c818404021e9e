package molecule

import (
	"fmt"
	"slices"
)

// Split describes the two components left after a bond removal
type Split struct {
	Bond   BondID
	First  Node // component holding the bond's first endpoint
	Second Node // component holding the bond's second endpoint
}

// Disconnect removes a fixed bond, frees both slots, and re-partitions the tree
// so that each endpoint ends up in its own consistent component
func (g *Graph) Disconnect(id BondID) (Split, error) {
	bond, err := g.Bond(id)
	if err != nil {
		return Split{}, err
	}
	s1, err := g.Slot(bond.First)
	if err != nil {
		return Split{}, err
	}
	s2, err := g.Slot(bond.Second)
	if err != nil {
		return Split{}, err
	}

	p := bond.owner
	if len(p.children) != 2 {
		return Split{}, fmt.Errorf("disconnect %s: owner %s has %d children", id, p.ID, len(p.children))
	}

	s1.State = SlotFree
	s2.State = SlotFree
	delete(g.bonds, id)
	delete(g.molecules, p.ID)
	bond.owner = nil

	g.dissolve(p)

	g.revision++
	return Split{Bond: id, First: Root(s1.atom), Second: Root(s2.atom)}, nil
}

// dissolve removes p from the tree and climbs toward the root, pushing every branch
// that no longer shares a bond with its level up to the next ancestor
func (g *Graph) dissolve(p *Molecule) {
	c0, c1 := p.children[0], p.children[1]
	p.children = nil

	up := p.parent
	p.parent = nil
	if up == nil {
		c0.setParent(nil)
		c1.setParent(nil)
		return
	}

	i := up.indexOf(p)
	up.children = append(up.children[:i], append([]Node{c0, c1}, up.children[i+1:]...)...)
	c0.setParent(up)
	c1.setParent(up)

	for level := up; level != nil && len(level.children) > 2; {
		stray := g.strayBranch(level)
		if stray == nil {
			return
		}
		level.removeChild(stray)

		next := level.parent
		stray.setParent(next)
		if next != nil {
			next.children = append(next.children, stray)
		}
		level = next
	}
}

// strayBranch returns the child of level holding neither endpoint of level's bond
func (g *Graph) strayBranch(level *Molecule) Node {
	var keep []Node
	for _, id := range []AtomID{level.bond.First.Atom, level.bond.Second.Atom} {
		if a, ok := g.atoms[id]; ok {
			if c := childOf(level, a); c != nil {
				keep = append(keep, c)
			}
		}
	}
	for _, c := range level.children {
		if !slices.Contains(keep, c) {
			return c
		}
	}
	return nil
}
