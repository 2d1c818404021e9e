package molecule

import "gonum.org/v1/gonum/spatial/r3"

// Node is a member of a molecule tree: an atom leaf or a molecule node
type Node interface {
	NodeName() string
	Parent() *Molecule
	// Atoms returns every atom leaf in the subtree, in child order
	Atoms() []*Atom

	setParent(m *Molecule)
}

// MoleculeID identifies a molecule node
type MoleculeID string

// Molecule is an internal tree node created by one merge
// It owns exactly two children and the fixed bond that joined them
type Molecule struct {
	ID MoleculeID

	children []Node
	bond     *FixedBond
	parent   *Molecule
}

// Children returns the child nodes; callers must not modify the slice
func (m *Molecule) Children() []Node {
	return m.children
}

// Bond returns the fixed bond joining the two children
func (m *Molecule) Bond() *FixedBond {
	return m.bond
}

// Parent returns the enclosing molecule node, nil for a root
func (m *Molecule) Parent() *Molecule {
	return m.parent
}

func (m *Molecule) setParent(p *Molecule) {
	m.parent = p
}

// NodeName implements Node
func (m *Molecule) NodeName() string {
	return string(m.ID)
}

// Atoms implements Node
func (m *Molecule) Atoms() []*Atom {
	var out []*Atom
	stack := []Node{m}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := n.(type) {
		case *Atom:
			out = append(out, v)
		case *Molecule:
			for i := len(v.children) - 1; i >= 0; i-- {
				stack = append(stack, v.children[i])
			}
		}
	}
	return out
}

// Bonds returns every fixed bond in the subtree, pre-order
func (m *Molecule) Bonds() []*FixedBond {
	var out []*FixedBond
	stack := []*Molecule{m}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.bond != nil {
			out = append(out, n.bond)
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			if c, ok := n.children[i].(*Molecule); ok {
				stack = append(stack, c)
			}
		}
	}
	return out
}

// Depth returns the number of molecule levels in the subtree
func (m *Molecule) Depth() int {
	d := 0
	for _, c := range m.children {
		if cm, ok := c.(*Molecule); ok {
			d = max(d, cm.Depth())
		}
	}
	return d + 1
}

func (m *Molecule) indexOf(n Node) int {
	for i, c := range m.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (m *Molecule) removeChild(n Node) bool {
	i := m.indexOf(n)
	if i < 0 {
		return false
	}
	m.children = append(m.children[:i], m.children[i+1:]...)
	return true
}

// FixedBond is an immutable pairing of two slots on two distinct atoms
// Midpoint and Length describe the rigid visual bond between the atom centers
type FixedBond struct {
	ID       BondID
	First    SlotRef
	Second   SlotRef
	Midpoint r3.Vec
	Length   float64

	owner *Molecule
}

// Owner returns the molecule node holding the bond
func (b *FixedBond) Owner() *Molecule {
	return b.owner
}

// References reports whether the bond has atom as an endpoint
func (b *FixedBond) References(atom AtomID) bool {
	return b.First.Atom == atom || b.Second.Atom == atom
}

// Root returns the top-level owner of n: n itself when it has no parent
func Root(n Node) Node {
	for {
		p := n.Parent()
		if p == nil {
			return n
		}
		n = p
	}
}

// childOf returns the child of ancestor whose subtree contains n, nil if none
func childOf(ancestor *Molecule, n Node) Node {
	for n != nil {
		p := n.Parent()
		if p == nil {
			return nil
		}
		if p == ancestor {
			return n
		}
		n = p
	}
	return nil
}
