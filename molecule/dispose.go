package molecule

import "slices"

// Dispose removes the whole component containing atom from the graph
// Returns the ids of the removed atoms in subtree order
func (g *Graph) Dispose(id AtomID) ([]AtomID, error) {
	comp, err := g.Component(id)
	if err != nil {
		return nil, err
	}

	if m, ok := comp.(*Molecule); ok {
		for _, b := range m.Bonds() {
			delete(g.bonds, b.ID)
			delete(g.molecules, b.owner.ID)
		}
	}

	atoms := comp.Atoms()
	removed := make([]AtomID, 0, len(atoms))
	for _, a := range atoms {
		delete(g.atoms, a.ID)
		a.parent = nil
		removed = append(removed, a.ID)
	}
	g.atomOrder = slices.DeleteFunc(g.atomOrder, func(id AtomID) bool {
		return slices.Contains(removed, id)
	})

	g.revision++
	return removed, nil
}
