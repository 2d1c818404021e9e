package molecule

import (
	"errors"
	"fmt"
)

// Validate audits graph consistency and returns every violation found
//
// Checked:
//   - slot accounting: each slot is Assigned iff a live bond references it
//   - every molecule node has two children, one bond, and symmetric parent links
//   - each bond connects atoms under different children of its owner
//   - every bond's endpoints are reachable from the owning tree root
func (g *Graph) Validate() error {
	var errs []error

	assigned := make(map[SlotRef]BondID)
	for id, b := range g.bonds {
		for _, ref := range []SlotRef{b.First, b.Second} {
			s, err := g.Slot(ref)
			if err != nil {
				errs = append(errs, fmt.Errorf("bond %s: endpoint %s missing", id, ref))
				continue
			}
			if s.State != SlotAssigned {
				errs = append(errs, fmt.Errorf("bond %s: slot %s is %s", id, ref, s.State))
			}
			if other, dup := assigned[ref]; dup {
				errs = append(errs, fmt.Errorf("slot %s used by %s and %s", ref, other, id))
			}
			assigned[ref] = id
		}
		if b.owner == nil {
			errs = append(errs, fmt.Errorf("bond %s: no owner", id))
			continue
		}
		if _, ok := g.molecules[b.owner.ID]; !ok {
			errs = append(errs, fmt.Errorf("bond %s: owner %s not live", id, b.owner.ID))
		}
	}

	for _, a := range g.atoms {
		for _, s := range a.slots {
			if s.State == SlotAssigned {
				if _, ok := assigned[s.Ref()]; !ok {
					errs = append(errs, fmt.Errorf("slot %s assigned without bond", s.Ref()))
				}
			}
		}
		if a.CountSlots(SlotFree)+a.CountSlots(SlotReserved)+a.CountSlots(SlotAssigned) != a.Valence() {
			errs = append(errs, fmt.Errorf("atom %s: slot states do not sum to valence", a.ID))
		}
		if p := a.parent; p != nil && p.indexOf(a) < 0 {
			errs = append(errs, fmt.Errorf("atom %s: parent %s does not list it", a.ID, p.ID))
		}
	}

	for id, m := range g.molecules {
		if len(m.children) != 2 {
			errs = append(errs, fmt.Errorf("molecule %s: %d children", id, len(m.children)))
		}
		if m.bond == nil || m.bond.owner != m {
			errs = append(errs, fmt.Errorf("molecule %s: bond missing or owned elsewhere", id))
			continue
		}
		for _, c := range m.children {
			if c.Parent() != m {
				errs = append(errs, fmt.Errorf("molecule %s: child %s has parent mismatch", id, c.NodeName()))
			}
		}
		if p := m.parent; p != nil && p.indexOf(m) < 0 {
			errs = append(errs, fmt.Errorf("molecule %s: parent %s does not list it", id, p.ID))
		}

		a1, ok1 := g.atoms[m.bond.First.Atom]
		a2, ok2 := g.atoms[m.bond.Second.Atom]
		if !ok1 || !ok2 {
			continue
		}
		c1, c2 := childOf(m, a1), childOf(m, a2)
		if c1 == nil || c2 == nil || c1 == c2 {
			errs = append(errs, fmt.Errorf("molecule %s: bond %s does not span both children", id, m.bond.ID))
		}
		if Root(a1) != Root(m) || Root(a2) != Root(m) {
			errs = append(errs, fmt.Errorf("molecule %s: bond %s endpoints unreachable from root", id, m.bond.ID))
		}
	}

	return errors.Join(errs...)
}
