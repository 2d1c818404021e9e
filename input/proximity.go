package input

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
)

// Proximity is what a fingertip is near on one tick
type Proximity struct {
	Atom     molecule.AtomID
	Snap     molecule.AtomID
	Bond     molecule.BondID
	Disposal molecule.AtomID
}

// Detect finds the nearest atom, snap target and bond around p, and the first
// component overlapping the disposal area centred on zone
// Ties resolve to the first candidate in graph order
func Detect(g *molecule.Graph, p, zone r3.Vec, t event.Tuning) Proximity {
	var prox Proximity

	bestAtom, bestSnap := t.AtomRadius, t.SnapRadius
	for _, a := range g.Atoms() {
		d := r3.Norm(r3.Sub(a.Position, p))
		if d <= bestAtom {
			if prox.Atom == "" || d < bestAtom {
				prox.Atom, bestAtom = a.ID, d
			}
		}
		if d <= bestSnap {
			if prox.Snap == "" || d < bestSnap {
				prox.Snap, bestSnap = a.ID, d
			}
		}
		if prox.Disposal == "" && r3.Norm(r3.Sub(a.Position, zone)) <= t.DisposalRadius {
			prox.Disposal = a.ID
		}
	}

	bestBond := t.BondRadius
	for _, b := range g.Bonds() {
		d := r3.Norm(r3.Sub(b.Midpoint, p))
		if d <= bestBond && (prox.Bond == "" || d < bestBond) {
			prox.Bond, bestBond = b.ID, d
		}
	}
	return prox
}
