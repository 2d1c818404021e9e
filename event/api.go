package event

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/molecule"
)

// Emit helpers used by tracking collaborators; each allocates one payload

func EmitAtomEnter(q *Queue, atom molecule.AtomID) {
	q.Emit(EventAtomProximityEnter, &AtomPayload{Atom: atom})
}

func EmitAtomLeave(q *Queue) {
	q.Emit(EventAtomProximityLeave, nil)
}

func EmitSnapEnter(q *Queue, atom molecule.AtomID) {
	q.Emit(EventSnapProximityEnter, &AtomPayload{Atom: atom})
}

func EmitSnapLeave(q *Queue) {
	q.Emit(EventSnapProximityLeave, nil)
}

func EmitBondEnter(q *Queue, bond molecule.BondID) {
	q.Emit(EventBondProximityEnter, &BondPayload{Bond: bond})
}

func EmitBondLeave(q *Queue) {
	q.Emit(EventBondProximityLeave, nil)
}

func EmitGestureStart(q *Queue, ch Channel, kind ProcessKind) {
	q.Emit(EventExtendedGestureStart, &GesturePayload{Channel: ch, Kind: kind})
}

func EmitGestureEnd(q *Queue, ch Channel, kind ProcessKind) {
	q.Emit(EventExtendedGestureEnd, &GesturePayload{Channel: ch, Kind: kind})
}

func EmitInputPoint(q *Queue, ch Channel, pos r3.Vec) {
	q.Emit(EventInputPointUpdate, &InputPointPayload{Channel: ch, Position: pos})
}

func EmitDisposalEnter(q *Queue, atom molecule.AtomID) {
	q.Emit(EventDisposalEnter, &AtomPayload{Atom: atom})
}

func EmitDisposalLeave(q *Queue) {
	q.Emit(EventDisposalLeave, nil)
}

func EmitTuning(q *Queue, t Tuning) {
	q.Emit(EventTuningUpdate, &TuningPayload{Tuning: t})
}
