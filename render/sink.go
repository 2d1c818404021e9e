package render

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/molecule"
)

// Highlight is the visual selection state of a target
type Highlight uint8

const (
	HighlightNone Highlight = iota
	HighlightBasic
	HighlightExtended
	HighlightRejected
)

func (h Highlight) String() string {
	switch h {
	case HighlightBasic:
		return "basic"
	case HighlightExtended:
		return "extended"
	case HighlightRejected:
		return "rejected"
	default:
		return "none"
	}
}

// ColorClass selects the countdown progress palette
type ColorClass uint8

const (
	ColorConstruction ColorClass = iota
	ColorDestruction
)

func (c ColorClass) String() string {
	if c == ColorDestruction {
		return "destruction"
	}
	return "construction"
}

// TargetKind discriminates Target references
type TargetKind uint8

const (
	TargetAtom TargetKind = iota
	TargetSlot
	TargetBond
)

// Target references a highlightable object; comparable, usable as map key
type Target struct {
	Kind TargetKind
	Atom molecule.AtomID
	Slot molecule.SlotID
	Bond molecule.BondID
}

func AtomTarget(id molecule.AtomID) Target {
	return Target{Kind: TargetAtom, Atom: id}
}

func SlotTarget(ref molecule.SlotRef) Target {
	return Target{Kind: TargetSlot, Atom: ref.Atom, Slot: ref.Slot}
}

func BondTarget(id molecule.BondID) Target {
	return Target{Kind: TargetBond, Bond: id}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetSlot:
		return molecule.SlotRef{Atom: t.Atom, Slot: t.Slot}.String()
	case TargetBond:
		return string(t.Bond)
	default:
		return string(t.Atom)
	}
}

// Sink consumes visual commands issued by the interaction engines
// Implementations must be cheap; commands are issued on the tick goroutine
type Sink interface {
	// SetHighlight sets the target's highlight; HighlightNone clears it
	SetHighlight(target Target, state Highlight)

	// SetLineEndpoints places the provisional bond line; equal endpoints hide it
	SetLineEndpoints(start, end r3.Vec)

	// SetProgress shows countdown progress on every target; fraction 0 clears it
	SetProgress(targets []Target, fraction float64, class ColorClass)
}

// Nop discards every command
type Nop struct{}

func (Nop) SetHighlight(Target, Highlight) {}
func (Nop) SetLineEndpoints(r3.Vec, r3.Vec) {}
func (Nop) SetProgress([]Target, float64, ColorClass) {}

// Multi fans commands out to several sinks in order
type Multi []Sink

func (m Multi) SetHighlight(target Target, state Highlight) {
	for _, s := range m {
		s.SetHighlight(target, state)
	}
}

func (m Multi) SetLineEndpoints(start, end r3.Vec) {
	for _, s := range m {
		s.SetLineEndpoints(start, end)
	}
}

func (m Multi) SetProgress(targets []Target, fraction float64, class ColorClass) {
	for _, s := range m {
		s.SetProgress(targets, fraction, class)
	}
}
