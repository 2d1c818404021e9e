package engine

import (
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
)

// Tracker is the liveness and gesture-gate query surface of the tracking collaborator
// Polled once per tick by the coordinator; there is no push notification
type Tracker interface {
	// Alive reports whether the channel is currently tracked
	Alive(ch event.Channel) bool
	// GateActive reports whether the channel's extended-gesture gate is open
	GateActive(ch event.Channel) bool
}

// AlwaysTracked reports every channel alive with no gate active
type AlwaysTracked struct{}

func (AlwaysTracked) Alive(event.Channel) bool      { return true }
func (AlwaysTracked) GateActive(event.Channel) bool { return false }

// OutcomeKind classifies process results delivered to listeners
type OutcomeKind uint8

const (
	OutcomeCountdownStarted OutcomeKind = iota
	OutcomeCountdownCancelled
	OutcomeAtomSelected
	OutcomeAtomRejected
	OutcomeBondFormed
	OutcomeBondRemoved
	OutcomeDisposed
	OutcomeReset
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCountdownStarted:
		return "countdown_started"
	case OutcomeCountdownCancelled:
		return "countdown_cancelled"
	case OutcomeAtomSelected:
		return "atom_selected"
	case OutcomeAtomRejected:
		return "atom_rejected"
	case OutcomeBondFormed:
		return "bond_formed"
	case OutcomeBondRemoved:
		return "bond_removed"
	case OutcomeDisposed:
		return "disposed"
	case OutcomeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Outcome is a notable process transition
type Outcome struct {
	Kind    OutcomeKind
	Process event.ProcessKind
	Atoms   []molecule.AtomID
	Bond    molecule.BondID
	Reason  string
	Tick    uint64
}

// Listener receives outcomes synchronously on the tick goroutine
// Implementations must not block
type Listener interface {
	OnOutcome(o Outcome)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(Outcome)

func (f ListenerFunc) OnOutcome(o Outcome) { f(o) }
