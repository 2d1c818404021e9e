package molecule

import (
	"errors"
	"fmt"
)

// ErrorKind classifies recoverable failures of the construction and destruction paths
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindSlotUnavailable: atom or slot has no Free capacity for the requested step
	KindSlotUnavailable
	// KindMalformedBondIdentifier: bond id does not follow the FixedBond grammar
	KindMalformedBondIdentifier
	// KindStaleReference: atom, slot or bond no longer exists in the graph
	KindStaleReference
	// KindExclusivityViolation: another process already owns the interaction
	KindExclusivityViolation
	// KindInvalidMerge: both endpoints resolve to the same atom or component
	KindInvalidMerge
)

// Sentinels for errors.Is matching against *Error values of the same kind
var (
	ErrSlotUnavailable         = errors.New("slot unavailable")
	ErrMalformedBondIdentifier = errors.New("malformed bond identifier")
	ErrStaleReference          = errors.New("stale reference")
	ErrExclusivityViolation    = errors.New("exclusivity violation")
	ErrInvalidMerge            = errors.New("invalid merge")
)

func (k ErrorKind) String() string {
	switch k {
	case KindSlotUnavailable:
		return "slot_unavailable"
	case KindMalformedBondIdentifier:
		return "malformed_bond_identifier"
	case KindStaleReference:
		return "stale_reference"
	case KindExclusivityViolation:
		return "exclusivity_violation"
	case KindInvalidMerge:
		return "invalid_merge"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindSlotUnavailable:
		return ErrSlotUnavailable
	case KindMalformedBondIdentifier:
		return ErrMalformedBondIdentifier
	case KindStaleReference:
		return ErrStaleReference
	case KindExclusivityViolation:
		return ErrExclusivityViolation
	case KindInvalidMerge:
		return ErrInvalidMerge
	default:
		return nil
	}
}

// Error carries the failing operation and the reference it was applied to
type Error struct {
	Kind ErrorKind
	Op   string // graph operation, e.g. "connect"
	Ref  string // atom, slot or bond identifier
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Ref, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinel so callers can write errors.Is(err, ErrStaleReference)
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// NewError builds a taxonomy error for op applied to ref
func NewError(kind ErrorKind, op, ref string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Ref: ref, Err: cause}
}

// KindOf extracts the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
