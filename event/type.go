package event

// EventType represents the type of interaction event
type EventType int

const (
	// EventNone is the zero value and never routed
	EventNone EventType = iota

	// === Proximity Event ===

	// EventAtomProximityEnter signals the input point entered an atom's selection radius
	// Trigger: Tracker proximity detection
	// Consumer: AtomSelection, BondSelection | Payload: *AtomPayload
	EventAtomProximityEnter

	// EventAtomProximityLeave signals the input point left the hovered atom
	// Trigger: Tracker proximity detection
	// Consumer: AtomSelection, BondSelection | Payload: nil
	EventAtomProximityLeave

	// EventSnapProximityEnter signals the input point entered the tight snap radius of an atom
	// Trigger: Tracker proximity detection
	// Consumer: BondSelection | Payload: *AtomPayload
	EventSnapProximityEnter

	// EventSnapProximityLeave signals the input point left the snap radius
	// Trigger: Tracker proximity detection
	// Consumer: BondSelection | Payload: nil
	EventSnapProximityLeave

	// EventBondProximityEnter signals the input point is aiming at a fixed bond
	// Trigger: Tracker proximity detection
	// Consumer: Disassembler | Payload: *BondPayload
	EventBondProximityEnter

	// EventBondProximityLeave signals the aimed bond was left
	// Trigger: Tracker proximity detection
	// Consumer: Disassembler | Payload: nil
	EventBondProximityLeave

	// === Gesture Event ===

	// EventExtendedGestureStart signals the confirm gesture began on a channel
	// Trigger: Tracker gesture gate
	// Consumer: AtomSelection (Construction), Disassembler (Destruction) | Payload: *GesturePayload
	EventExtendedGestureStart

	// EventExtendedGestureEnd signals the confirm gesture was released
	// Trigger: Tracker gesture gate
	// Consumer: AtomSelection, Disassembler, Disposal | Payload: *GesturePayload
	EventExtendedGestureEnd

	// EventInputPointUpdate carries the per-tick fingertip position of a channel
	// Trigger: Tracker, every tick while the channel is tracked
	// Consumer: Pipeline (input point store) | Payload: *InputPointPayload
	EventInputPointUpdate

	// === Disposal Event ===

	// EventDisposalEnter signals an atom's component entered the disposal area
	// Trigger: Tracker proximity detection
	// Consumer: Disposal | Payload: *AtomPayload
	EventDisposalEnter

	// EventDisposalLeave signals the component left the disposal area
	// Trigger: Tracker proximity detection
	// Consumer: Disposal | Payload: nil
	EventDisposalLeave

	// === Engine Event ===

	// EventTuningUpdate applies new countdown durations and radii at the next tick boundary
	// Trigger: Config watcher
	// Consumer: ClockScheduler | Payload: *TuningPayload
	EventTuningUpdate

	// EventResetRequest forces a full coordinator reset
	// Trigger: Terminal command, tests
	// Consumer: Coordinator | Payload: nil
	EventResetRequest

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	EventNone:                 "None",
	EventAtomProximityEnter:   "AtomProximityEnter",
	EventAtomProximityLeave:   "AtomProximityLeave",
	EventSnapProximityEnter:   "SnapProximityEnter",
	EventSnapProximityLeave:   "SnapProximityLeave",
	EventBondProximityEnter:   "BondProximityEnter",
	EventBondProximityLeave:   "BondProximityLeave",
	EventExtendedGestureStart: "ExtendedGestureStart",
	EventExtendedGestureEnd:   "ExtendedGestureEnd",
	EventInputPointUpdate:     "InputPointUpdate",
	EventDisposalEnter:        "DisposalEnter",
	EventDisposalLeave:        "DisposalLeave",
	EventTuningUpdate:         "TuningUpdate",
	EventResetRequest:         "ResetRequest",
}

// String returns the event name used in logs
func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "Unknown"
	}
	return eventNames[t]
}

// ParseEventType returns the EventType for a name, case-sensitive
func ParseEventType(name string) (EventType, bool) {
	for i, n := range eventNames {
		if n == name && EventType(i) != EventNone {
			return EventType(i), true
		}
	}
	return EventNone, false
}

// GameEvent represents a single routed event
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    uint64 // Tick number when pushed, 0 if pushed outside the loop
}
