package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityTracker       = 5  // Emits proximity events consumed on the next tick
	PriorityCoordinator   = 10 // Liveness poll before any engine advances
	PriorityAtomSelection = 20
	PriorityBondSelection = 30 // Nearest-slot tracking uses the input point of this tick
	PriorityBondFormation = 40 // Line end follows the snap target chosen by bond selection
	PriorityDisassembler  = 50
	PriorityDisposal      = 60
)
