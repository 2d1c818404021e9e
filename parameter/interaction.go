package parameter

// Countdown progress runs from 0 to ProgressTarget at ProgressRate units per second
const (
	ProgressTarget = 100.0
	ProgressRate   = 70.0
)

// Countdown defaults in seconds
const (
	// ConstructionCountdown gates the first-atom confirm step
	ConstructionCountdown = ProgressTarget / ProgressRate

	// SnapCountdown gates the final snap-confirm step
	SnapCountdown = ProgressTarget / ProgressRate

	// DestructionCountdown gates fixed-bond removal
	DestructionCountdown = ProgressTarget / ProgressRate

	// DisposalCountdown gates removal of a component dropped into the disposal area
	DisposalCountdown = ProgressTarget / ProgressRate
)

// Proximity radii in world units
const (
	// AtomRadius is the selection radius around an atom center
	AtomRadius = 1.5

	// SnapRadius is the tighter radius around the second atom that triggers snapping
	SnapRadius = 0.6

	// BondRadius is the aim radius around a fixed bond midpoint
	BondRadius = 0.5

	// DisposalRadius is the disposal area radius around its center
	DisposalRadius = 2.0
)
