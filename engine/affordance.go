package engine

// Affordance is an interaction detector family that a running process can suspend
type Affordance uint8

const (
	AffordanceSelection Affordance = iota
	AffordanceTransform
	AffordanceDestruction
	affordanceCount
)

func (a Affordance) String() string {
	switch a {
	case AffordanceSelection:
		return "selection"
	case AffordanceTransform:
		return "transform"
	case AffordanceDestruction:
		return "destruction"
	default:
		return "unknown"
	}
}

// Affordances tracks which detector families are enabled
// Queryable by collaborators so suspended detectors can be hidden
type Affordances struct {
	suspended [affordanceCount]bool
}

// NewAffordances returns a set with everything enabled
func NewAffordances() *Affordances {
	return &Affordances{}
}

// Suspend disables the given affordances
func (a *Affordances) Suspend(list ...Affordance) {
	for _, x := range list {
		a.suspended[x] = true
	}
}

// EnableAll re-enables every affordance
func (a *Affordances) EnableAll() {
	a.suspended = [affordanceCount]bool{}
}

// Enabled reports whether x is currently enabled
func (a *Affordances) Enabled(x Affordance) bool {
	return !a.suspended[x]
}
