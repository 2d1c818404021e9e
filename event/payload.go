package event

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/molecule"
)

// Channel identifies an input source (hand)
type Channel uint8

const (
	ChannelNone Channel = iota
	ChannelLeft
	ChannelRight
)

func (c Channel) String() string {
	switch c {
	case ChannelLeft:
		return "left"
	case ChannelRight:
		return "right"
	default:
		return "none"
	}
}

// Channels lists the trackable channels in polling order
var Channels = [...]Channel{ChannelLeft, ChannelRight}

// ProcessKind distinguishes construction from destruction gestures and processes
type ProcessKind uint8

const (
	ProcessNone ProcessKind = iota
	ProcessConstruction
	ProcessDestruction
)

func (k ProcessKind) String() string {
	switch k {
	case ProcessConstruction:
		return "construction"
	case ProcessDestruction:
		return "destruction"
	default:
		return "none"
	}
}

// AtomPayload references an atom by id; resolved against the graph at dispatch
type AtomPayload struct {
	Atom molecule.AtomID `toml:"atom"`
}

// BondPayload references a fixed bond by its identifier
type BondPayload struct {
	Bond molecule.BondID `toml:"bond"`
}

// GesturePayload carries the channel and the gesture kind for extended gestures
type GesturePayload struct {
	Channel Channel     `toml:"channel"`
	Kind    ProcessKind `toml:"kind"`
}

// InputPointPayload carries a fingertip position in world space
type InputPointPayload struct {
	Channel  Channel `toml:"channel"`
	Position r3.Vec  `toml:"position"`
}

// Tuning holds runtime-adjustable countdown durations and proximity radii
type Tuning struct {
	ConstructionCountdown time.Duration
	SnapCountdown         time.Duration
	DestructionCountdown  time.Duration
	DisposalCountdown     time.Duration

	AtomRadius     float64
	SnapRadius     float64
	BondRadius     float64
	DisposalRadius float64
}

// TuningPayload carries a replacement Tuning
type TuningPayload struct {
	Tuning Tuning
}
