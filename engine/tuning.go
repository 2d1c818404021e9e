package engine

import (
	"time"

	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/parameter"
)

// DefaultTuning returns countdowns and radii from parameter defaults
func DefaultTuning() event.Tuning {
	return event.Tuning{
		ConstructionCountdown: seconds(parameter.ConstructionCountdown),
		SnapCountdown:         seconds(parameter.SnapCountdown),
		DestructionCountdown:  seconds(parameter.DestructionCountdown),
		DisposalCountdown:     seconds(parameter.DisposalCountdown),
		AtomRadius:            parameter.AtomRadius,
		SnapRadius:            parameter.SnapRadius,
		BondRadius:            parameter.BondRadius,
		DisposalRadius:        parameter.DisposalRadius,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
