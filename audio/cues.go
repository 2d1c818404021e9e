package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/molcraft/engine"
)

// Cue identifies a feedback sound
type Cue int

const (
	CueNone Cue = iota
	CueCountdown
	CueSelected
	CueRejected
	CueBonded
	CueUnbonded
	CueDisposed
)

func (c Cue) String() string {
	switch c {
	case CueCountdown:
		return "countdown"
	case CueSelected:
		return "selected"
	case CueRejected:
		return "rejected"
	case CueBonded:
		return "bonded"
	case CueUnbonded:
		return "unbonded"
	case CueDisposed:
		return "disposed"
	default:
		return "none"
	}
}

// CueFor maps a process outcome to its sound; resets and cancellations are silent
func CueFor(kind engine.OutcomeKind) Cue {
	switch kind {
	case engine.OutcomeCountdownStarted:
		return CueCountdown
	case engine.OutcomeAtomSelected:
		return CueSelected
	case engine.OutcomeAtomRejected:
		return CueRejected
	case engine.OutcomeBondFormed:
		return CueBonded
	case engine.OutcomeBondRemoved:
		return CueUnbonded
	case engine.OutcomeDisposed:
		return CueDisposed
	default:
		return CueNone
	}
}

// Sound builds the finite streamer for cue at volume
func Sound(cue Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch cue {
	case CueCountdown:
		s = tone(660, 40*time.Millisecond, WaveSine, rate)
	case CueSelected:
		s = tone(880, 80*time.Millisecond, WaveSine, rate)
	case CueRejected:
		s = tone(110, 180*time.Millisecond, WaveSaw, rate)
	case CueBonded:
		// Rising fifth
		s = beep.Seq(
			tone(523.25, 90*time.Millisecond, WaveSquare, rate),
			tone(783.99, 140*time.Millisecond, WaveSquare, rate),
		)
	case CueUnbonded:
		s = beep.Seq(
			tone(783.99, 90*time.Millisecond, WaveSaw, rate),
			tone(392.00, 140*time.Millisecond, WaveSaw, rate),
		)
	case CueDisposed:
		s = tone(0, 250*time.Millisecond, WaveNoise, rate)
	default:
		return nil
	}
	return newVolume(s, volume)
}
