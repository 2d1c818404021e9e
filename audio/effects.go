package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType selects an oscillator shape
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// waveforms map a phase in [0, 1) to a sample in [-1, 1]
var waveforms = [...]func(phase float64) float64{
	WaveSine: func(p float64) float64 { return math.Sin(2 * math.Pi * p) },
	WaveSquare: func(p float64) float64 {
		if p < 0.5 {
			return 1
		}
		return -1
	},
	WaveSaw:   func(p float64) float64 { return 2*p - 1 },
	WaveNoise: func(float64) float64 { return rand.Float64()*2 - 1 },
}

// NewOscillator streams a mono wave duplicated on both channels and drains after duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	shape := waveforms[WaveSine]
	if int(wave) < len(waveforms) {
		shape = waveforms[wave]
	}
	step := freq / float64(rate)
	remaining := rate.N(duration)
	var phase float64

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n := min(len(samples), remaining)
		for i := range n {
			v := shape(phase)
			samples[i] = [2]float64{v, v}
			_, phase = math.Modf(phase + step)
		}
		remaining -= n
		return n, n > 0
	})
}

// envelope ramps gain up over attack samples and down over the last release samples
type envelope struct {
	src     beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

// NewEnvelope shapes s over duration with linear attack and release ramps
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		src:     s,
		total:   rate.N(duration),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

func (e *envelope) gain() float64 {
	left := e.total - e.pos
	switch {
	case e.release > 0 && left <= e.release && e.pos >= e.attack:
		return float64(left) / float64(e.release)
	case e.pos < e.attack:
		return float64(e.pos) / float64(e.attack)
	default:
		return 1
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if room := e.total - e.pos; room < len(samples) {
		samples = samples[:max(room, 0)]
	}
	if len(samples) == 0 {
		return 0, false
	}

	n, ok := e.src.Stream(samples)
	for i := range n {
		g := e.gain()
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.src.Err() }

// newVolume scales s linearly; effects.Volume works in log space so zero maps to Silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	v := &effects.Volume{Streamer: s, Base: 2}
	if vol <= 0 {
		v.Silent = true
	} else {
		v.Volume = math.Log2(vol)
	}
	return v
}

// tone is one enveloped note with a short click-free attack
func tone(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}
