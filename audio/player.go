package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/molcraft/engine"
)

// SampleRate is the speaker and synthesis rate
const SampleRate = beep.SampleRate(44100)

// Player turns process outcomes into feedback sounds
// Without Initialize cues accumulate in the mixer, which tests stream directly
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
	logger      *zap.Logger
}

// NewPlayer creates a player at volume in [0,1]
func NewPlayer(volume float64, logger *zap.Logger) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
		logger: logger.Named("audio"),
	}
}

// Initialize opens the speaker and starts the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences every pending cue
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
		speaker.Clear()
		p.initialized = false
		return
	}
	p.mixer.Clear()
}

// SetMuted toggles output without dropping the speaker
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Play queues cue on the mixer
func (p *Player) Play(cue Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted {
		return
	}
	s := Sound(cue, SampleRate, p.volume)
	if s == nil {
		return
	}

	if p.initialized {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	} else {
		p.mixer.Add(s)
	}
	p.logger.Debug("cue", zap.Stringer("cue", cue))
}

// OnOutcome implements engine.Listener
func (p *Player) OnOutcome(o engine.Outcome) {
	p.Play(CueFor(o.Kind))
}

// Mixer exposes the output stream
func (p *Player) Mixer() *beep.Mixer {
	return p.mixer
}
