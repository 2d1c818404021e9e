package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/input"
	"github.com/lixenwraith/molcraft/parameter"
	"github.com/lixenwraith/molcraft/render"
	"github.com/lixenwraith/molcraft/status"
)

// FrameSource yields the latest graph snapshot
type FrameSource interface {
	Frame() *engine.Frame
}

// Muter silences feedback cues
type Muter interface {
	SetMuted(muted bool)
}

// Deps are the collaborators of the terminal loop
type Deps struct {
	Tracker *input.Tracker
	Keys    *input.KeyTable
	Frames  FrameSource
	Visual  *render.Store
	Board   *status.Board
	Events  *event.Queue
	Muter   Muter // optional
	Logger  *zap.Logger

	Zone       r3.Vec
	ZoneRadius float64
}

// Loop polls keys and redraws the screen at a fixed rate
// It never touches the graph; hand intents go through the tracker and resets through the event queue
type Loop struct {
	screen   tcell.Screen
	renderer *Renderer
	deps     Deps
	muted    bool
	logger   *zap.Logger
}

// NewLoop binds a loop to an initialized screen
func NewLoop(screen tcell.Screen, renderer *Renderer, deps Deps) *Loop {
	if deps.Keys == nil {
		deps.Keys = input.DefaultKeyTable()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		screen:   screen,
		renderer: renderer,
		deps:     deps,
		logger:   logger.Named("terminal"),
	}
}

// Run blocks until ctx is done or a quit key is pressed
func (l *Loop) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	l.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !l.Handle(ev) {
				l.logger.Info("quit requested")
				return nil
			}
		case <-ticker.C:
			l.Draw()
		}
	}
}

// Handle applies one terminal event, returning false on quit
func (l *Loop) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		l.renderer.Resize()
		l.screen.Sync()

	case *tcell.EventKey:
		in, ok := l.deps.Keys.Lookup(ev)
		if !ok {
			return true
		}
		switch in.Type {
		case input.IntentQuit:
			return false
		case input.IntentReset:
			l.deps.Events.Emit(event.EventResetRequest, nil)
		case input.IntentToggleMute:
			l.muted = !l.muted
			if l.deps.Muter != nil {
				l.deps.Muter.SetMuted(l.muted)
			}
			l.logger.Debug("mute toggled", zap.Bool("muted", l.muted))
		default:
			if in.Hand() && l.deps.Tracker != nil {
				l.deps.Tracker.Apply(in)
			}
		}
	}
	return true
}

// Draw renders the current state
func (l *Loop) Draw() {
	l.renderer.Draw(l.Scene())
}

// Scene assembles the current state from the off-tick readers
func (l *Loop) Scene() Scene {
	s := Scene{
		Board:      l.deps.Board,
		Zone:       l.deps.Zone,
		ZoneRadius: l.deps.ZoneRadius,
	}
	if l.deps.Frames != nil {
		s.Frame = l.deps.Frames.Frame()
	}
	if l.deps.Visual != nil {
		s.Visual = l.deps.Visual.Snapshot()
	}
	if tr := l.deps.Tracker; tr != nil {
		focus := tr.Focus()
		for _, ch := range event.Channels {
			h := tr.Hand(ch)
			s.Hands = append(s.Hands, HandMarker{
				Channel:  ch,
				Position: h.Position,
				Alive:    h.Alive,
				Gate:     h.Gate,
				Focus:    ch == focus,
			})
		}
	}
	return s
}
