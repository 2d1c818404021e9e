package engine

import (
	"time"

	"github.com/lixenwraith/molcraft/event"
)

// System is a tick-driven interaction engine
// HandleEvent runs during the dispatch phase; Update runs once per tick in priority order
type System interface {
	Name() string
	// Priority orders Update calls, lower runs first
	Priority() int
	EventTypes() []event.EventType
	HandleEvent(ev event.GameEvent)
	Update(dt time.Duration)
}

// Resetter is implemented by systems holding ephemeral process state
// ResetToIdle must be callable at any point and leave no timers, highlights or reservations behind
type Resetter interface {
	ResetToIdle()
}
