package parameter

import "time"

// Tick Loop & Engine Timing
const (
	// TickInterval is the default interaction logic update interval (clock tick)
	TickInterval = 20 * time.Millisecond

	// FrameUpdateInterval is the terminal redraw interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// MaxTickDelta caps the dt handed to systems after a stall, so countdowns cannot complete in one jump
	MaxTickDelta = 250 * time.Millisecond
)

// Event Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = 1023
)
