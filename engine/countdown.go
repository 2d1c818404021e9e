package engine

import (
	"time"

	"github.com/lixenwraith/molcraft/render"
)

// Countdown is a tick-driven confirm timer with progress visualization
// Not reentrant: Start stops any running countdown first, without firing it
type Countdown struct {
	sink render.Sink

	running    bool
	duration   time.Duration
	elapsed    time.Duration
	targets    []render.Target
	class      render.ColorClass
	onComplete func()
}

// NewCountdown creates an idle countdown reporting progress to sink
func NewCountdown(sink render.Sink) *Countdown {
	return &Countdown{sink: sink}
}

// Start arms the countdown; onComplete fires synchronously on the completing Update
func (c *Countdown) Start(d time.Duration, targets []render.Target, class render.ColorClass, onComplete func()) {
	c.Stop()
	c.running = true
	c.duration = d
	c.elapsed = 0
	c.targets = targets
	c.class = class
	c.onComplete = onComplete
	c.sink.SetProgress(c.targets, 0, c.class)
}

// Stop cancels without firing and clears the progress display
// Returns true if a countdown was running
func (c *Countdown) Stop() bool {
	if !c.running {
		return false
	}
	c.sink.SetProgress(c.targets, 0, c.class)
	c.clear()
	return true
}

// Running reports whether the countdown is armed
func (c *Countdown) Running() bool {
	return c.running
}

// Fraction returns progress in [0,1]; 0 when idle
func (c *Countdown) Fraction() float64 {
	if !c.running {
		return 0
	}
	if c.duration <= 0 {
		return 1
	}
	return min(float64(c.elapsed)/float64(c.duration), 1)
}

// Update advances progress by dt, firing onComplete once progress reaches 1
// The countdown self-clears before onComplete runs, so the callback may Start it again
func (c *Countdown) Update(dt time.Duration) {
	if !c.running {
		return
	}
	c.elapsed += dt

	if c.elapsed < c.duration {
		c.sink.SetProgress(c.targets, c.Fraction(), c.class)
		return
	}

	done := c.onComplete
	c.sink.SetProgress(c.targets, 0, c.class)
	c.clear()
	if done != nil {
		done()
	}
}

func (c *Countdown) clear() {
	c.running = false
	c.duration = 0
	c.elapsed = 0
	c.targets = nil
	c.onComplete = nil
}
