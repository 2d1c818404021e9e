package engine

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/event"
)

// InputPoints stores the latest fingertip position per channel
type InputPoints struct {
	points  map[event.Channel]r3.Vec
	latest  event.Channel
	updated bool
}

// NewInputPoints creates an empty store
func NewInputPoints() *InputPoints {
	return &InputPoints{points: make(map[event.Channel]r3.Vec)}
}

// Set records the position of ch and marks it as most recently updated
func (p *InputPoints) Set(ch event.Channel, pos r3.Vec) {
	p.points[ch] = pos
	p.latest = ch
	p.updated = true
}

// Get returns the position of ch, ok false if never reported
func (p *InputPoints) Get(ch event.Channel) (r3.Vec, bool) {
	pos, ok := p.points[ch]
	return pos, ok
}

// Resolve returns the position of ch, falling back to the most recently updated channel
// when ch is ChannelNone or has not reported yet
func (p *InputPoints) Resolve(ch event.Channel) (r3.Vec, bool) {
	if ch != event.ChannelNone {
		if pos, ok := p.points[ch]; ok {
			return pos, true
		}
	}
	if !p.updated {
		return r3.Vec{}, false
	}
	return p.points[p.latest], true
}

// Latest returns the most recently updated channel
func (p *InputPoints) Latest() event.Channel {
	return p.latest
}
