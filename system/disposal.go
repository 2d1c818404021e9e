package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/parameter"
	"github.com/lixenwraith/molcraft/render"
)

// Disposal removes a whole component held inside the disposal area after a countdown
type Disposal struct {
	world  *engine.World
	logger *zap.Logger
	coord  *Coordinator

	countdown *engine.Countdown
	atom      molecule.AtomID
}

// NewDisposal creates an idle disposal system
func NewDisposal(world *engine.World, coord *Coordinator) *Disposal {
	return &Disposal{
		world:     world,
		logger:    world.Logger.Named("disposal"),
		coord:     coord,
		countdown: engine.NewCountdown(world.Sink),
	}
}

// Name returns system's name
func (d *Disposal) Name() string {
	return "disposal"
}

// Priority returns the system's priority
func (d *Disposal) Priority() int {
	return parameter.PriorityDisposal
}

// EventTypes returns the event types Disposal handles
func (d *Disposal) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventDisposalEnter,
		event.EventDisposalLeave,
	}
}

// HandleEvent routes disposal zone events
func (d *Disposal) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventDisposalEnter:
		if p, ok := ev.Payload.(*event.AtomPayload); ok {
			d.OnEnter(p.Atom)
		}
	case event.EventDisposalLeave:
		d.OnLeave()
	}
}

// Update advances the disposal countdown
func (d *Disposal) Update(dt time.Duration) {
	d.countdown.Update(dt)
}

// OnEnter arms the countdown over every atom of the component containing id
// Blocked while a construction process holds exclusivity
func (d *Disposal) OnEnter(id molecule.AtomID) {
	if d.coord.Active() == event.ProcessConstruction {
		d.world.Metrics.IncIgnored("disposal")
		return
	}
	comp, err := d.world.Graph.Component(id)
	if err != nil {
		d.logger.Debug("disposal on unknown atom", zap.String("atom", string(id)))
		return
	}

	atoms := comp.Atoms()
	targets := make([]render.Target, len(atoms))
	for i, a := range atoms {
		targets[i] = render.AtomTarget(a.ID)
	}
	d.atom = id
	d.countdown.Start(d.world.Tuning().DisposalCountdown, targets, render.ColorDestruction, d.commit)
}

// OnLeave cancels a pending disposal
func (d *Disposal) OnLeave() {
	if d.countdown.Stop() {
		d.world.Metrics.IncCountdown("disposal", "cancelled")
	}
	d.atom = ""
}

func (d *Disposal) commit() {
	id := d.atom
	d.atom = ""
	d.world.Metrics.IncCountdown("disposal", "completed")

	if d.coord.Active() == event.ProcessConstruction {
		d.world.Metrics.IncIgnored("disposal")
		return
	}
	removed, err := d.world.Graph.Dispose(id)
	if err != nil {
		reportError(d.world, d.logger, "disposal target vanished", err)
		return
	}

	d.world.Metrics.IncDisposal(len(removed))
	d.logger.Info("component disposed", zap.String("atom", string(id)), zap.Int("atoms", len(removed)))
	for _, a := range removed {
		d.world.Sink.SetHighlight(render.AtomTarget(a), render.HighlightNone)
	}
	d.world.Notify(engine.Outcome{Kind: engine.OutcomeDisposed, Atoms: removed})
	d.coord.Invalidate(removed)
}

func (d *Disposal) ResetToIdle() {
	d.countdown.Stop()
	d.atom = ""
}

// Pending reports whether a disposal countdown is running
func (d *Disposal) Pending() bool {
	return d.countdown.Running()
}
