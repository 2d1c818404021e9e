package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/engine/fsm"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/parameter"
	"github.com/lixenwraith/molcraft/render"
)

// Disassembler removes a fixed bond after a destruction countdown
// and re-partitions the tree that held it
// Idle -> BondTargeted -> PendingConfirm -> Removed -> Repartitioned -> Idle
type Disassembler struct {
	world  *engine.World
	logger *zap.Logger
	coord  *Coordinator

	countdown *engine.Countdown
	m         *fsm.Machine[*Disassembler]
	hovered   molecule.BondID
	first     molecule.SlotRef
	second    molecule.SlotRef
	channel   event.Channel
}

// NewDisassembler creates an idle disassembler
func NewDisassembler(world *engine.World, coord *Coordinator) *Disassembler {
	d := &Disassembler{
		world:     world,
		logger:    world.Logger.Named("disassembler"),
		coord:     coord,
		countdown: engine.NewCountdown(world.Sink),
		m:         newBondMachine(),
	}
	if err := d.m.Init(d, bondIdle); err != nil {
		panic(err)
	}
	return d
}

// Name returns system's name
func (d *Disassembler) Name() string {
	return "disassembler"
}

// Priority returns the system's priority
func (d *Disassembler) Priority() int {
	return parameter.PriorityDisassembler
}

// EventTypes returns the event types Disassembler handles
func (d *Disassembler) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventBondProximityEnter,
		event.EventBondProximityLeave,
		event.EventExtendedGestureStart,
		event.EventExtendedGestureEnd,
	}
}

// HandleEvent routes bond proximity and destruction gesture events
func (d *Disassembler) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventBondProximityEnter:
		if p, ok := ev.Payload.(*event.BondPayload); ok {
			d.OnBondEnter(p.Bond)
		}
	case event.EventBondProximityLeave:
		d.OnBondLeave()
	case event.EventExtendedGestureStart:
		if p, ok := ev.Payload.(*event.GesturePayload); ok && p.Kind == event.ProcessDestruction {
			d.OnExtendedTrigger(p.Channel)
		}
	case event.EventExtendedGestureEnd:
		if p, ok := ev.Payload.(*event.GesturePayload); ok && p.Kind == event.ProcessDestruction {
			d.OnTriggerRelease()
		}
	}
}

// Update advances the destruction countdown
func (d *Disassembler) Update(dt time.Duration) {
	d.countdown.Update(dt)
}

// OnBondEnter highlights the bond under the input point
func (d *Disassembler) OnBondEnter(id molecule.BondID) {
	if !d.world.Affordances.Enabled(engine.AffordanceDestruction) || d.Pending() {
		return
	}
	if d.hovered != "" && d.hovered != id {
		d.world.Sink.SetHighlight(render.BondTarget(d.hovered), render.HighlightNone)
	}
	d.hovered = id
	d.world.Sink.SetHighlight(render.BondTarget(id), render.HighlightBasic)
	d.m.Fire(d, trigHover)
}

// OnBondLeave cancels any pending removal and clears the highlight
func (d *Disassembler) OnBondLeave() {
	if d.Pending() {
		d.world.Metrics.IncCountdown(event.ProcessDestruction.String(), "cancelled")
		d.world.Notify(engine.Outcome{Kind: engine.OutcomeCountdownCancelled, Process: event.ProcessDestruction})
	}
	d.ResetToIdle()
}

// OnTriggerRelease cancels a pending removal but keeps the hover highlight
func (d *Disassembler) OnTriggerRelease() {
	if d.countdown.Stop() {
		d.world.Metrics.IncCountdown(event.ProcessDestruction.String(), "cancelled")
		d.world.Notify(engine.Outcome{Kind: engine.OutcomeCountdownCancelled, Process: event.ProcessDestruction})
		d.world.Sink.SetHighlight(render.BondTarget(d.hovered), render.HighlightBasic)
		d.m.Fire(d, trigCancel)
	}
}

// OnExtendedTrigger validates the hovered bond and arms the destruction countdown
// A malformed identifier aborts locally without touching the graph
func (d *Disassembler) OnExtendedTrigger(ch event.Channel) {
	if !d.m.Can(trigArm) || !d.world.Affordances.Enabled(engine.AffordanceDestruction) {
		return
	}
	if !d.coord.CanBegin(event.ProcessDestruction) {
		d.world.Metrics.IncIgnored(event.ProcessDestruction.String())
		d.logger.Debug("destruction trigger ignored",
			zap.Stringer("kind", molecule.KindExclusivityViolation),
			zap.Stringer("active", d.coord.Active()),
		)
		return
	}

	first, second, err := molecule.ParseBondID(d.hovered)
	if err != nil {
		reportError(d.world, d.logger, "bond identifier rejected", err)
		d.ResetToIdle()
		return
	}
	if _, err := d.world.Graph.Bond(d.hovered); err != nil {
		reportError(d.world, d.logger, "bond no longer exists", err)
		d.ResetToIdle()
		return
	}

	d.first, d.second, d.channel = first, second, ch
	d.m.Fire(d, trigArm)
}

// startConfirm arms the countdown on entering PendingConfirm
func (d *Disassembler) startConfirm() {
	bond, ch := d.hovered, d.channel
	d.world.Sink.SetHighlight(render.BondTarget(bond), render.HighlightExtended)
	d.countdown.Start(d.world.Tuning().DestructionCountdown,
		[]render.Target{render.AtomTarget(d.first.Atom), render.AtomTarget(d.second.Atom)},
		render.ColorDestruction,
		func() { d.commit(bond, ch) },
	)
	d.world.Notify(engine.Outcome{
		Kind:    engine.OutcomeCountdownStarted,
		Process: event.ProcessDestruction,
		Atoms:   []molecule.AtomID{d.first.Atom, d.second.Atom},
		Bond:    bond,
	})
}

func (d *Disassembler) commit(id molecule.BondID, ch event.Channel) {
	d.world.Metrics.IncCountdown(event.ProcessDestruction.String(), "completed")
	if !d.coord.CanBegin(event.ProcessDestruction) {
		d.world.Metrics.IncIgnored(event.ProcessDestruction.String())
		d.ResetToIdle()
		return
	}

	sess := d.coord.Begin(event.ProcessDestruction)
	d.coord.RegisterInputChannel(ch)
	d.m.Fire(d, trigConfirmed)

	split, err := d.world.Graph.Disconnect(id)
	if err != nil {
		reportError(d.world, d.logger, "bond removal failed", err, zap.Stringer("session", sess.ID))
		d.ResetToIdle()
		d.coord.End(event.ProcessDestruction, "stale_reference")
		return
	}

	d.m.Fire(d, trigSplit)
	d.world.Metrics.IncSplit()
	d.logger.Info("bond removed",
		zap.Stringer("session", sess.ID),
		zap.String("bond", string(id)),
		zap.String("first", split.First.NodeName()),
		zap.String("second", split.Second.NodeName()),
	)
	d.world.Notify(engine.Outcome{
		Kind:    engine.OutcomeBondRemoved,
		Process: event.ProcessDestruction,
		Atoms:   []molecule.AtomID{d.first.Atom, d.second.Atom},
		Bond:    id,
	})

	d.ResetToIdle()
	d.coord.End(event.ProcessDestruction, "completed")
}

// ResetToIdle stops the countdown and clears the bond highlight
func (d *Disassembler) ResetToIdle() {
	d.countdown.Stop()
	if d.hovered != "" {
		d.world.Sink.SetHighlight(render.BondTarget(d.hovered), render.HighlightNone)
	}
	d.hovered = ""
	d.first = molecule.SlotRef{}
	d.second = molecule.SlotRef{}
	d.channel = event.ChannelNone
	d.m.Reset(d)
}

// References reports whether id is an endpoint of the pending removal
func (d *Disassembler) References(id molecule.AtomID) bool {
	return id != "" && (id == d.first.Atom || id == d.second.Atom)
}

// Hovered returns the highlighted bond
func (d *Disassembler) Hovered() molecule.BondID {
	return d.hovered
}

// Pending reports whether the destruction countdown is running
func (d *Disassembler) Pending() bool {
	return d.m.State() == bondPendingConfirm
}

// State returns the name of the current removal state
func (d *Disassembler) State() string {
	return d.m.StateName()
}
