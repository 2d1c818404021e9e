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

// atomSession is the per-process state of atom selection
type atomSession struct {
	highlighted molecule.AtomID // hovered atom carrying a Basic highlight
	first       molecule.AtomID // confirmed first atom
	second      molecule.AtomID // candidate second atom under bond selection
	rejected    molecule.AtomID // atom shown as rejected
}

// AtomSelection confirms the first atom with a countdown and picks the second atom by proximity
// Idle -> Highlighted -> PendingFirstConfirm -> FirstConfirmed -> AwaitingSecondAtom
// -> HighlightedSecond -> PendingSecondConfirm, then reset by the merge
type AtomSelection struct {
	world  *engine.World
	logger *zap.Logger
	coord  *Coordinator
	bonds  *BondSelection

	countdown *engine.Countdown
	m         *fsm.Machine[*AtomSelection]
	s         atomSession
}

// NewAtomSelection creates an idle atom selection engine
func NewAtomSelection(world *engine.World, coord *Coordinator) *AtomSelection {
	a := &AtomSelection{
		world:     world,
		logger:    world.Logger.Named("atom_selection"),
		coord:     coord,
		countdown: engine.NewCountdown(world.Sink),
		m:         newAtomMachine(),
	}
	if err := a.m.Init(a, atomIdle); err != nil {
		panic(err)
	}
	return a
}

// Name returns system's name
func (a *AtomSelection) Name() string {
	return "atom_selection"
}

// Priority returns the system's priority
func (a *AtomSelection) Priority() int {
	return parameter.PriorityAtomSelection
}

// EventTypes returns the event types AtomSelection handles
func (a *AtomSelection) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventAtomProximityEnter,
		event.EventAtomProximityLeave,
		event.EventExtendedGestureStart,
		event.EventExtendedGestureEnd,
	}
}

// HandleEvent routes proximity and construction gesture events
func (a *AtomSelection) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventAtomProximityEnter:
		if p, ok := ev.Payload.(*event.AtomPayload); ok {
			a.OnAtomEnter(p.Atom)
		}
	case event.EventAtomProximityLeave:
		a.OnLeaveProximity()
	case event.EventExtendedGestureStart:
		if p, ok := ev.Payload.(*event.GesturePayload); ok && p.Kind == event.ProcessConstruction {
			a.OnExtendedTrigger(p.Channel)
		}
	case event.EventExtendedGestureEnd:
		if p, ok := ev.Payload.(*event.GesturePayload); ok && p.Kind == event.ProcessConstruction {
			a.OnTriggerRelease()
		}
	}
}

// Update advances the first-atom confirm countdown and the state machine
func (a *AtomSelection) Update(dt time.Duration) {
	a.countdown.Update(dt)
	a.m.Update(a, dt)
}

// OnAtomEnter handles the input point entering an atom's proximity
func (a *AtomSelection) OnAtomEnter(id molecule.AtomID) {
	if !a.world.Affordances.Enabled(engine.AffordanceSelection) {
		return
	}
	if !a.world.Graph.HasAtom(id) {
		a.logger.Debug("proximity on unknown atom", zap.String("atom", string(id)))
		return
	}
	if a.bonds != nil {
		a.bonds.CheckSameAtom(id)
	}
	if a.Locked() {
		return
	}

	if !a.FindingSecond() {
		if a.s.highlighted != "" && a.s.highlighted != id {
			a.world.Sink.SetHighlight(render.AtomTarget(a.s.highlighted), render.HighlightNone)
		}
		a.s.highlighted = id
		a.world.Sink.SetHighlight(render.AtomTarget(id), render.HighlightBasic)
		a.m.Fire(a, trigHover)
		return
	}

	switch {
	case id == a.s.first:
		// Returning to the first atom abandons the process
		a.logger.Debug("first atom re-entered, cancelling", a.coord.sessionField())
		a.coord.ResetAll("cancelled")
	case a.world.Graph.SameComponent(a.s.first, id):
		a.logger.Debug("candidate shares the first atom's molecule",
			zap.String("atom", string(id)), a.coord.sessionField())
	case a.bonds != nil && a.bonds.IsRejected(id):
		a.logger.Debug("candidate was rejected earlier", zap.String("atom", string(id)), a.coord.sessionField())
	default:
		a.s.highlighted = id
		a.s.second = id
		a.prepareBondSelection(id, true)
	}
}

// OnExtendedTrigger starts the confirm countdown on the hovered atom
func (a *AtomSelection) OnExtendedTrigger(ch event.Channel) {
	if !a.world.Affordances.Enabled(engine.AffordanceSelection) {
		return
	}
	if !a.m.Can(trigArm) || !a.armable() {
		return
	}
	if !a.coord.CanBegin(event.ProcessConstruction) {
		a.world.Metrics.IncIgnored(event.ProcessConstruction.String())
		a.logger.Debug("construction trigger ignored",
			zap.Stringer("kind", molecule.KindExclusivityViolation),
			zap.Stringer("active", a.coord.Active()),
		)
		return
	}

	a.m.Fire(a, trigArm)
	a.logger.Debug("confirm countdown started",
		zap.String("atom", string(a.s.highlighted)), zap.Stringer("channel", ch))
}

// armable reports whether the hovered atom may be confirmed
func (a *AtomSelection) armable() bool {
	return a.s.highlighted != "" && (a.bonds == nil || !a.bonds.IsRejected(a.s.highlighted))
}

// startConfirm arms the countdown on entering PendingFirstConfirm
func (a *AtomSelection) startConfirm() {
	target := a.s.highlighted
	a.countdown.Start(a.world.Tuning().ConstructionCountdown,
		[]render.Target{render.AtomTarget(target)}, render.ColorConstruction,
		func() {
			a.world.Metrics.IncCountdown(event.ProcessConstruction.String(), "completed")
			a.prepareBondSelection(target, false)
		})
	a.world.Notify(engine.Outcome{
		Kind:    engine.OutcomeCountdownStarted,
		Process: event.ProcessConstruction,
		Atoms:   []molecule.AtomID{target},
	})
}

func (a *AtomSelection) snapPending() bool {
	return a.bonds != nil && a.bonds.Pending()
}

// OnTriggerRelease cancels a pending confirm countdown
func (a *AtomSelection) OnTriggerRelease() {
	a.cancelPending()
}

// OnLeaveProximity handles the input point leaving the hovered atom
func (a *AtomSelection) OnLeaveProximity() {
	if a.Locked() {
		return
	}
	a.cancelPending()

	if a.s.rejected != "" {
		a.world.Sink.SetHighlight(render.AtomTarget(a.s.rejected), render.HighlightNone)
		a.s.rejected = ""
	}
	if a.s.highlighted != "" && a.s.highlighted != a.s.first {
		a.world.Sink.SetHighlight(render.AtomTarget(a.s.highlighted), render.HighlightNone)
		a.s.highlighted = ""
	}
	a.m.Fire(a, trigLeave)
}

// FindSecondAtom unlocks selection for picking the second atom
func (a *AtomSelection) FindSecondAtom() {
	a.m.Fire(a, trigAwaitSecond)
	if a.s.second != "" {
		a.world.Sink.SetHighlight(render.AtomTarget(a.s.second), render.HighlightNone)
	}
	a.s.second = ""
	a.s.highlighted = ""
}

// cancelPending stops an unconfirmed countdown
func (a *AtomSelection) cancelPending() {
	if a.countdown.Stop() {
		a.world.Metrics.IncCountdown(event.ProcessConstruction.String(), "cancelled")
		a.world.Notify(engine.Outcome{Kind: engine.OutcomeCountdownCancelled, Process: event.ProcessConstruction})
		a.m.Fire(a, trigCancel)
	}
}

func (a *AtomSelection) prepareBondSelection(id molecule.AtomID, second bool) {
	atom, err := a.world.Graph.Atom(id)
	if err != nil {
		reportError(a.world, a.logger, "atom vanished before bond selection", err, a.coord.sessionField())
		a.coord.ResetAll("stale_reference")
		return
	}

	sess := a.coord.Begin(event.ProcessConstruction)
	if !second {
		a.registerChannel()
	}

	if len(atom.FreeSlots()) == 0 {
		err := molecule.NewError(molecule.KindSlotUnavailable, "select", string(id), nil)
		a.s.rejected = id
		a.m.Fire(a, trigRejected)
		if second {
			a.s.second = ""
		}
		a.world.Sink.SetHighlight(render.AtomTarget(id), render.HighlightRejected)
		a.world.Metrics.IncRejection()
		if a.bonds != nil {
			a.bonds.OnRejectedAtom(id)
		}
		a.world.Notify(engine.Outcome{
			Kind:    engine.OutcomeAtomRejected,
			Process: event.ProcessConstruction,
			Atoms:   []molecule.AtomID{id},
			Reason:  molecule.KindSlotUnavailable.String(),
		})
		a.logger.Info("atom rejected", zap.Stringer("session", sess.ID), zap.Error(err))
		return
	}

	if second {
		a.world.Sink.SetHighlight(render.AtomTarget(id), render.HighlightBasic)
	} else {
		a.s.first = id
		a.world.Sink.SetHighlight(render.AtomTarget(id), render.HighlightExtended)
	}
	a.m.Fire(a, trigSelected)
	a.world.Notify(engine.Outcome{
		Kind:    engine.OutcomeAtomSelected,
		Process: event.ProcessConstruction,
		Atoms:   []molecule.AtomID{id},
	})
	a.logger.Debug("atom selected",
		zap.Stringer("session", sess.ID),
		zap.String("atom", string(id)),
		zap.Bool("second", second),
	)
	if a.bonds != nil {
		a.bonds.Begin(id, second)
	}
}

// registerChannel binds the session to the hand whose gate is open
// Ambiguous when both or neither gate is open; the process then follows the latest input point
func (a *AtomSelection) registerChannel() {
	var open []event.Channel
	for _, ch := range event.Channels {
		if a.world.Tracker.GateActive(ch) {
			open = append(open, ch)
		}
	}
	if len(open) == 1 {
		a.coord.RegisterInputChannel(open[0])
		return
	}
	a.logger.Debug("input channel not registered", zap.Int("open_gates", len(open)))
}

// ResetToIdle clears countdown, highlights and session flags
func (a *AtomSelection) ResetToIdle() {
	a.countdown.Stop()
	for _, id := range []molecule.AtomID{a.s.highlighted, a.s.first, a.s.second, a.s.rejected} {
		if id != "" {
			a.world.Sink.SetHighlight(render.AtomTarget(id), render.HighlightNone)
		}
	}
	a.s = atomSession{}
	a.m.Reset(a)
}

// References reports whether id is part of the selection state
func (a *AtomSelection) References(id molecule.AtomID) bool {
	return id != "" && (id == a.s.first || id == a.s.second || id == a.s.highlighted)
}

// First returns the confirmed first atom
func (a *AtomSelection) First() molecule.AtomID {
	return a.s.first
}

// Second returns the current second atom candidate
func (a *AtomSelection) Second() molecule.AtomID {
	return a.s.second
}

// Highlighted returns the hovered atom
func (a *AtomSelection) Highlighted() molecule.AtomID {
	return a.s.highlighted
}

// Locked reports whether atom selection is blocked by bond selection
func (a *AtomSelection) Locked() bool {
	return a.m.In(atomLocked)
}

// FindingSecond reports whether the engine is waiting for a second atom
func (a *AtomSelection) FindingSecond() bool {
	return a.m.State() == atomAwaitingSecond
}

// State returns the name of the current selection state
func (a *AtomSelection) State() string {
	return a.m.StateName()
}

// Pending reports whether a confirm countdown is running
func (a *AtomSelection) Pending() bool {
	return a.countdown.Running()
}
