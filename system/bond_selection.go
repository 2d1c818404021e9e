package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/parameter"
	"github.com/lixenwraith/molcraft/render"
	"github.com/lixenwraith/molcraft/vmath"
)

// bondSession tracks the atom whose slots are being offered
type bondSession struct {
	atom       molecule.AtomID
	second     bool
	candidates []molecule.SlotID
	nearest    molecule.SlotID
	finding    bool
	snapped    bool

	// repeat is set when the current second atom is entered again
	repeat bool
}

// BondSelection highlights the free slot nearest to the input point
// and confirms the second slot with a snap countdown
type BondSelection struct {
	world     *engine.World
	logger    *zap.Logger
	coord     *Coordinator
	formation *BondFormation

	countdown *engine.Countdown
	s         bondSession
	rejected  map[molecule.AtomID]struct{}
}

// NewBondSelection creates an idle bond selection engine
func NewBondSelection(world *engine.World, coord *Coordinator) *BondSelection {
	return &BondSelection{
		world:     world,
		logger:    world.Logger.Named("bond_selection"),
		coord:     coord,
		countdown: engine.NewCountdown(world.Sink),
		rejected:  make(map[molecule.AtomID]struct{}),
	}
}

// Name returns system's name
func (b *BondSelection) Name() string {
	return "bond_selection"
}

// Priority returns the system's priority
func (b *BondSelection) Priority() int {
	return parameter.PriorityBondSelection
}

// EventTypes returns the event types BondSelection handles
func (b *BondSelection) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventAtomProximityLeave,
		event.EventSnapProximityEnter,
		event.EventSnapProximityLeave,
	}
}

// HandleEvent routes atom proximity leave and snap proximity events
func (b *BondSelection) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventAtomProximityLeave:
		b.OnLeaveBondProximity()
	case event.EventSnapProximityEnter:
		if p, ok := ev.Payload.(*event.AtomPayload); ok {
			b.OnSnapEnter(p.Atom)
		}
	case event.EventSnapProximityLeave:
		b.OnSnapLeave()
	}
}

// Update re-evaluates the nearest slot and drives the snap countdown
func (b *BondSelection) Update(dt time.Duration) {
	if b.s.atom == "" {
		return
	}
	if b.s.finding && !b.track() {
		return
	}

	if b.s.second && b.s.snapped && b.s.finding && b.s.nearest != "" {
		if slot, err := b.world.Graph.Slot(molecule.SlotRef{Atom: b.s.atom, Slot: b.s.nearest}); err == nil {
			b.formation.SetSnapTarget(slot.Anchor())
		}
		if !b.countdown.Running() {
			b.startSnapCountdown()
		}
	}
	b.countdown.Update(dt)
}

// Begin starts nearest-slot tracking on atom
// The slot chosen on the first atom keeps its highlight across the hand-off
func (b *BondSelection) Begin(id molecule.AtomID, second bool) {
	atom, err := b.world.Graph.Atom(id)
	if err != nil {
		reportError(b.world, b.logger, "bond selection on missing atom", err, b.coord.sessionField())
		b.coord.ResetAll("stale_reference")
		return
	}

	repeat := b.s.repeat && b.s.atom == id
	b.s = bondSession{atom: id, second: second, finding: true, repeat: repeat}
	for _, slot := range atom.FreeSlots() {
		b.s.candidates = append(b.s.candidates, slot.ID)
	}
	b.track()
}

// track moves the highlight to the nearest free candidate slot
// Ties resolve to the lower slot index; returns false if the engine was reset
func (b *BondSelection) track() bool {
	atom, err := b.world.Graph.Atom(b.s.atom)
	if err != nil {
		reportError(b.world, b.logger, "tracked atom removed", err, b.coord.sessionField())
		b.coord.ResetAll("stale_reference")
		return false
	}

	best := b.s.nearest
	if pos, ok := b.world.Inputs.Resolve(b.coord.Registered()); ok {
		bestDist := -1.0
		for _, id := range b.s.candidates {
			slot, ok := atom.Slot(id)
			if !ok || slot.State == molecule.SlotAssigned {
				continue
			}
			d := vmath.Distance(slot.Anchor(), pos)
			if bestDist < 0 || d < bestDist-vmath.Epsilon {
				best, bestDist = id, d
			}
		}
	}
	if best == "" && len(b.s.candidates) > 0 {
		best = b.s.candidates[0]
	}

	if best != b.s.nearest {
		if b.s.nearest != "" {
			b.world.Sink.SetHighlight(b.slotTarget(b.s.nearest), render.HighlightNone)
		}
		b.s.nearest = best
		if best != "" {
			b.world.Sink.SetHighlight(b.slotTarget(best), render.HighlightExtended)
		}
	}
	return true
}

func (b *BondSelection) slotTarget(id molecule.SlotID) render.Target {
	return render.SlotTarget(molecule.SlotRef{Atom: b.s.atom, Slot: id})
}

func (b *BondSelection) startSnapCountdown() {
	first := b.formation.First()
	targets := []render.Target{render.AtomTarget(first.Atom), render.AtomTarget(b.s.atom)}
	b.countdown.Start(b.world.Tuning().SnapCountdown, targets, render.ColorConstruction, b.finish)
	b.world.Notify(engine.Outcome{
		Kind:    engine.OutcomeCountdownStarted,
		Process: event.ProcessConstruction,
		Atoms:   []molecule.AtomID{first.Atom, b.s.atom},
	})
}

func (b *BondSelection) finish() {
	b.world.Metrics.IncCountdown(event.ProcessConstruction.String(), "completed")
	b.s.finding = false
	second := molecule.SlotRef{Atom: b.s.atom, Slot: b.s.nearest}
	b.logger.Debug("snap confirmed", b.coord.sessionField(), zap.Stringer("slot", second))
	b.formation.Finish(second)
}

// OnSnapEnter arms the snap countdown when the input point is close to the second atom
func (b *BondSelection) OnSnapEnter(id molecule.AtomID) {
	if !b.s.second || id != b.s.atom || b.IsRejected(id) {
		return
	}
	b.s.snapped = true
}

// OnSnapLeave cancels the snap countdown and lets the line follow the input point again
func (b *BondSelection) OnSnapLeave() {
	if !b.s.snapped {
		return
	}
	b.s.snapped = false
	if b.countdown.Stop() {
		b.world.Metrics.IncCountdown(event.ProcessConstruction.String(), "cancelled")
		b.world.Notify(engine.Outcome{Kind: engine.OutcomeCountdownCancelled, Process: event.ProcessConstruction})
	}
	b.formation.ClearSnapTarget()
}

// OnLeaveBondProximity freezes the search when the input point leaves the tracked atom
// On the first atom the nearest slot anchors the provisional line;
// on a second atom the candidate is dropped and a new one is awaited
func (b *BondSelection) OnLeaveBondProximity() {
	if !b.s.finding || b.s.atom == "" {
		return
	}
	b.s.finding = false

	if !b.s.second {
		b.formation.Start(molecule.SlotRef{Atom: b.s.atom, Slot: b.s.nearest})
		return
	}

	b.OnSnapLeave()
	if b.s.nearest != "" {
		b.world.Sink.SetHighlight(b.slotTarget(b.s.nearest), render.HighlightNone)
	}
	b.logger.Debug("second atom abandoned",
		b.coord.sessionField(),
		zap.String("atom", string(b.s.atom)),
		zap.Bool("repeat", b.s.repeat),
	)
	// The atom id is kept so a re-entry of the same atom can be recognized
	b.s = bondSession{atom: b.s.atom, repeat: b.s.repeat}
	b.formation.NeedNewSecondAtom()
}

// CheckSameAtom records whether id re-enters the last second-atom candidate
func (b *BondSelection) CheckSameAtom(id molecule.AtomID) {
	b.s.repeat = b.s.atom != "" && b.s.atom == id && !b.s.finding
}

// OnRejectedAtom excludes id from becoming a target until reset
func (b *BondSelection) OnRejectedAtom(id molecule.AtomID) {
	b.rejected[id] = struct{}{}
	if b.s.atom == id {
		b.countdown.Stop()
		b.s.snapped = false
	}
}

// IsRejected reports whether id was rejected during this process
func (b *BondSelection) IsRejected(id molecule.AtomID) bool {
	_, ok := b.rejected[id]
	return ok
}

// ResetToIdle stops the snap countdown and clears slot highlights
func (b *BondSelection) ResetToIdle() {
	b.countdown.Stop()
	if b.s.atom != "" && b.s.nearest != "" {
		b.world.Sink.SetHighlight(b.slotTarget(b.s.nearest), render.HighlightNone)
	}
	b.s = bondSession{}
	clear(b.rejected)
}

// References reports whether id is the tracked atom
func (b *BondSelection) References(id molecule.AtomID) bool {
	return id != "" && id == b.s.atom && (b.s.finding || b.s.second)
}

// Tracking returns the atom under selection and its nearest slot
func (b *BondSelection) Tracking() (molecule.AtomID, molecule.SlotID) {
	return b.s.atom, b.s.nearest
}

// Repeat reports whether the current second atom was re-entered
func (b *BondSelection) Repeat() bool {
	return b.s.repeat
}

// Snapped reports whether the input point is within snap range of the second atom
func (b *BondSelection) Snapped() bool {
	return b.s.snapped
}

// Pending reports whether the snap countdown is running
func (b *BondSelection) Pending() bool {
	return b.countdown.Running()
}
