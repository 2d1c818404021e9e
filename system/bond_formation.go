package system

import (
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/parameter"
	"github.com/lixenwraith/molcraft/render"
)

// BondFormation owns the provisional bond line between the first slot and the input point
type BondFormation struct {
	world     *engine.World
	logger    *zap.Logger
	coord     *Coordinator
	atoms     *AtomSelection
	assembler *Assembler

	active  bool
	first   molecule.SlotRef
	start   r3.Vec
	end     r3.Vec
	snap    r3.Vec
	snapped bool
}

// NewBondFormation creates an idle bond formation engine
func NewBondFormation(world *engine.World, coord *Coordinator) *BondFormation {
	return &BondFormation{
		world:  world,
		logger: world.Logger.Named("bond_formation"),
		coord:  coord,
	}
}

// Name returns system's name
func (f *BondFormation) Name() string {
	return "bond_formation"
}

// Priority returns the system's priority
func (f *BondFormation) Priority() int {
	return parameter.PriorityBondFormation
}

// EventTypes returns nil, BondFormation subscribes to no events
func (f *BondFormation) EventTypes() []event.EventType {
	return nil
}

// HandleEvent is a no-op, the line is driven by direct calls
func (f *BondFormation) HandleEvent(event.GameEvent) {}

// Update moves the free end of the line to the snap target or the input point
func (f *BondFormation) Update(time.Duration) {
	if !f.active {
		return
	}
	switch {
	case f.snapped:
		f.end = f.snap
	default:
		if pos, ok := f.world.Inputs.Resolve(f.coord.Registered()); ok {
			f.end = pos
		}
	}
	f.world.Sink.SetLineEndpoints(f.start, f.end)
}

// Start reserves the first slot, anchors the line on it and unlocks second-atom selection
func (f *BondFormation) Start(first molecule.SlotRef) {
	slot, err := f.world.Graph.Slot(first)
	if err != nil {
		reportError(f.world, f.logger, "first slot vanished", err, f.coord.sessionField())
		f.coord.ResetAll("stale_reference")
		return
	}
	if err := f.world.Graph.Reserve(first); err != nil {
		reportError(f.world, f.logger, "first slot unavailable", err, f.coord.sessionField())
		f.coord.ResetAll("slot_unavailable")
		return
	}

	f.active = true
	f.first = first
	f.start = slot.Anchor()
	f.end = f.start
	f.snapped = false
	f.world.Sink.SetHighlight(render.SlotTarget(first), render.HighlightExtended)
	f.world.Sink.SetLineEndpoints(f.start, f.end)
	f.logger.Debug("line anchored", f.coord.sessionField(), zap.Stringer("slot", first))

	f.atoms.FindSecondAtom()
}

// SetSnapTarget pins the line end on the second slot
func (f *BondFormation) SetSnapTarget(pos r3.Vec) {
	f.snap = pos
	f.snapped = true
}

// ClearSnapTarget lets the line end follow the input point again
func (f *BondFormation) ClearSnapTarget() {
	f.snapped = false
	f.snap = r3.Vec{}
}

// NeedNewSecondAtom returns to second-atom search while keeping the line
func (f *BondFormation) NeedNewSecondAtom() {
	f.ClearSnapTarget()
	f.atoms.FindSecondAtom()
}

// Finish fixes the line on the second slot and hands both slots to the assembler
func (f *BondFormation) Finish(second molecule.SlotRef) {
	if !f.active {
		f.logger.Debug("finish without an anchored line", zap.Stringer("slot", second))
		return
	}
	if slot, err := f.world.Graph.Slot(second); err == nil {
		f.end = slot.Anchor()
		f.world.Sink.SetLineEndpoints(f.start, f.end)
	}
	f.ClearSnapTarget()
	f.active = false
	f.assembler.Connect(f.first, second)
}

// First returns the anchored first slot
func (f *BondFormation) First() molecule.SlotRef {
	return f.first
}

// Active reports whether the provisional line is shown
func (f *BondFormation) Active() bool {
	return f.active
}

// Line returns the current provisional line endpoints
func (f *BondFormation) Line() (start, end r3.Vec) {
	return f.start, f.end
}

// ResetToIdle hides the line and releases the first slot if it is still reserved
func (f *BondFormation) ResetToIdle() {
	if f.first.Atom != "" {
		f.world.Graph.Release(f.first)
		f.world.Sink.SetHighlight(render.SlotTarget(f.first), render.HighlightNone)
	}
	*f = BondFormation{
		world:     f.world,
		logger:    f.logger,
		coord:     f.coord,
		atoms:     f.atoms,
		assembler: f.assembler,
	}
	f.world.Sink.SetLineEndpoints(r3.Vec{}, r3.Vec{})
}

// References reports whether id owns the anchored slot
func (f *BondFormation) References(id molecule.AtomID) bool {
	return id != "" && id == f.first.Atom
}
