package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/parameter"
)

// Coordinator owns the single active interaction process
// It grants exclusivity, tracks the registered input channel, polls liveness
// and returns every engine to idle on reset
type Coordinator struct {
	world  *engine.World
	logger *zap.Logger

	atoms        *AtomSelection
	disassembler *Disassembler
	resetters    []engine.Resetter

	session   *Session
	resetting bool
}

// NewCoordinator creates an idle coordinator
func NewCoordinator(world *engine.World) *Coordinator {
	return &Coordinator{
		world:  world,
		logger: world.Logger.Named("coordinator"),
	}
}

// Name returns system's name
func (c *Coordinator) Name() string {
	return "coordinator"
}

// Priority returns the system's priority, liveness is checked before any engine updates
func (c *Coordinator) Priority() int {
	return parameter.PriorityCoordinator
}

// EventTypes returns the event types Coordinator handles
func (c *Coordinator) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventInputPointUpdate,
		event.EventResetRequest,
	}
}

// HandleEvent stores fingertip positions and honors explicit reset requests
func (c *Coordinator) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventInputPointUpdate:
		if p, ok := ev.Payload.(*event.InputPointPayload); ok {
			c.world.Inputs.Set(p.Channel, p.Position)
		}
	case event.EventResetRequest:
		c.ResetAll("requested")
	}
}

// Update polls the tracker for the registered channel
// Losing the channel mid-process is treated as an abort
func (c *Coordinator) Update(time.Duration) {
	if c.session == nil || c.session.Channel == event.ChannelNone {
		return
	}
	if !c.world.Tracker.Alive(c.session.Channel) {
		c.logger.Info("input channel lost",
			zap.Stringer("session", c.session.ID),
			zap.Stringer("channel", c.session.Channel),
		)
		c.ResetAll("liveness_lost")
	}
}

// attach records the engines reset by ResetAll, in reset order
func (c *Coordinator) attach(atoms *AtomSelection, disassembler *Disassembler, resetters ...engine.Resetter) {
	c.atoms = atoms
	c.disassembler = disassembler
	c.resetters = resetters
}

// CanBegin reports whether a process of kind may start or continue
func (c *Coordinator) CanBegin(kind event.ProcessKind) bool {
	return c.session == nil || c.session.Kind == kind
}

// Begin opens a session for kind, or returns the running one of the same kind
// Callers must check CanBegin first
func (c *Coordinator) Begin(kind event.ProcessKind) *Session {
	if c.session != nil {
		return c.session
	}
	c.session = newSession(kind, c.world.Tick())

	switch kind {
	case event.ProcessConstruction:
		c.world.Affordances.Suspend(engine.AffordanceDestruction, engine.AffordanceTransform)
		if c.disassembler != nil {
			c.disassembler.ResetToIdle()
		}
	case event.ProcessDestruction:
		c.world.Affordances.Suspend(engine.AffordanceSelection, engine.AffordanceTransform)
		if c.atoms != nil {
			c.atoms.cancelPending()
		}
	}

	c.world.Metrics.SetProcess(kind.String(), event.ChannelNone.String())
	c.logger.Debug("process started",
		zap.Stringer("session", c.session.ID),
		zap.Stringer("process", kind),
	)
	return c.session
}

// RegisterInputChannel binds the running session to ch
// No-op without a session or when a channel is already registered
func (c *Coordinator) RegisterInputChannel(ch event.Channel) {
	if c.session == nil || c.session.Channel != event.ChannelNone || ch == event.ChannelNone {
		return
	}
	c.session.Channel = ch
	c.world.Metrics.SetProcess(c.session.Kind.String(), ch.String())
	c.logger.Debug("input channel registered",
		zap.Stringer("session", c.session.ID),
		zap.Stringer("channel", ch),
	)
}

// End closes a session of kind without touching the other engines
func (c *Coordinator) End(kind event.ProcessKind, reason string) {
	if c.session == nil || c.session.Kind != kind {
		return
	}
	c.logger.Debug("process ended",
		zap.Stringer("session", c.session.ID),
		zap.String("reason", reason),
	)
	c.session = nil
	c.world.Affordances.EnableAll()
	c.world.Metrics.SetProcess(event.ProcessNone.String(), event.ChannelNone.String())
	c.world.Metrics.IncReset(reason)
}

// ResetAll returns every engine to idle, re-enables affordances,
// clears the registered channel and releases any reserved slot
// Re-entrant calls made while resetting are ignored
func (c *Coordinator) ResetAll(reason string) {
	if c.resetting {
		return
	}
	c.resetting = true
	defer func() { c.resetting = false }()

	fields := []zap.Field{zap.String("reason", reason)}
	if c.session != nil {
		fields = append(fields, zap.Stringer("session", c.session.ID), zap.Stringer("process", c.session.Kind))
	}
	c.logger.Debug("reset", fields...)

	for _, r := range c.resetters {
		r.ResetToIdle()
	}
	released := c.world.Graph.ReleaseAll()
	if released > 0 {
		c.logger.Debug("reservations released", zap.Int("slots", released))
	}

	kind := event.ProcessNone
	if c.session != nil {
		kind = c.session.Kind
	}
	c.session = nil
	c.world.Affordances.EnableAll()
	c.world.Metrics.SetProcess(event.ProcessNone.String(), event.ChannelNone.String())
	c.world.Metrics.IncReset(reason)
	c.world.Notify(engine.Outcome{Kind: engine.OutcomeReset, Process: kind, Reason: reason})
}

// Invalidate resets everything if any engine still references a removed atom
func (c *Coordinator) Invalidate(removed []molecule.AtomID) {
	for _, id := range removed {
		for _, r := range c.resetters {
			if ref, ok := r.(referencer); ok && ref.References(id) {
				c.logger.Info("engine state referenced removed atom", zap.String("atom", string(id)))
				c.world.Metrics.IncError(molecule.KindStaleReference.String())
				c.ResetAll("stale_reference")
				return
			}
		}
	}
}

// Session returns the running session, nil when idle
func (c *Coordinator) Session() *Session {
	return c.session
}

// Active returns the running process kind
func (c *Coordinator) Active() event.ProcessKind {
	if c.session == nil {
		return event.ProcessNone
	}
	return c.session.Kind
}

// Registered returns the channel bound to the running session
func (c *Coordinator) Registered() event.Channel {
	if c.session == nil {
		return event.ChannelNone
	}
	return c.session.Channel
}

func (c *Coordinator) sessionField() zap.Field {
	if c.session == nil {
		return zap.Skip()
	}
	return zap.Stringer("session", c.session.ID)
}

// referencer is implemented by engines that hold atom ids across ticks
type referencer interface {
	References(id molecule.AtomID) bool
}
