package system

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/render"
)

// Assembler commits a confirmed slot pair as a fixed bond and merges both components
type Assembler struct {
	world  *engine.World
	logger *zap.Logger
	coord  *Coordinator
}

// NewAssembler creates an assembler bound to world
func NewAssembler(world *engine.World, coord *Coordinator) *Assembler {
	return &Assembler{
		world:  world,
		logger: world.Logger.Named("assembler"),
		coord:  coord,
	}
}

// Connect merges the components of first and second
// Any rejection leaves the graph untouched; the process is reset either way
func (m *Assembler) Connect(first, second molecule.SlotRef) {
	sessionField := m.coord.sessionField()

	if first.Atom == "" || second.Atom == "" {
		m.logger.Debug("connect with missing endpoint", sessionField)
		m.coord.ResetAll("incomplete")
		return
	}

	bond, err := m.world.Graph.Connect(first, second)
	if err != nil {
		reportError(m.world, m.logger, "merge rejected", err, sessionField,
			zap.Stringer("first", first), zap.Stringer("second", second))
		m.coord.ResetAll("merge_rejected")
		return
	}

	for _, ref := range []molecule.SlotRef{first, second} {
		m.world.Sink.SetHighlight(render.SlotTarget(ref), render.HighlightNone)
		m.world.Sink.SetHighlight(render.AtomTarget(ref.Atom), render.HighlightNone)
	}
	m.world.Sink.SetLineEndpoints(r3.Vec{}, r3.Vec{})

	m.world.Metrics.IncMerge()
	m.logger.Info("bond formed",
		sessionField,
		zap.String("bond", string(bond.ID)),
		zap.String("molecule", bond.Owner().NodeName()),
		zap.Float64("length", bond.Length),
	)
	m.world.Notify(engine.Outcome{
		Kind:    engine.OutcomeBondFormed,
		Process: event.ProcessConstruction,
		Atoms:   []molecule.AtomID{first.Atom, second.Atom},
		Bond:    bond.ID,
	})
	m.coord.ResetAll("completed")
}
