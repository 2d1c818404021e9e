package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/molecule"
)

// Spawner instantiates template atoms into a graph's free pool
type Spawner struct {
	table  *Table
	graph  *molecule.Graph
	logger *zap.Logger
}

// NewSpawner creates a spawner bound to graph
func NewSpawner(table *Table, graph *molecule.Graph, logger *zap.Logger) *Spawner {
	return &Spawner{table: table, graph: graph, logger: logger.Named("spawner")}
}

// Spawn creates a new free atom of symbol at pos, named <Symbol><n>
func (s *Spawner) Spawn(symbol string, pos r3.Vec) (*molecule.Atom, error) {
	e, ok := s.table.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("spawn: unknown element %q", symbol)
	}

	id := NextID(s.graph, symbol)
	atom, err := s.graph.AddAtom(molecule.AtomSpec{
		ID:          id,
		Element:     e.Symbol,
		Position:    pos,
		SlotOffsets: SlotOffsets(e.Valence, e.Radius),
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", symbol, err)
	}

	s.logger.Debug("atom spawned",
		zap.String("atom", string(id)),
		zap.Int("valence", e.Valence),
	)
	return atom, nil
}

// NextID returns <symbol><n> with n one above the highest suffix in use for symbol
func NextID(g *molecule.Graph, symbol string) molecule.AtomID {
	highest := 0
	for _, a := range g.Atoms() {
		rest, ok := strings.CutPrefix(string(a.ID), symbol)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			continue
		}
		highest = max(highest, n)
	}
	return molecule.AtomID(symbol + strconv.Itoa(highest+1))
}
