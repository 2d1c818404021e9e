package system

import (
	"github.com/lixenwraith/molcraft/engine"
)

// Pipeline is the wired set of interaction engines sharing one world
type Pipeline struct {
	Coordinator  *Coordinator
	Atoms        *AtomSelection
	Bonds        *BondSelection
	Formation    *BondFormation
	Assembler    *Assembler
	Disassembler *Disassembler
	Disposal     *Disposal
}

// NewPipeline creates every engine and links their collaborators
func NewPipeline(world *engine.World) *Pipeline {
	coord := NewCoordinator(world)
	p := &Pipeline{
		Coordinator:  coord,
		Atoms:        NewAtomSelection(world, coord),
		Bonds:        NewBondSelection(world, coord),
		Formation:    NewBondFormation(world, coord),
		Assembler:    NewAssembler(world, coord),
		Disassembler: NewDisassembler(world, coord),
		Disposal:     NewDisposal(world, coord),
	}

	p.Atoms.bonds = p.Bonds
	p.Bonds.formation = p.Formation
	p.Formation.atoms = p.Atoms
	p.Formation.assembler = p.Assembler

	coord.attach(p.Atoms, p.Disassembler,
		p.Atoms, p.Bonds, p.Formation, p.Disassembler, p.Disposal)
	return p
}

// Systems returns the tick-driven engines in registration order
// Handlers sharing an event type run in this order
func (p *Pipeline) Systems() []engine.System {
	return []engine.System{
		p.Coordinator,
		p.Atoms,
		p.Bonds,
		p.Formation,
		p.Disassembler,
		p.Disposal,
	}
}

// Register adds every engine to the scheduler
func (p *Pipeline) Register(cs *engine.ClockScheduler) {
	for _, s := range p.Systems() {
		cs.AddSystem(s)
	}
}
