package molecule

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/vmath"
)

func addAtom(t *testing.T, g *Graph, id AtomID, valence int, pos r3.Vec) *Atom {
	t.Helper()
	offsets := make([]r3.Vec, valence)
	for i := range offsets {
		angle := 2 * math.Pi * float64(i) / float64(valence)
		offsets[i] = r3.Vec{X: 0.5 * math.Cos(angle), Y: 0.5 * math.Sin(angle)}
	}
	a, err := g.AddAtom(AtomSpec{ID: id, Element: string(id[:1]), Position: pos, SlotOffsets: offsets})
	require.NoError(t, err)
	return a
}

func ref(atom AtomID, slot SlotID) SlotRef {
	return SlotRef{Atom: atom, Slot: slot}
}

func atomIDs(n Node) []AtomID {
	var ids []AtomID
	for _, a := range n.Atoms() {
		ids = append(ids, a.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func allAtomIDs(g *Graph) []AtomID {
	var ids []AtomID
	for _, a := range g.Atoms() {
		ids = append(ids, a.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestAddAtom(t *testing.T) {
	g := NewGraph()
	a := addAtom(t, g, "O1", 2, r3.Vec{})

	assert.Equal(t, 2, a.Valence())
	assert.Equal(t, SlotID("s0"), a.Slots()[0].ID)
	assert.Equal(t, SlotID("s1"), a.Slots()[1].ID)
	assert.True(t, a.Free())
	assert.Equal(t, vmath.Identity(), a.Orientation)

	_, err := g.AddAtom(AtomSpec{ID: "O1"})
	assert.Error(t, err, "duplicate id")

	for _, bad := range []AtomID{"", "O-1", "O_1"} {
		_, err := g.AddAtom(AtomSpec{ID: bad})
		assert.Error(t, err, "id %q", bad)
	}
}

func TestLookupStaleReference(t *testing.T) {
	g := NewGraph()
	addAtom(t, g, "H1", 1, r3.Vec{})

	_, err := g.Atom("X9")
	assert.True(t, errors.Is(err, ErrStaleReference))

	_, err = g.Slot(ref("H1", "s7"))
	assert.True(t, errors.Is(err, ErrStaleReference))

	_, err = g.Bond("FixedBond_H1-s0_O1-s0")
	assert.True(t, errors.Is(err, ErrStaleReference))
}

func TestReserveRelease(t *testing.T) {
	g := NewGraph()
	addAtom(t, g, "O1", 2, r3.Vec{})
	addAtom(t, g, "H1", 1, r3.Vec{X: 3})

	require.NoError(t, g.Reserve(ref("O1", "s1")))
	s, _ := g.Slot(ref("O1", "s1"))
	assert.Equal(t, SlotReserved, s.State)
	require.NoError(t, g.Reserve(ref("O1", "s1")), "reserving twice is idempotent")

	g.Release(ref("O1", "s1"))
	assert.Equal(t, SlotFree, s.State)

	require.NoError(t, g.Reserve(ref("O1", "s0")))
	require.NoError(t, g.Reserve(ref("H1", "s0")))
	assert.Equal(t, 2, g.ReleaseAll())
	assert.NoError(t, g.Validate())

	_, err := g.Connect(ref("O1", "s0"), ref("H1", "s0"))
	require.NoError(t, err)
	err = g.Reserve(ref("O1", "s0"))
	assert.True(t, errors.Is(err, ErrSlotUnavailable))
}

func TestConnectWaterFragment(t *testing.T) {
	g := NewGraph()
	h := addAtom(t, g, "H1", 1, r3.Vec{X: -4, Y: 1})
	o := addAtom(t, g, "O1", 2, r3.Vec{X: 3, Z: 2})

	bond, err := g.Connect(ref("H1", "s0"), ref("O1", "s0"))
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	assert.Equal(t, BondID("FixedBond_H1-s0_O1-s0"), bond.ID)
	roots := g.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, []AtomID{"H1", "O1"}, atomIDs(roots[0]))
	assert.Len(t, roots[0].Bonds(), 1)
	assert.Empty(t, g.FreeAtoms())

	hs, _ := h.Slot("s0")
	os0, _ := o.Slot("s0")
	os1, _ := o.Slot("s1")
	assert.Equal(t, SlotAssigned, hs.State)
	assert.Equal(t, SlotAssigned, os0.State)
	assert.Equal(t, SlotFree, os1.State)

	assert.True(t, vmath.ApproxEqual(hs.Anchor(), os0.Anchor(), 1e-6), "anchors coincide")
	assert.InDelta(t, -1, r3.Dot(hs.Direction(), os0.Direction()), 1e-6, "slots face each other")
	assert.Equal(t, r3.Vec{X: -4, Y: 1}, h.Position, "first component stays put")
	assert.InDelta(t, 1.0, bond.Length, 1e-6)
	assert.True(t, vmath.ApproxEqual(bond.Midpoint, hs.Anchor(), 1e-6))
}

func TestConnectLeavesOtherSlotsAlone(t *testing.T) {
	g := NewGraph()
	addAtom(t, g, "C1", 4, r3.Vec{})
	addAtom(t, g, "N1", 3, r3.Vec{X: 5})
	require.NoError(t, g.Reserve(ref("C1", "s2")))

	before := map[SlotRef]SlotState{}
	for _, a := range g.Atoms() {
		for _, s := range a.Slots() {
			before[s.Ref()] = s.State
		}
	}

	_, err := g.Connect(ref("C1", "s2"), ref("N1", "s1"))
	require.NoError(t, err)

	for _, a := range g.Atoms() {
		for _, s := range a.Slots() {
			if s.Ref() == ref("C1", "s2") || s.Ref() == ref("N1", "s1") {
				assert.Equal(t, SlotAssigned, s.State)
				continue
			}
			assert.Equal(t, before[s.Ref()], s.State, s.Ref().String())
		}
	}
}

func TestConnectRejections(t *testing.T) {
	g := NewGraph()
	addAtom(t, g, "A", 2, r3.Vec{})
	addAtom(t, g, "B", 2, r3.Vec{X: 2})
	addAtom(t, g, "C", 1, r3.Vec{X: 4})
	_, err := g.Connect(ref("A", "s0"), ref("B", "s0"))
	require.NoError(t, err)

	tests := []struct {
		name          string
		first, second SlotRef
		want          error
	}{
		{"same atom", ref("C", "s0"), ref("C", "s0"), ErrInvalidMerge},
		{"same component", ref("A", "s1"), ref("B", "s1"), ErrInvalidMerge},
		{"assigned first", ref("A", "s0"), ref("C", "s0"), ErrSlotUnavailable},
		{"assigned second", ref("C", "s0"), ref("B", "s0"), ErrSlotUnavailable},
		{"unknown atom", ref("Z", "s0"), ref("C", "s0"), ErrStaleReference},
		{"unknown slot", ref("C", "s4"), ref("A", "s1"), ErrStaleReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rev := g.Revision()
			_, err := g.Connect(tt.first, tt.second)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, rev, g.Revision(), "graph untouched")
			assert.NoError(t, g.Validate())
		})
	}
}

// buildChain creates A-B-C with bonds A.s0-B.s0 then B.s1-C.s0
func buildChain(t *testing.T) (*Graph, BondID, BondID) {
	t.Helper()
	g := NewGraph()
	addAtom(t, g, "A", 2, r3.Vec{})
	addAtom(t, g, "B", 2, r3.Vec{X: 3})
	addAtom(t, g, "C", 2, r3.Vec{X: 6})

	ab, err := g.Connect(ref("A", "s0"), ref("B", "s0"))
	require.NoError(t, err)
	bc, err := g.Connect(ref("B", "s1"), ref("C", "s0"))
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	return g, ab.ID, bc.ID
}

func TestDisconnectChain(t *testing.T) {
	t.Run("remove A-B", func(t *testing.T) {
		g, ab, _ := buildChain(t)

		split, err := g.Disconnect(ab)
		require.NoError(t, err)
		require.NoError(t, g.Validate())

		roots := g.Roots()
		require.Len(t, roots, 1)
		assert.Equal(t, []AtomID{"B", "C"}, atomIDs(roots[0]))
		assert.Len(t, roots[0].Bonds(), 1)
		require.Len(t, g.FreeAtoms(), 1)
		assert.Equal(t, AtomID("A"), g.FreeAtoms()[0].ID)

		assert.Equal(t, []AtomID{"A"}, atomIDs(split.First))
		assert.Equal(t, []AtomID{"B", "C"}, atomIDs(split.Second))

		a, _ := g.Slot(ref("A", "s0"))
		b, _ := g.Slot(ref("B", "s0"))
		assert.Equal(t, SlotFree, a.State)
		assert.Equal(t, SlotFree, b.State)
	})

	t.Run("remove B-C", func(t *testing.T) {
		g, _, bc := buildChain(t)

		_, err := g.Disconnect(bc)
		require.NoError(t, err)
		require.NoError(t, g.Validate())

		roots := g.Roots()
		require.Len(t, roots, 1)
		assert.Equal(t, []AtomID{"A", "B"}, atomIDs(roots[0]))
		require.Len(t, g.FreeAtoms(), 1)
		assert.Equal(t, AtomID("C"), g.FreeAtoms()[0].ID)
	})

	t.Run("stale bond", func(t *testing.T) {
		g, ab, _ := buildChain(t)
		_, err := g.Disconnect(ab)
		require.NoError(t, err)
		_, err = g.Disconnect(ab)
		assert.True(t, errors.Is(err, ErrStaleReference))
	})
}

func TestDisconnectStar(t *testing.T) {
	build := func(t *testing.T) *Graph {
		g := NewGraph()
		addAtom(t, g, "B", 3, r3.Vec{})
		addAtom(t, g, "A", 1, r3.Vec{X: -3})
		addAtom(t, g, "C", 1, r3.Vec{X: 3})
		addAtom(t, g, "D", 1, r3.Vec{Y: 3})
		for i, other := range []AtomID{"A", "C", "D"} {
			_, err := g.Connect(ref("B", SlotName(i)), ref(other, "s0"))
			require.NoError(t, err)
		}
		require.NoError(t, g.Validate())
		require.Equal(t, 3, g.Roots()[0].Depth())
		return g
	}

	tests := []struct {
		bond     BondID
		freeAtom AtomID
		rest     []AtomID
	}{
		{"FixedBond_B-s0_A-s0", "A", []AtomID{"B", "C", "D"}},
		{"FixedBond_B-s1_C-s0", "C", []AtomID{"A", "B", "D"}},
		{"FixedBond_B-s2_D-s0", "D", []AtomID{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.bond), func(t *testing.T) {
			g := build(t)
			_, err := g.Disconnect(tt.bond)
			require.NoError(t, err)
			require.NoError(t, g.Validate())

			roots := g.Roots()
			require.Len(t, roots, 1)
			assert.Equal(t, tt.rest, atomIDs(roots[0]))
			require.Len(t, g.FreeAtoms(), 1)
			assert.Equal(t, tt.freeAtom, g.FreeAtoms()[0].ID)
		})
	}
}

func TestDisconnectBridgeBetweenMolecules(t *testing.T) {
	g := NewGraph()
	for i, id := range []AtomID{"A", "B", "C", "D"} {
		addAtom(t, g, id, 2, r3.Vec{X: float64(3 * i)})
	}
	_, err := g.Connect(ref("A", "s0"), ref("B", "s0"))
	require.NoError(t, err)
	_, err = g.Connect(ref("C", "s0"), ref("D", "s0"))
	require.NoError(t, err)
	bridge, err := g.Connect(ref("B", "s1"), ref("C", "s1"))
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	_, err = g.Disconnect("FixedBond_C-s0_D-s0")
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Equal(t, []AtomID{"A", "B", "C"}, atomIDs(g.Roots()[0]))
	assert.Equal(t, AtomID("D"), g.FreeAtoms()[0].ID)

	split, err := g.Disconnect(bridge.ID)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Equal(t, []AtomID{"A", "B"}, atomIDs(split.First))
	assert.Equal(t, []AtomID{"C"}, atomIDs(split.Second))
	assert.Len(t, g.Components(), 3)
}

func TestMergeSplitRoundTrip(t *testing.T) {
	g := NewGraph()
	addAtom(t, g, "A", 2, r3.Vec{})
	addAtom(t, g, "B", 2, r3.Vec{X: 3})
	addAtom(t, g, "C", 1, r3.Vec{Y: 3})
	_, err := g.Connect(ref("B", "s1"), ref("C", "s0"))
	require.NoError(t, err)

	before := allAtomIDs(g)
	bond, err := g.Connect(ref("A", "s0"), ref("B", "s0"))
	require.NoError(t, err)

	split, err := g.Disconnect(bond.ID)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	assert.Equal(t, before, allAtomIDs(g))
	assert.Equal(t, []AtomID{"A"}, atomIDs(split.First))
	assert.Equal(t, []AtomID{"B", "C"}, atomIDs(split.Second))
	a, _ := g.Slot(ref("A", "s0"))
	b, _ := g.Slot(ref("B", "s0"))
	assert.Equal(t, SlotFree, a.State)
	assert.Equal(t, SlotFree, b.State)
}

func TestRandomMergeSplitKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGraph()
	for i := 0; i < 12; i++ {
		addAtom(t, g, AtomID("X"+string(rune('a'+i))), 1+rng.Intn(4), r3.Vec{X: float64(i) * 3})
	}
	want := allAtomIDs(g)

	for step := 0; step < 300; step++ {
		bonds := g.Bonds()
		if len(bonds) > 0 && rng.Intn(3) == 0 {
			_, err := g.Disconnect(bonds[rng.Intn(len(bonds))].ID)
			require.NoError(t, err)
		} else {
			atoms := g.Atoms()
			a, b := atoms[rng.Intn(len(atoms))], atoms[rng.Intn(len(atoms))]
			fa, fb := a.FreeSlots(), b.FreeSlots()
			if len(fa) == 0 || len(fb) == 0 {
				continue
			}
			_, err := g.Connect(fa[0].Ref(), fb[rng.Intn(len(fb))].Ref())
			if err != nil {
				require.True(t, errors.Is(err, ErrInvalidMerge), "step %d: %v", step, err)
				continue
			}
		}
		require.NoError(t, g.Validate(), "step %d", step)
	}

	assert.Equal(t, want, allAtomIDs(g))
	atomsInComponents := 0
	for _, c := range g.Components() {
		atomsInComponents += len(c.Atoms())
	}
	assert.Equal(t, g.AtomCount(), atomsInComponents)
}

func TestDispose(t *testing.T) {
	g, _, _ := buildChain(t)
	addAtom(t, g, "D", 1, r3.Vec{Y: 5})

	removed, err := g.Dispose("B")
	require.NoError(t, err)
	assert.ElementsMatch(t, []AtomID{"A", "B", "C"}, removed)
	assert.Empty(t, g.Bonds())
	assert.Empty(t, g.Roots())
	assert.Equal(t, []AtomID{"D"}, allAtomIDs(g))
	assert.NoError(t, g.Validate())

	_, err = g.Dispose("B")
	assert.True(t, errors.Is(err, ErrStaleReference))

	removed, err = g.Dispose("D")
	require.NoError(t, err)
	assert.Equal(t, []AtomID{"D"}, removed)
	assert.Zero(t, g.AtomCount())
}

func TestMoveComponent(t *testing.T) {
	g, ab, _ := buildChain(t)
	bond, _ := g.Bond(ab)
	mid := bond.Midpoint
	a, _ := g.Atom("A")
	pos := a.Position

	require.NoError(t, g.MoveComponent("C", r3.Vec{Z: 2}))
	assert.Equal(t, r3.Add(pos, r3.Vec{Z: 2}), a.Position)
	assert.Equal(t, r3.Add(mid, r3.Vec{Z: 2}), bond.Midpoint)
}

func TestValidateDetectsCorruption(t *testing.T) {
	g, _, _ := buildChain(t)
	s, _ := g.Slot(ref("A", "s0"))
	s.State = SlotFree
	assert.Error(t, g.Validate())

	s.State = SlotAssigned
	require.NoError(t, g.Validate())

	free, _ := g.Slot(ref("A", "s1"))
	free.State = SlotAssigned
	assert.Error(t, g.Validate())
}

func TestSameComponent(t *testing.T) {
	g, _, _ := buildChain(t)
	addAtom(t, g, "D", 1, r3.Vec{})
	assert.True(t, g.SameComponent("A", "C"))
	assert.False(t, g.SameComponent("A", "D"))
	assert.False(t, g.SameComponent("A", "Q"))
}
