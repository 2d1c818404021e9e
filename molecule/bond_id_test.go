package molecule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBondID(t *testing.T) {
	id := FormatBondID(SlotRef{Atom: "H1", Slot: "s0"}, SlotRef{Atom: "O1", Slot: "s1"})
	assert.Equal(t, BondID("FixedBond_H1-s0_O1-s1"), id)
}

func TestParseBondIDRoundTrip(t *testing.T) {
	first := SlotRef{Atom: "C12", Slot: "s3"}
	second := SlotRef{Atom: "N2", Slot: "s0"}

	a, b, err := ParseBondID(FormatBondID(first, second))
	require.NoError(t, err)
	assert.Equal(t, first, a)
	assert.Equal(t, second, b)
}

func TestParseBondIDMalformed(t *testing.T) {
	tests := []struct {
		name string
		id   BondID
	}{
		{"empty", ""},
		{"no prefix", "H1-s0_O1-s0"},
		{"wrong prefix", "Bond_H1-s0_O1-s0"},
		{"single endpoint", "FixedBond_H1-s0"},
		{"three endpoints", "FixedBond_H1-s0_O1-s0_C1-s0"},
		{"missing slot", "FixedBond_H1-_O1-s0"},
		{"missing atom", "FixedBond_-s0_O1-s0"},
		{"no separator", "FixedBond_H1s0_O1-s0"},
		{"extra separator", "FixedBond_H1-s0-x_O1-s0"},
		{"self bond", "FixedBond_H1-s0_H1-s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseBondID(tt.id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedBondIdentifier))
			assert.Equal(t, KindMalformedBondIdentifier, KindOf(err))
		})
	}
}
