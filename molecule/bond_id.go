package molecule

import (
	"fmt"
	"strings"
)

// BondID is the textual bond identifier: FixedBond_<atom1>-<slot1>_<atom2>-<slot2>
type BondID string

const (
	bondPrefix    = "FixedBond_"
	pairSeparator = "_"
	refSeparator  = "-"
)

// FormatBondID encodes two slot endpoints into the bond grammar
func FormatBondID(first, second SlotRef) BondID {
	return BondID(bondPrefix +
		string(first.Atom) + refSeparator + string(first.Slot) +
		pairSeparator +
		string(second.Atom) + refSeparator + string(second.Slot))
}

// ParseBondID recovers both endpoints from a bond identifier
// Any deviation from the grammar yields a KindMalformedBondIdentifier error
func ParseBondID(id BondID) (first, second SlotRef, err error) {
	s := string(id)
	rest, ok := strings.CutPrefix(s, bondPrefix)
	if !ok {
		return SlotRef{}, SlotRef{}, malformed(id, "missing %q prefix", bondPrefix)
	}

	pairs := strings.Split(rest, pairSeparator)
	if len(pairs) != 2 {
		return SlotRef{}, SlotRef{}, malformed(id, "want 2 endpoints, got %d", len(pairs))
	}

	if first, err = parseRef(id, pairs[0]); err != nil {
		return SlotRef{}, SlotRef{}, err
	}
	if second, err = parseRef(id, pairs[1]); err != nil {
		return SlotRef{}, SlotRef{}, err
	}
	if first.Atom == second.Atom {
		return SlotRef{}, SlotRef{}, malformed(id, "endpoints share atom %s", first.Atom)
	}
	return first, second, nil
}

func parseRef(id BondID, part string) (SlotRef, error) {
	atom, slot, ok := strings.Cut(part, refSeparator)
	if !ok || atom == "" || slot == "" || strings.Contains(slot, refSeparator) {
		return SlotRef{}, malformed(id, "bad endpoint %q", part)
	}
	return SlotRef{Atom: AtomID(atom), Slot: SlotID(slot)}, nil
}

func malformed(id BondID, format string, args ...any) error {
	return NewError(KindMalformedBondIdentifier, "parse", string(id), fmt.Errorf(format, args...))
}
