package input

import (
	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/event"
)

// Step is the fingertip travel per key press in world units
const Step = 0.25

// KeyTable maps keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, navigation)
	SpecialKeys map[tcell.Key]Intent

	// Rune bindings
	Runes map[rune]Intent
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	left := Intent{Type: IntentMove, Delta: r3.Vec{X: -Step}}
	right := Intent{Type: IntentMove, Delta: r3.Vec{X: Step}}
	up := Intent{Type: IntentMove, Delta: r3.Vec{Y: Step}}
	down := Intent{Type: IntentMove, Delta: r3.Vec{Y: -Step}}

	return &KeyTable{
		SpecialKeys: map[tcell.Key]Intent{
			tcell.KeyCtrlQ:  {Type: IntentQuit},
			tcell.KeyCtrlC:  {Type: IntentQuit},
			tcell.KeyCtrlS:  {Type: IntentToggleMute},
			tcell.KeyEscape: {Type: IntentReset},
			tcell.KeyTab:    {Type: IntentFocus},
			tcell.KeyLeft:   left,
			tcell.KeyRight:  right,
			tcell.KeyUp:     up,
			tcell.KeyDown:   down,
			tcell.KeyPgUp:   {Type: IntentMove, Delta: r3.Vec{Z: Step}},
			tcell.KeyPgDn:   {Type: IntentMove, Delta: r3.Vec{Z: -Step}},
		},
		Runes: map[rune]Intent{
			'h': left,
			'l': right,
			'k': up,
			'j': down,
			'c': {Type: IntentGate, Kind: event.ProcessConstruction},
			'x': {Type: IntentGate, Kind: event.ProcessDestruction},
			't': {Type: IntentToggleAlive},
			'g': {Type: IntentGrab},
			'H': {Type: IntentSpawn, Symbol: "H"},
			'O': {Type: IntentSpawn, Symbol: "O"},
			'C': {Type: IntentSpawn, Symbol: "C"},
			'N': {Type: IntentSpawn, Symbol: "N"},
		},
	}
}

// Lookup resolves a key event to its intent
func (kt *KeyTable) Lookup(ev *tcell.EventKey) (Intent, bool) {
	if ev.Key() == tcell.KeyRune {
		in, ok := kt.Runes[ev.Rune()]
		return in, ok
	}
	in, ok := kt.SpecialKeys[ev.Key()]
	return in, ok
}
