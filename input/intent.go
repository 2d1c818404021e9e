package input

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/event"
)

// IntentType discriminates operator actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents, handled by the terminal loop
	IntentQuit       // Ctrl+Q, Ctrl+C
	IntentReset      // ESC
	IntentToggleMute // Ctrl+S

	// Hand intents, applied by the tracker
	IntentMove        // Arrows, h/j/k/l, PgUp/PgDn
	IntentFocus       // Tab cycles the driven hand
	IntentGate        // c/x open or close the extended gesture
	IntentToggleAlive // t drops or regains tracking of the focused hand
	IntentGrab        // g grabs the hovered component
	IntentSpawn       // Element symbols spawn at the fingertip
)

// Intent is one operator action resolved from a key
type Intent struct {
	Type IntentType

	// Channel is the hand the intent applies to; ChannelNone means the focused hand
	Channel event.Channel
	Delta   r3.Vec
	Kind    event.ProcessKind
	Symbol  string
}

// Hand reports whether the tracker applies the intent
func (i Intent) Hand() bool {
	return i.Type >= IntentMove
}
