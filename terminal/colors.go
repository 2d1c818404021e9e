package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/render"
)

// RGB color definitions
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background
	RgbBond       = tcell.NewRGBColor(180, 180, 180)
	RgbLine       = tcell.NewRGBColor(255, 255, 200) // Provisional bond line
	RgbZone       = tcell.NewRGBColor(90, 40, 40)

	RgbSlotFree     = tcell.NewRGBColor(120, 120, 120)
	RgbSlotReserved = tcell.NewRGBColor(255, 165, 0)
	RgbSlotAssigned = tcell.NewRGBColor(60, 60, 60)

	RgbHighlightBasic    = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbHighlightExtended = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbHighlightRejected = tcell.NewRGBColor(255, 0, 0)

	RgbProgressConstruction = tcell.NewRGBColor(0, 200, 200)
	RgbProgressDestruction  = tcell.NewRGBColor(200, 50, 50)

	RgbHandLeft  = tcell.NewRGBColor(255, 192, 203)
	RgbHandRight = tcell.NewRGBColor(255, 255, 0)
	RgbHandLost  = tcell.NewRGBColor(80, 80, 80)

	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255)
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)
)

// elementColors are CPK-style element colors
var elementColors = map[string]tcell.Color{
	"H":  tcell.NewRGBColor(255, 255, 255),
	"C":  tcell.NewRGBColor(144, 144, 144),
	"N":  tcell.NewRGBColor(48, 80, 248),
	"O":  tcell.NewRGBColor(255, 13, 13),
	"F":  tcell.NewRGBColor(144, 224, 80),
	"Cl": tcell.NewRGBColor(31, 240, 31),
	"S":  tcell.NewRGBColor(255, 255, 48),
	"P":  tcell.NewRGBColor(255, 128, 0),
}

// ElementColor returns the display color of an element symbol
func ElementColor(symbol string) tcell.Color {
	if c, ok := elementColors[symbol]; ok {
		return c
	}
	return tcell.NewRGBColor(255, 20, 147)
}

// HighlightColor returns the background for a highlight state, ok false for none
func HighlightColor(h render.Highlight) (tcell.Color, bool) {
	switch h {
	case render.HighlightBasic:
		return RgbHighlightBasic, true
	case render.HighlightExtended:
		return RgbHighlightExtended, true
	case render.HighlightRejected:
		return RgbHighlightRejected, true
	default:
		return tcell.ColorDefault, false
	}
}

// ProgressColor returns the countdown bar color for a class
func ProgressColor(c render.ColorClass) tcell.Color {
	if c == render.ColorDestruction {
		return RgbProgressDestruction
	}
	return RgbProgressConstruction
}

// SlotColor returns the marker color for a slot state
func SlotColor(s molecule.SlotState) tcell.Color {
	switch s {
	case molecule.SlotReserved:
		return RgbSlotReserved
	case molecule.SlotAssigned:
		return RgbSlotAssigned
	default:
		return RgbSlotFree
	}
}
