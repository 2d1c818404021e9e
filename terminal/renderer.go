package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
	"github.com/lixenwraith/molcraft/render"
	"github.com/lixenwraith/molcraft/status"
)

// StatusRows is the number of rows below the field
const StatusRows = 2

const progressWidth = 5

// HandMarker is the display state of one tracked hand
type HandMarker struct {
	Channel  event.Channel
	Position r3.Vec
	Alive    bool
	Gate     event.ProcessKind
	Focus    bool
}

// Scene is everything drawn in one frame
type Scene struct {
	Frame      *engine.Frame
	Visual     render.Snapshot
	Board      *status.Board
	Hands      []HandMarker
	Zone       r3.Vec
	ZoneRadius float64
}

// Renderer draws scenes onto a tcell screen
// World X/Y project onto columns/rows; Z is dropped
type Renderer struct {
	screen tcell.Screen
	scale  float64
	color  bool
	width  int
	height int
	base   tcell.Style
}

// NewRenderer creates a renderer with scale cells per world unit along X
func NewRenderer(screen tcell.Screen, scale float64, color bool) *Renderer {
	r := &Renderer{screen: screen, scale: scale, color: color}
	r.base = r.style(tcell.ColorDefault, RgbBackground)
	r.Resize()
	return r
}

// Resize picks up the current screen size
func (r *Renderer) Resize() {
	r.width, r.height = r.screen.Size()
}

// Project maps a world position to a cell; rows grow downward
func (r *Renderer) Project(p r3.Vec) (x, y int) {
	cx, cy := r.width/2, (r.height-StatusRows)/2
	x = cx + int(math.Round(p.X*r.scale))
	y = cy - int(math.Round(p.Y*r.scale/2))
	return x, y
}

// Draw renders the entire scene
func (r *Renderer) Draw(s Scene) {
	r.screen.Fill(' ', r.base)

	if s.ZoneRadius > 0 {
		r.drawZone(s.Zone, s.ZoneRadius)
	}
	if s.Frame != nil {
		r.drawBonds(s.Frame, s.Visual)
		r.drawSlots(s.Frame, s.Visual)
	}
	if s.Visual.Line.Visible {
		r.drawSegment(s.Visual.Line.Start, s.Visual.Line.End, r.style(RgbLine, RgbBackground), '~')
	}
	if s.Frame != nil {
		r.drawAtoms(s.Frame, s.Visual)
	}
	r.drawHands(s.Hands)
	r.drawStatus(s.Board)

	r.screen.Show()
}

func (r *Renderer) style(fg, bg tcell.Color) tcell.Style {
	if !r.color {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(fg).Background(bg)
}

// highlighted applies the highlight background, or reverse video without color
func (r *Renderer) highlighted(st tcell.Style, h render.Highlight) tcell.Style {
	bg, ok := HighlightColor(h)
	if !ok {
		return st
	}
	if !r.color {
		return st.Reverse(true)
	}
	return st.Background(bg)
}

// put writes inside the field; the status rows are never overdrawn
func (r *Renderer) put(x, y int, ch rune, st tcell.Style) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height-StatusRows {
		return
	}
	r.screen.SetContent(x, y, ch, nil, st)
}

func (r *Renderer) text(x, y int, s string, st tcell.Style) {
	for i, ch := range []rune(s) {
		if x+i >= r.width {
			return
		}
		r.screen.SetContent(x+i, y, ch, nil, st)
	}
}

func (r *Renderer) drawZone(center r3.Vec, radius float64) {
	st := r.style(RgbZone, RgbBackground)
	const points = 48
	for i := range points {
		a := 2 * math.Pi * float64(i) / points
		x, y := r.Project(r3.Add(center, r3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}))
		r.put(x, y, '.', st)
	}
	x, y := r.Project(center)
	r.put(x, y, 'x', st)
}

func (r *Renderer) drawBonds(f *engine.Frame, v render.Snapshot) {
	for _, b := range f.Bonds {
		st := r.style(RgbBond, RgbBackground)
		r.drawSegment(b.Start, b.End, st, 0)

		x, y := r.Project(b.Midpoint)
		r.put(x, y, '*', r.highlighted(st, v.Highlights[render.BondTarget(b.ID)]))
		r.drawProgress(x, y+1, v.Progress[render.BondTarget(b.ID)])
	}
}

// drawSegment rasterizes a line between two world points; ch 0 picks a glyph by slope
func (r *Renderer) drawSegment(from, to r3.Vec, st tcell.Style, ch rune) {
	x0, y0 := r.Project(from)
	x1, y1 := r.Project(to)
	if ch == 0 {
		ch = slopeGlyph(x1-x0, y1-y0)
	}

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for {
		r.put(x0, y0, ch, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func slopeGlyph(dx, dy int) rune {
	switch {
	case dy == 0 || abs(dx) > 2*abs(dy):
		return '-'
	case dx == 0 || abs(dy) > 2*abs(dx):
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func (r *Renderer) drawSlots(f *engine.Frame, v render.Snapshot) {
	for _, a := range f.Atoms {
		for _, s := range a.Slots {
			ref := molecule.SlotRef{Atom: a.ID, Slot: s.ID}
			st := r.highlighted(r.style(SlotColor(s.State), RgbBackground), v.Highlights[render.SlotTarget(ref)])
			x, y := r.Project(s.Anchor)
			glyph := 'o'
			switch s.State {
			case molecule.SlotReserved:
				glyph = '+'
			case molecule.SlotAssigned:
				glyph = '='
			}
			r.put(x, y, glyph, st)
		}
	}
}

func (r *Renderer) drawAtoms(f *engine.Frame, v render.Snapshot) {
	for _, a := range f.Atoms {
		target := render.AtomTarget(a.ID)
		st := r.highlighted(r.style(ElementColor(a.Element), RgbBackground), v.Highlights[target])
		if r.color {
			st = st.Bold(true)
		}

		x, y := r.Project(a.Position)
		for i, ch := range []rune(a.Element) {
			r.put(x+i, y, ch, st)
		}
		r.drawProgress(x-progressWidth/2, y+1, v.Progress[target])
	}
}

// drawProgress draws a countdown bar; zero fraction draws nothing
func (r *Renderer) drawProgress(x, y int, p render.Progress) {
	if p.Fraction <= 0 {
		return
	}
	filled := int(math.Round(p.Fraction * progressWidth))
	on := r.style(ProgressColor(p.Class), RgbBackground)
	off := r.style(RgbSlotAssigned, RgbBackground)
	for i := range progressWidth {
		if i < filled {
			r.put(x+i, y, '█', on)
		} else {
			r.put(x+i, y, '░', off)
		}
	}
}

func (r *Renderer) drawHands(hands []HandMarker) {
	for _, h := range hands {
		fg := RgbHandRight
		glyph := 'R'
		if h.Channel == event.ChannelLeft {
			fg, glyph = RgbHandLeft, 'L'
		}
		if !h.Alive {
			fg, glyph = RgbHandLost, '?'
		}

		st := r.style(fg, RgbBackground)
		if h.Gate != event.ProcessNone {
			st = st.Reverse(true)
		}
		if h.Focus {
			st = st.Underline(true)
		}
		x, y := r.Project(h.Position)
		r.put(x, y, glyph, st)
	}
}

func (r *Renderer) drawStatus(b *status.Board) {
	bar := r.style(RgbStatusText, RgbStatusBar)
	help := r.style(RgbStatusBar, RgbBackground)

	row := r.height - StatusRows
	for x := range r.width {
		r.screen.SetContent(x, row, ' ', nil, bar)
	}
	if b != nil {
		process := b.String("process")
		if process == "" {
			process = "idle"
		}
		line := fmt.Sprintf(" %s %s | merges %d splits %d disposals %d resets %d | molecules %d free %d",
			process, b.String("channel"),
			b.Int("merges"), b.Int("splits"), b.Int("disposals"), b.Int("resets"),
			b.Int("roots"), b.Int("free_atoms"),
		)
		if e := b.String("last_error"); e != "" {
			line += " | error " + e
		}
		r.text(0, row, line, bar)
	}
	r.text(0, row+1, " arrows move  tab hand  c construct  x destruct  g grab  t track  H/O/C/N spawn  esc reset  ^q quit", help)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
