package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"sync"
	"unicode"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed data/elements.yaml
var elementsYAML []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Element is one periodic-table template
type Element struct {
	Symbol  string  `yaml:"symbol"`
	Name    string  `yaml:"name"`
	Valence int     `yaml:"valence"`
	Radius  float64 `yaml:"radius"`
	Color   string  `yaml:"color"`
}

type document struct {
	Elements []Element `yaml:"elements"`
}

// Table is an immutable set of element templates keyed by symbol
type Table struct {
	bySymbol map[string]Element
	order    []string
}

// Default returns the embedded periodic table, parsed once
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(elementsYAML)
	})
	return defaultTable, defaultErr
}

// Parse decodes a YAML element document
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	if len(doc.Elements) == 0 {
		return nil, fmt.Errorf("no elements defined")
	}

	t := &Table{bySymbol: make(map[string]Element, len(doc.Elements))}
	for _, e := range doc.Elements {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, dup := t.bySymbol[e.Symbol]; dup {
			return nil, fmt.Errorf("element %s: duplicate symbol", e.Symbol)
		}
		t.bySymbol[e.Symbol] = e
		t.order = append(t.order, e.Symbol)
	}
	return t, nil
}

func (e Element) validate() error {
	if e.Symbol == "" {
		return fmt.Errorf("element with empty symbol")
	}
	for _, r := range e.Symbol {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("element %s: symbol must be letters only", e.Symbol)
		}
	}
	if e.Valence < 1 {
		return fmt.Errorf("element %s: valence must be positive", e.Symbol)
	}
	if e.Radius <= 0 {
		return fmt.Errorf("element %s: radius must be positive", e.Symbol)
	}
	return nil
}

// Lookup returns the template for symbol
func (t *Table) Lookup(symbol string) (Element, bool) {
	e, ok := t.bySymbol[symbol]
	return e, ok
}

// Elements returns templates in document order
func (t *Table) Elements() []Element {
	out := make([]Element, 0, len(t.order))
	for _, s := range t.order {
		out = append(out, t.bySymbol[s])
	}
	return out
}

// SlotOffsets lays out valence slot anchors at distance radius from the atom center
// 1: single axis, 2: linear, 3: trigonal planar, 4: tetrahedral, more: spread on a sphere
func SlotOffsets(valence int, radius float64) []r3.Vec {
	var dirs []r3.Vec
	switch valence {
	case 0:
		return nil
	case 1:
		dirs = []r3.Vec{{X: 1}}
	case 2:
		dirs = []r3.Vec{{X: 1}, {X: -1}}
	case 3:
		for i := 0; i < 3; i++ {
			a := 2 * math.Pi * float64(i) / 3
			dirs = append(dirs, r3.Vec{X: math.Cos(a), Y: math.Sin(a)})
		}
	case 4:
		dirs = []r3.Vec{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}}
	default:
		// Fibonacci sphere
		golden := math.Pi * (3 - math.Sqrt(5))
		for i := 0; i < valence; i++ {
			y := 1 - 2*(float64(i)+0.5)/float64(valence)
			r := math.Sqrt(1 - y*y)
			th := golden * float64(i)
			dirs = append(dirs, r3.Vec{X: r * math.Cos(th), Y: y, Z: r * math.Sin(th)})
		}
	}

	out := make([]r3.Vec, len(dirs))
	for i, d := range dirs {
		out[i] = r3.Scale(radius, r3.Unit(d))
	}
	return out
}
