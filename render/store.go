package render

import (
	"maps"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Progress is the countdown state shown on one target
type Progress struct {
	Fraction float64
	Class    ColorClass
}

// Line is the provisional bond line; Visible is false when both ends coincide
type Line struct {
	Start, End r3.Vec
	Visible    bool
}

// Snapshot is an immutable copy of the visual state
type Snapshot struct {
	Highlights map[Target]Highlight
	Progress   map[Target]Progress
	Line       Line
}

// Store is a thread-safe Sink that retains the latest visual state
// Written by the tick goroutine, read by renderers through Snapshot
type Store struct {
	mu         sync.RWMutex
	highlights map[Target]Highlight
	progress   map[Target]Progress
	line       Line
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		highlights: make(map[Target]Highlight),
		progress:   make(map[Target]Progress),
	}
}

func (s *Store) SetHighlight(target Target, state Highlight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == HighlightNone {
		delete(s.highlights, target)
		return
	}
	s.highlights[target] = state
}

func (s *Store) SetLineEndpoints(start, end r3.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.line = Line{Start: start, End: end, Visible: start != end}
}

func (s *Store) SetProgress(targets []Target, fraction float64, class ColorClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range targets {
		if fraction <= 0 {
			delete(s.progress, t)
			continue
		}
		s.progress[t] = Progress{Fraction: min(fraction, 1), Class: class}
	}
}

// Highlight returns the current highlight of target
func (s *Store) Highlight(target Target) Highlight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highlights[target]
}

// Progress returns the current progress of target
func (s *Store) Progress(target Target) (Progress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[target]
	return p, ok
}

// Line returns the current provisional bond line
func (s *Store) Line() Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.line
}

// Snapshot copies the full state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Highlights: maps.Clone(s.highlights),
		Progress:   maps.Clone(s.progress),
		Line:       s.line,
	}
}

// Idle reports whether nothing is highlighted, no progress is shown, and the line is hidden
func (s *Store) Idle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.highlights) == 0 && len(s.progress) == 0 && !s.line.Visible
}
