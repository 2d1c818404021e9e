package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Board holds live values for the terminal status line
// Writers cache pointers; readers walk sorted snapshots
type Board struct {
	Ints    *MetricMap[atomic.Int64]
	Strings *MetricMap[AtomicString]
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{
		Ints:    NewMetricMap[atomic.Int64](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Int reads an integer value, 0 if absent
func (b *Board) Int(key string) int64 {
	if !b.Ints.Has(key) {
		return 0
	}
	return b.Ints.Get(key).Load()
}

// String reads a string value, "" if absent
func (b *Board) String(key string) string {
	if !b.Strings.Has(key) {
		return ""
	}
	return b.Strings.Get(key).Load()
}

// AtomicString is a string safe for concurrent Store and Load; zero value reads ""
type AtomicString struct {
	v atomic.Pointer[string]
}

func (s *AtomicString) Store(val string) {
	s.v.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return ""
}

// MetricMap is a thread-safe lazily populated map of metric cells
// Registration takes the mutex; cached pointer access is lock-free
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the cell for key, creating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	if p, ok := m.items[key]; ok {
		m.mu.RUnlock()
		return p
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[key]; ok {
		return p
	}
	p := new(T)
	m.items[key] = p
	return p
}

// Has reports whether key was ever registered
func (m *MetricMap[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Keys returns registered keys in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
