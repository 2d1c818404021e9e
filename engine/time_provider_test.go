package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonicTimeProvider(t *testing.T) {
	p := NewMonotonicTimeProvider()
	t1 := p.Now()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, p.Now().Sub(t1), 5*time.Millisecond)
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMockTimeProvider(start)
	assert.True(t, m.Now().Equal(start))

	got := m.Advance(time.Hour)
	assert.True(t, got.Equal(start.Add(time.Hour)))

	m.Advance(30 * time.Minute)
	m.Advance(15 * time.Minute)
	assert.True(t, m.Now().Equal(start.Add(105*time.Minute)))
}
