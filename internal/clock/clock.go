// Package clock provides the game time used for judgement.
//
// Game time is the position in the chart: it starts negative during the
// lead-in, is scaled by the playback rate, and includes a fixed latency offset.
package clock

import (
	"sync"
	"time"
)

// Source is a monotonic time source
type Source interface {
	Now() time.Time
}

// System reads the wall clock, which carries a monotonic reading
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

type Clock struct {
	mu sync.Mutex

	source Source
	start  time.Time
	rate   float64
	offset time.Duration

	paused      bool
	pausedAt    time.Time
	totalPaused time.Duration
}

// New creates a clock whose game time is -leadIn now.
// A rate <= 0 is treated as 1.
func New(source Source, leadIn, offset time.Duration, rate float64) *Clock {
	if rate <= 0 {
		rate = 1
	}
	return &Clock{
		source: source,
		start:  source.Now().Add(leadIn),
		rate:   rate,
		offset: offset,
	}
}

// Start is the wall time at which game time passes zero, ignoring pauses
func (c *Clock) Start() time.Time {
	return c.start
}

func (c *Clock) GameTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.source.Now()
	if c.paused {
		now = c.pausedAt
	}
	elapsed := now.Sub(c.start) - c.totalPaused
	return time.Duration(float64(elapsed)*c.rate) + c.offset
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.source.Now()
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.totalPaused += c.source.Now().Sub(c.pausedAt)
}

func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
