package engine

import "sync/atomic"

// Clock is a monotonic logical clock. Every applied step is stamped
// with a strictly increasing seq from it, so histories and traces have
// an explicit, wall-clock-free order.
//
// Thread-safe via atomics, although a Runner only ever ticks it from
// one goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments the clock and returns the new sequence number.
// The first call returns 1; seq 0 belongs to the initial history entry.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the latest sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
