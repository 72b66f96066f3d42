package engine

import "sync/atomic"

// Clock is the monotonic logical clock stamping committed events.
//
// Every committed mutation carries a strictly increasing seq from this
// clock, so the event log has a total order independent of wall time
// and replay reproduces the identical order.
//
// Thread-safety: safe for concurrent use (atomic operations). Per-table
// serialization means contention is rare in practice.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from a specific sequence number.
// Used after loading an existing journal so new events continue the log.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
