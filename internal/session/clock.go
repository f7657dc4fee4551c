package session

import "sync/atomic"

// Clock hands out strictly increasing snapshot revisions.
//
// Only the goroutine applying signals calls Next, but Current may be read
// from anywhere.
type Clock struct {
	rev atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next revision.
func (c *Clock) Next() int64 {
	return c.rev.Add(1)
}

// Current returns the last revision handed out.
func (c *Clock) Current() int64 {
	return c.rev.Load()
}
