package testutil

import "sync/atomic"

// DeterministicClock numbers harness trace entries. A fresh clock is used
// for every scenario run, so replaying the same steps yields the same seq
// values in golden traces.
type DeterministicClock struct {
	seq atomic.Int64
}

// NewDeterministicClock returns a clock whose first Next is 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next returns the seq of the next trace entry.
func (c *DeterministicClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last seq handed out, or 0.
func (c *DeterministicClock) Current() int64 {
	return c.seq.Load()
}

// Reset rewinds the clock so a scenario can be replayed in place.
func (c *DeterministicClock) Reset() {
	c.seq.Store(0)
}
