package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stamp(c *DeterministicClock, steps int) []int64 {
	seqs := make([]int64, steps)
	for i := range seqs {
		seqs[i] = c.Next()
	}
	return seqs
}

func TestDeterministicClockStampsFromOne(t *testing.T) {
	c := NewDeterministicClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, []int64{1, 2, 3, 4}, stamp(c, 4))
	assert.Equal(t, int64(4), c.Current())
}

func TestDeterministicClockReplay(t *testing.T) {
	c := NewDeterministicClock()
	first := stamp(c, 3)

	c.Reset()
	assert.Equal(t, first, stamp(c, 3), "a replayed scenario gets the same seqs")
	assert.Equal(t, first, stamp(NewDeterministicClock(), 3))
}

func TestDeterministicClockConcurrentNext(t *testing.T) {
	c := NewDeterministicClock()
	seen := make(chan int64, 64)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int64]bool{}
	for s := range seen {
		unique[s] = true
	}
	assert.Len(t, unique, 64, "no seq is handed out twice")
	assert.Equal(t, int64(64), c.Current())
}
