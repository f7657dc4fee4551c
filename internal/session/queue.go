package session

import "sync"

// signalQueue is an unbounded FIFO of pending signals. Enqueue may be
// called from any goroutine; only Run dequeues.
//
// A buffered channel of size 1 wakes the consumer so waiting can be
// combined with context cancellation.
type signalQueue struct {
	mu      sync.Mutex
	signals []Signal
	closed  bool
	wake    chan struct{}
}

func newSignalQueue() *signalQueue {
	return &signalQueue{
		signals: make([]Signal, 0, 16),
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue appends s. It returns false once the queue is closed.
func (q *signalQueue) Enqueue(s Signal) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.signals = append(q.signals, s)

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front signal without blocking.
func (q *signalQueue) TryDequeue() (Signal, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.signals) == 0 {
		return nil, false
	}
	s := q.signals[0]
	q.signals[0] = nil
	if len(q.signals) == 1 {
		q.signals = q.signals[:0]
	} else {
		q.signals = q.signals[1:]
	}
	return s, true
}

// Wait fires when signals may be available. It is closed by Close.
func (q *signalQueue) Wait() <-chan struct{} {
	return q.wake
}

// Drained reports whether the queue is closed and empty.
func (q *signalQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.signals) == 0
}

// Close stops further enqueues and wakes the consumer.
func (q *signalQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.wake)
}
