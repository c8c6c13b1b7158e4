package bridge

import (
	"sync"

	"padbridge/debug"
)

// MaxQueued bounds the send queue. If the controller stops accepting
// data while producers keep enqueueing, the oldest messages are dropped
// and counted rather than growing without limit.
const MaxQueued = 1024

// Queue is the FIFO of envelopes bridging asynchronous producers (bus
// notifications, decode feedback, mode selection) to the realtime
// dispatch cycle. Enqueue may be called from any goroutine; Drain must
// only be called by the single realtime consumer.
//
// The lock is only ever held for a constant-time append or head
// removal, so the realtime side cannot be stalled by a producer for
// more than a few instructions.
type Queue struct {
	mu      sync.Mutex
	items   []Envelope
	dropped uint64
}

func NewQueue() *Queue {
	return &Queue{items: make([]Envelope, 0, 64)}
}

// Enqueue appends env to the tail. When the queue is full the oldest
// entry is discarded so fresh LED state wins over stale state.
func (q *Queue) Enqueue(env Envelope) {
	q.mu.Lock()
	overflow := len(q.items) >= MaxQueued
	if overflow {
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, env)
	n := q.dropped
	q.mu.Unlock()
	if overflow {
		debug.LogEvery(64, "queue", "send queue full, dropped oldest (total %d)", n)
	}
}

// Drain removes envelopes from the head in order, handing each to
// write. A false return from write means the output has no capacity
// left this cycle: draining stops and the remaining envelopes,
// including the one just refused, stay queued for the next cycle.
// Returns the number of envelopes consumed.
func (q *Queue) Drain(write func(Envelope) bool) int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			return n
		}
		env := q.items[0]
		q.mu.Unlock()

		if !write(env) {
			return n
		}

		// Sole consumer, but a producer overflowing a full queue can
		// remove the head while write runs. Pop only if the head is
		// still the entry just delivered; otherwise the overflow
		// already removed it and the current head is the next one.
		q.mu.Lock()
		if len(q.items) > 0 && &q.items[0][0] == &env[0] {
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
		}
		q.mu.Unlock()
		n++
	}
}

// Len reports the number of queued envelopes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped reports how many envelopes were discarded due to overflow.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
