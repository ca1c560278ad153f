package queue

import (
	"sync/atomic"

	"github.com/grachmannico95/payment-engine/internal/domain"
)

// SPSC is a bounded lock-free single-producer/single-consumer ring buffer of
// transaction events.
//
// Each slot carries its own sequence counter. The producer publishes a slot
// by advancing its counter after writing the payload; the consumer reads the
// counter before touching the payload and bumps it by a full generation once
// the slot is consumed. Producer and consumer therefore never share a mutable
// cursor: the only cross-goroutine handshake is the per-slot counter, written
// by exactly one side at a time.
//
// Exactly one goroutine may call Enqueue/Close and exactly one may call
// TryDequeue. Violating that contract is undefined; the surrounding pipeline
// enforces it by construction.
type SPSC struct {
	slots []slot
	mask  uint64

	// head is touched only by the consumer, tail only by the producer.
	// The padding keeps them on separate cache lines.
	head uint64
	_    [56]byte
	tail uint64
	_    [56]byte

	closed atomic.Bool
}

type slot struct {
	seq atomic.Uint64
	ev  domain.TransactionEvent
}

// New creates a queue holding at least capacity events. Capacity is rounded
// up to a power of two so index wraparound is a mask operation.
func New(capacity int) *SPSC {
	if capacity < 2 {
		capacity = 2
	}

	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}

	q := &SPSC{
		slots: make([]slot, size),
		mask:  size - 1,
	}

	// Slot i is writable for the producer when its counter equals i.
	for i := range q.slots {
		q.slots[i].seq.Store(uint64(i))
	}

	return q
}

// Cap returns the number of slots in the ring.
func (q *SPSC) Cap() int {
	return len(q.slots)
}

// Enqueue appends an event and reports whether it was accepted. It returns
// false when the ring is full; events are never overwritten or dropped, so
// backpressure policy stays with the caller.
func (q *SPSC) Enqueue(ev domain.TransactionEvent) bool {
	s := &q.slots[q.tail&q.mask]

	// The slot is free once the consumer has advanced its counter to the
	// producer's current generation. The atomic load acquires the consumer's
	// release of the previous payload.
	if s.seq.Load() != q.tail {
		return false
	}

	s.ev = ev
	// Publish: the store releases the payload write to the consumer.
	s.seq.Store(q.tail + 1)
	q.tail++

	return true
}

// TryDequeue pops the oldest event, if any. It never blocks; an empty ring
// yields ok == false and the consumer decides how to wait.
func (q *SPSC) TryDequeue() (domain.TransactionEvent, bool) {
	s := &q.slots[q.head&q.mask]

	// Published slots carry head+1. The atomic load acquires the producer's
	// payload write.
	if s.seq.Load() != q.head+1 {
		return domain.TransactionEvent{}, false
	}

	ev := s.ev
	// Hand the slot back to the producer one full generation ahead.
	s.seq.Store(q.head + uint64(len(q.slots)))
	q.head++

	return ev, true
}

// Close marks the end of the stream. The producer calls it exactly once
// after its final Enqueue; every event published before Close remains
// dequeueable afterwards.
func (q *SPSC) Close() {
	q.closed.Store(true)
}

// Closed reports whether the producer has finished. Once Closed returns true,
// a failed TryDequeue means the stream is fully drained, because the close
// flag is set after the last publication.
func (q *SPSC) Closed() bool {
	return q.closed.Load()
}
