package domain

import "sync/atomic"

// OrderIDFloor is the counter value before any order exists; the first
// issued ID is OrderIDFloor+1.
const OrderIDFloor int64 = 1000

// Sequence issues process-wide order IDs. It must be seeded from the
// highest persisted ID before new tickets are opened.
type Sequence struct{ n atomic.Int64 }

// NewSequence returns a counter sitting at OrderIDFloor.
func NewSequence() *Sequence {
	s := &Sequence{}
	s.n.Store(OrderIDFloor)
	return s
}

// Seed raises the counter to highest. It never lowers it.
func (s *Sequence) Seed(highest int64) {
	for {
		cur := s.n.Load()
		if highest <= cur {
			return
		}
		if s.n.CompareAndSwap(cur, highest) {
			return
		}
	}
}

// Next returns the next order ID.
func (s *Sequence) Next() int64 { return s.n.Add(1) }

// Current returns the last issued (or seeded) value.
func (s *Sequence) Current() int64 { return s.n.Load() }
