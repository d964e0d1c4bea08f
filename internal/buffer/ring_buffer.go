package buffer

import (
	"sync"

	"opensky-state-decoder/internal/model"
)

// RingBuffer is a circular buffer for storing decoded state vectors
type RingBuffer struct {
	buffer []*model.StateVector
	size   int
	head   int
	tail   int
	count  int
	mu     sync.RWMutex
}

// NewRingBuffer creates a new ring buffer with the specified size
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buffer: make([]*model.StateVector, size),
		size:   size,
	}
}

// Push adds a new state vector to the buffer
// If the buffer is full, it overwrites the oldest entry
func (rb *RingBuffer) Push(sv *model.StateVector) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.push(sv)
}

// PushAll adds every vehicle of a reply in encounter order.
func (rb *RingBuffer) PushAll(vehicles []model.StateVector) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for i := range vehicles {
		sv := vehicles[i]
		rb.push(&sv)
	}
}

func (rb *RingBuffer) push(sv *model.StateVector) {
	rb.buffer[rb.head] = sv
	rb.head = (rb.head + 1) % rb.size

	if rb.count == rb.size {
		rb.tail = (rb.tail + 1) % rb.size
	} else {
		rb.count++
	}
}

// Pop removes and returns the oldest state vector from the buffer
func (rb *RingBuffer) Pop() *model.StateVector {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	return rb.pop()
}

func (rb *RingBuffer) pop() *model.StateVector {
	if rb.count == 0 {
		return nil
	}

	sv := rb.buffer[rb.tail]
	rb.buffer[rb.tail] = nil
	rb.tail = (rb.tail + 1) % rb.size
	rb.count--
	return sv
}

// PopBatch removes and returns up to n state vectors from the buffer
func (rb *RingBuffer) PopBatch(n int) []*model.StateVector {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if n > rb.count {
		n = rb.count
	}

	if n <= 0 {
		return nil
	}

	out := make([]*model.StateVector, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, rb.pop())
	}

	return out
}

// Peek returns the oldest state vector without removing it
func (rb *RingBuffer) Peek() *model.StateVector {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.count == 0 {
		return nil
	}

	return rb.buffer[rb.tail]
}

// Count returns the number of state vectors currently in the buffer
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	return rb.count
}

// Capacity returns the buffer size.
func (rb *RingBuffer) Capacity() int {
	return rb.size
}

// IsFull returns true if the buffer is full
func (rb *RingBuffer) IsFull() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	return rb.count == rb.size
}

// IsEmpty returns true if the buffer is empty
func (rb *RingBuffer) IsEmpty() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	return rb.count == 0
}

// Clear removes all state vectors from the buffer
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.buffer = make([]*model.StateVector, rb.size)
	rb.head = 0
	rb.tail = 0
	rb.count = 0
}

// GetAll returns all state vectors oldest first without removing them
func (rb *RingBuffer) GetAll() []*model.StateVector {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.count == 0 {
		return nil
	}

	out := make([]*model.StateVector, 0, rb.count)
	for i := 0; i < rb.count; i++ {
		out = append(out, rb.buffer[(rb.tail+i)%rb.size])
	}

	return out
}
