package buffer

import (
	"sync"
	"time"

	"opensky-state-decoder/internal/model"
)

// SlidingWindowBuffer keeps state vectors received within a time window
// and drops older ones on access.
type SlidingWindowBuffer struct {
	entries    []*timestampedVector
	windowSize time.Duration
	maxSize    int
	now        func() time.Time
	mu         sync.Mutex
}

type timestampedVector struct {
	vector    *model.StateVector
	timestamp time.Time
}

// NewSlidingWindowBuffer creates a new sliding window buffer
func NewSlidingWindowBuffer(windowSize time.Duration, maxSize int) *SlidingWindowBuffer {
	return &SlidingWindowBuffer{
		entries:    make([]*timestampedVector, 0, maxSize),
		windowSize: windowSize,
		maxSize:    maxSize,
		now:        time.Now,
	}
}

// Push adds a state vector stamped with the current time
func (swb *SlidingWindowBuffer) Push(sv *model.StateVector) {
	swb.mu.Lock()
	defer swb.mu.Unlock()

	swb.removeExpired()
	swb.push(sv, swb.now())
}

// PushAll adds every vehicle of a reply with one shared timestamp.
func (swb *SlidingWindowBuffer) PushAll(vehicles []model.StateVector) {
	swb.mu.Lock()
	defer swb.mu.Unlock()

	swb.removeExpired()
	ts := swb.now()
	for i := range vehicles {
		sv := vehicles[i]
		swb.push(&sv, ts)
	}
}

func (swb *SlidingWindowBuffer) push(sv *model.StateVector, ts time.Time) {
	swb.entries = append(swb.entries, &timestampedVector{vector: sv, timestamp: ts})

	// If we exceed max size, remove oldest entries
	if len(swb.entries) > swb.maxSize {
		swb.entries = swb.entries[len(swb.entries)-swb.maxSize:]
	}
}

// removeExpired removes entries outside the time window (must be called with lock held)
func (swb *SlidingWindowBuffer) removeExpired() {
	if len(swb.entries) == 0 {
		return
	}

	cutoffTime := swb.now().Add(-swb.windowSize)

	firstValid := len(swb.entries)
	for i, te := range swb.entries {
		if te.timestamp.After(cutoffTime) {
			firstValid = i
			break
		}
	}

	if firstValid > 0 {
		swb.entries = swb.entries[firstValid:]
	}
}

// GetAll returns all state vectors within the time window
func (swb *SlidingWindowBuffer) GetAll() []*model.StateVector {
	swb.mu.Lock()
	defer swb.mu.Unlock()

	swb.removeExpired()

	out := make([]*model.StateVector, 0, len(swb.entries))
	for _, te := range swb.entries {
		out = append(out, te.vector)
	}

	return out
}

// PopBatch removes and returns up to n oldest state vectors
func (swb *SlidingWindowBuffer) PopBatch(n int) []*model.StateVector {
	swb.mu.Lock()
	defer swb.mu.Unlock()

	swb.removeExpired()

	if n > len(swb.entries) {
		n = len(swb.entries)
	}

	if n <= 0 {
		return nil
	}

	out := make([]*model.StateVector, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, swb.entries[i].vector)
	}

	swb.entries = swb.entries[n:]

	return out
}

// Count returns the number of state vectors in the window
func (swb *SlidingWindowBuffer) Count() int {
	swb.mu.Lock()
	defer swb.mu.Unlock()

	swb.removeExpired()
	return len(swb.entries)
}

// Capacity returns the maximum number of buffered state vectors.
func (swb *SlidingWindowBuffer) Capacity() int {
	return swb.maxSize
}

// CountInLastDuration returns the number of state vectors pushed within d
func (swb *SlidingWindowBuffer) CountInLastDuration(d time.Duration) int {
	swb.mu.Lock()
	defer swb.mu.Unlock()

	cutoffTime := swb.now().Add(-d)
	count := 0

	for i := len(swb.entries) - 1; i >= 0; i-- {
		if !swb.entries[i].timestamp.After(cutoffTime) {
			break
		}
		count++
	}

	return count
}

// IsEmpty returns true if the buffer is empty
func (swb *SlidingWindowBuffer) IsEmpty() bool {
	return swb.Count() == 0
}

// Clear removes all state vectors from the buffer
func (swb *SlidingWindowBuffer) Clear() {
	swb.mu.Lock()
	defer swb.mu.Unlock()

	swb.entries = make([]*timestampedVector, 0, swb.maxSize)
}
