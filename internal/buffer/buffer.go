package buffer

import (
	"fmt"
	"time"

	"opensky-state-decoder/internal/model"
)

const (
	TypeRing          = "ring"
	TypeSlidingWindow = "sliding_window"
)

// Buffer holds decoded state vectors between the poller and the HTTP API.
type Buffer interface {
	PushAll(vehicles []model.StateVector)
	GetAll() []*model.StateVector
	PopBatch(n int) []*model.StateVector
	Count() int
	Capacity() int
	IsEmpty() bool
	Clear()
}

var (
	_ Buffer = (*RingBuffer)(nil)
	_ Buffer = (*SlidingWindowBuffer)(nil)
)

// New builds the buffer named by kind.
func New(kind string, size int, window time.Duration) (Buffer, error) {
	switch kind {
	case TypeRing:
		return NewRingBuffer(size), nil
	case TypeSlidingWindow:
		return NewSlidingWindowBuffer(window, size), nil
	default:
		return nil, fmt.Errorf("unknown buffer type %q", kind)
	}
}
