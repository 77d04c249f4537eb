package audio

import (
	"sync/atomic"

	"github.com/ardnew/usbdac/pkg"
)

// DefaultRingFrames is the default ring capacity in stereo frames. It
// covers several milliseconds at the highest supported rate, enough to
// ride out host scheduling jitter without adding audible latency.
const DefaultRingFrames = 1024

// Ring is a fixed-capacity single-producer/single-consumer frame queue.
//
// Exactly one goroutine (or interrupt context) may call [Ring.Push] and
// exactly one may call [Ring.Pop]. Under that discipline the ring is
// lock-free: the producer and consumer coordinate only through the
// monotonic head and tail indices, so the consumer can run at sample
// priority without ever waiting on the producer. [Ring.Reset] is NOT
// safe against a concurrent Push or Pop; the stream must be stopped
// first.
//
// Indices increase without wrapping; occupancy is their difference and
// storage is indexed modulo capacity. Capacity is rounded up to a power
// of two so the modulo reduces to a mask.
type Ring struct {
	frames []Frame
	mask   uint32

	// head is advanced only by Push, tail only by Pop.
	head atomic.Uint32
	tail atomic.Uint32
}

// NewRing creates a ring holding at least the given number of frames.
// Capacity is rounded up to the next power of two.
func NewRing(frames int) *Ring {
	if frames <= 0 {
		frames = DefaultRingFrames
	}
	n := 1
	for n < frames {
		n <<= 1
	}
	return &Ring{
		frames: make([]Frame, n),
		mask:   uint32(n - 1),
	}
}

// Capacity returns the maximum number of frames the ring can hold.
func (r *Ring) Capacity() int {
	return len(r.frames)
}

// Occupancy returns the number of frames currently buffered. It may be
// read from any context; the value is a snapshot and can be stale by
// the time the caller acts on it.
func (r *Ring) Occupancy() int {
	return int(r.head.Load() - r.tail.Load())
}

// Push appends one frame. It returns [pkg.ErrOverrun] without modifying
// the ring when full; the caller decides whether to drop or retry.
func (r *Ring) Push(f Frame) error {
	head := r.head.Load()
	if head-r.tail.Load() >= uint32(len(r.frames)) {
		return pkg.ErrOverrun
	}
	r.frames[head&r.mask] = f
	r.head.Store(head + 1)
	return nil
}

// Pop removes and returns the oldest frame. It returns [pkg.ErrUnderrun]
// when empty.
func (r *Ring) Pop() (Frame, error) {
	tail := r.tail.Load()
	if r.head.Load() == tail {
		return Silence, pkg.ErrUnderrun
	}
	f := r.frames[tail&r.mask]
	r.tail.Store(tail + 1)
	return f, nil
}

// NextFrame implements [Source] over the ring's consumer side.
func (r *Ring) NextFrame() (Frame, error) {
	return r.Pop()
}

// Reset discards all buffered frames. Call only while neither side is
// active (stream stopped).
func (r *Ring) Reset() {
	r.head.Store(0)
	r.tail.Store(0)
}

// Compile-time interface check
var _ Source = (*Ring)(nil)
