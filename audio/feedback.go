package audio

import "github.com/ardnew/usbdac/pkg"

// Feedback derives the rate correction reported to the host on the
// feedback endpoint. The device's sample clock free-runs from its own
// oscillator, so over time it drifts against the host's USB frame
// clock; the host compensates by sizing its packets to the rate the
// device reports here.
//
// The value is carried internally as Q16.16 frames per full-speed USB
// frame (1 ms). Occupancy error relative to the ring midpoint is
// smoothed with an integer exponential filter, scaled into a rate
// correction, and clamped to ±0.1% of nominal so a transient burst can
// never command a rate the DAC clock cannot follow.
const (
	// FeedbackSmoothingShift sets the exponential filter coefficient
	// to 1/8 per update.
	FeedbackSmoothingShift = 3

	// FeedbackClampPerMille bounds the correction to ±1‰ of nominal.
	FeedbackClampPerMille = 1
)

// Feedback tracks ring occupancy and produces the clamped Q16.16 rate.
// It is used from a single context (the feedback endpoint service) and
// is not concurrency-safe.
type Feedback struct {
	nominal uint32 // Q16.16 frames per USB frame
	min     uint32
	max     uint32
	target  int32 // occupancy setpoint in frames
	err     int32 // smoothed occupancy error
	value   uint32
}

// NewFeedback creates a feedback tracker for the sample rate, steering
// ring occupancy toward the given setpoint (typically half capacity).
// A setpoint below one frame is clamped to one so the correction
// scaling stays defined for degenerate ring sizes.
func NewFeedback(sampleRate uint32, targetOccupancy int) *Feedback {
	if targetOccupancy < 1 {
		targetOccupancy = 1
	}
	nominal := uint32(uint64(sampleRate) << 16 / 1000)
	delta := nominal / 1000 * FeedbackClampPerMille
	return &Feedback{
		nominal: nominal,
		min:     nominal - delta,
		max:     nominal + delta,
		target:  int32(targetOccupancy),
		value:   nominal,
	}
}

// Nominal returns the uncorrected Q16.16 rate.
func (fb *Feedback) Nominal() uint32 {
	return fb.nominal
}

// Value returns the current clamped Q16.16 rate.
func (fb *Feedback) Value() uint32 {
	return fb.value
}

// Update folds one occupancy sample into the filter and returns the new
// rate. Occupancy above the setpoint means the host is running fast, so
// the reported rate drops below nominal; below the setpoint it rises.
func (fb *Feedback) Update(occupancy int) uint32 {
	e := int32(occupancy) - fb.target
	fb.err += (e - fb.err) >> FeedbackSmoothingShift

	// Half-scale error already commands the full clamp range, so a ring
	// pinned at either rail saturates the correction instead of hovering
	// just inside it.
	span := int64(fb.nominal - fb.min)
	adj := int64(fb.err) * span * 2 / int64(fb.target)

	v := int64(fb.nominal) - adj
	switch {
	case v < int64(fb.min):
		v = int64(fb.min)
	case v > int64(fb.max):
		v = int64(fb.max)
	}
	fb.value = uint32(v)
	return fb.value
}

// Reset returns the filter to nominal, for stream (re)activation.
func (fb *Feedback) Reset() {
	fb.err = 0
	fb.value = fb.nominal
}

// MarshalTo encodes the current rate into buf in the wire format the
// bus speed requires and returns the number of bytes written.
//
// High speed carries the Q16.16 value in four little-endian bytes.
// Full speed carries a 10.14 value in three little-endian bytes, which
// is the same quantity shifted right twice.
func (fb *Feedback) MarshalTo(buf []byte, highSpeed bool) (int, error) {
	if highSpeed {
		if len(buf) < 4 {
			return 0, pkg.ErrBufferTooSmall
		}
		v := fb.value
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		return 4, nil
	}
	if len(buf) < 3 {
		return 0, pkg.ErrBufferTooSmall
	}
	v := fb.value >> 2
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	return 3, nil
}
