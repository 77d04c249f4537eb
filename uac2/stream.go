package uac2

import (
	"github.com/ardnew/usbdac/audio"
	"github.com/ardnew/usbdac/pkg"
)

// Streamer moves isochronous OUT payloads into the sample ring. It runs
// in the transport's completion context, so it never blocks and never
// returns an error upward: a packet that cannot be consumed is counted
// and dropped, and the stream continues with whatever arrives next.
type Streamer struct {
	ring   *audio.Ring
	format audio.Format
	active bool

	mismatches uint32
	overruns   uint32
}

// NewStreamer creates a streamer producing into the given ring.
func NewStreamer(ring *audio.Ring) *Streamer {
	return &Streamer{ring: ring}
}

// Activate binds the streamer to a format. Packets received before
// activation (or after deactivation) are discarded silently, since the
// host legitimately sends during alternate-setting transitions.
func (s *Streamer) Activate(format audio.Format) {
	s.format = format
	s.active = true
}

// Deactivate stops consuming packets and clears the fault counters for
// the next stream.
func (s *Streamer) Deactivate() {
	s.active = false
	s.mismatches = 0
	s.overruns = 0
}

// Active reports whether the streamer is consuming packets.
func (s *Streamer) Active() bool {
	return s.active
}

// OnPacket consumes one isochronous payload. A length that is not a
// whole number of frames counts one format mismatch and drops the
// packet; a full ring counts one overrun and drops the remainder of the
// packet, keeping the frames already pushed.
func (s *Streamer) OnPacket(data []byte) {
	if !s.active || len(data) == 0 {
		return
	}
	fb := s.format.FrameBytes()
	if len(data)%fb != 0 {
		s.mismatches++
		return
	}
	for off := 0; off < len(data); off += fb {
		f := audio.DecodeFrame(data[off:], s.format)
		if err := s.ring.Push(f); err != nil {
			// Push only fails when full; the host outran the feedback
			// loop. Keep what fit.
			s.overruns++
			pkg.LogDebug(pkg.ComponentEndpoint, "ring full, packet truncated",
				"pushed_frames", off/fb,
				"packet_frames", len(data)/fb)
			return
		}
	}
}

// FormatMismatches returns the number of packets dropped for invalid
// length since activation.
func (s *Streamer) FormatMismatches() uint32 {
	return s.mismatches
}

// Overruns returns the number of packets truncated against a full ring
// since activation.
func (s *Streamer) Overruns() uint32 {
	return s.overruns
}
