package uac2

// End-to-end tests driving the full function: loopback transport in,
// simulated timing-engine channels out.

import (
	"testing"

	"github.com/ardnew/usbdac/audio"
	"github.com/ardnew/usbdac/pio"
)

// A 24-bit stream delivers every frame to the serial interface in
// arrival order, left word first, after the priming silence.
func TestEndToEnd_PacketToSerialData(t *testing.T) {
	f := newTestFunction()
	f.startStreaming(t, 48000, AltStream24Bit)

	format := f.engine.Format()
	frames := []audio.Frame{
		{Left: 0x123456, Right: -0x123456},
		{Left: 0x654321, Right: -0x654321},
		{Left: 0x7FFFFF, Right: -0x800000},
		{Left: 1, Right: -1},
	}
	f.transport.SubmitPacket(EndpointAudioOut, packetFromFrames(t, frames, format))
	if got := f.ring.Occupancy(); got != len(frames) {
		t.Fatalf("ring occupancy = %d after packet, want %d", got, len(frames))
	}

	prime := f.data.Depth()
	f.data.Clock(prime + 2*len(frames))

	shifted := f.data.Shifted()
	if len(shifted) != prime+2*len(frames) {
		t.Fatalf("shifted %d words, want %d", len(shifted), prime+2*len(frames))
	}
	for i, fr := range frames {
		wantL := pio.PackWord(fr.Left, true)
		wantR := pio.PackWord(fr.Right, true)
		if got := shifted[prime+2*i]; got != wantL {
			t.Errorf("frame #%d left word = %#08x, want %#08x", i, got, wantL)
		}
		if got := shifted[prime+2*i+1]; got != wantR {
			t.Errorf("frame #%d right word = %#08x, want %#08x", i, got, wantR)
		}
	}
	// The refill cycle after the packet is exhausted runs dry exactly
	// once.
	if got := f.engine.Underruns(); got != 1 {
		t.Errorf("Underruns() = %d, want 1", got)
	}
}

// A host that stops sending mid-stream gets silence, one counted
// underrun per dry refill cycle, and seamless recovery when packets
// return.
func TestEndToEnd_UnderrunRecovery(t *testing.T) {
	f := newTestFunction()
	f.startStreaming(t, 48000, AltStream16Bit)
	format := f.engine.Format()

	// Host goes quiet: the first refill against the empty ring
	// substitutes silence and counts once.
	f.data.Clock(f.data.Depth() / 2)
	if got := f.engine.Underruns(); got != 1 {
		t.Fatalf("Underruns() = %d after dry cycle, want 1", got)
	}
	if got := f.control.State(); got != StateStreaming {
		t.Fatalf("State() = %v after underrun, want streaming", got)
	}

	// Host resumes: frames flow again without renegotiation.
	frames := []audio.Frame{{Left: 1000, Right: -1000}, {Left: 2000, Right: -2000}}
	f.transport.SubmitPacket(EndpointAudioOut, packetFromFrames(t, frames, format))

	before := len(f.data.Shifted())
	f.data.Clock(2 * f.data.Depth())
	shifted := f.data.Shifted()[before:]

	wantL := pio.PackWord(frames[0].Left, false)
	found := false
	for _, w := range shifted {
		if w == wantL {
			found = true
			break
		}
	}
	if !found {
		t.Error("resumed frames never reached the serial interface")
	}
	if got := f.engine.Underruns(); got < 1 {
		t.Errorf("Underruns() = %d, want >= 1", got)
	}
}

// A rejected format negotiation stalls the control endpoint and leaves
// the running stream untouched.
func TestEndToEnd_RejectedFormatKeepsStreaming(t *testing.T) {
	f := newTestFunction()
	f.startStreaming(t, 48000, AltStream24Bit)
	format := f.engine.Format()

	if err := f.setRate(192000); err == nil {
		t.Fatal("set rate 192000 succeeded, want stall")
	}
	if got := f.transport.StallCount(); got != 1 {
		t.Errorf("StallCount() = %d, want 1", got)
	}
	if got := f.control.State(); got != StateStreaming {
		t.Errorf("State() = %v after rejection, want streaming", got)
	}
	if got := f.control.SampleRate(); got != 48000 {
		t.Errorf("SampleRate() = %d after rejection, want 48000", got)
	}

	// Packets submitted after the stall still play.
	frames := []audio.Frame{{Left: 42, Right: -42}}
	f.transport.SubmitPacket(EndpointAudioOut, packetFromFrames(t, frames, format))
	if got := f.ring.Occupancy(); got != 1 {
		t.Errorf("ring occupancy = %d after post-stall packet, want 1", got)
	}
}

// The feedback loop steers the reported rate against sustained ring
// occupancy imbalance.
func TestEndToEnd_FeedbackTracksOccupancy(t *testing.T) {
	f := newTestFunction()
	f.startStreaming(t, 48000, AltStream16Bit)
	format := f.engine.Format()

	// Flood the ring far above the setpoint.
	frames := make([]audio.Frame, f.ring.Capacity())
	for i := range frames {
		frames[i] = audio.Frame{Left: int32(i), Right: int32(i)}
	}
	f.transport.SubmitPacket(EndpointAudioOut, packetFromFrames(t, frames, format))

	for i := 0; i < 100; i++ {
		if err := f.control.ServiceFeedback(); err != nil {
			t.Fatalf("ServiceFeedback error: %v", err)
		}
	}

	fb := f.transport.LastFeedback()
	if len(fb) != 4 {
		t.Fatalf("feedback is %d bytes, want 4", len(fb))
	}
	value := uint32(fb[0]) | uint32(fb[1])<<8 | uint32(fb[2])<<16 | uint32(fb[3])<<24
	if nominal := uint32(48 << 16); value >= nominal {
		t.Errorf("feedback value = %#x with flooded ring, want below nominal %#x", value, nominal)
	}
}

// Switching depth mid-session renegotiates cleanly through alternate 0.
func TestEndToEnd_DepthSwitch(t *testing.T) {
	f := newTestFunction()
	f.startStreaming(t, 96000, AltStream16Bit)
	if got := f.engine.Format().Depth; got != audio.Depth16 {
		t.Fatalf("depth = %d, want 16", got)
	}

	if err := f.setAlternate(AltStreamOff); err != nil {
		t.Fatalf("alt 0 error: %v", err)
	}
	if err := f.setAlternate(AltStream24Bit); err != nil {
		t.Fatalf("alt 2 error: %v", err)
	}
	got := f.engine.Format()
	if got.Depth != audio.Depth24 || got.SampleRate != 96000 {
		t.Errorf("format = %+v, want 96000 Hz 24-bit", got)
	}
	if !f.engine.Running() {
		t.Error("engine not running after depth switch")
	}
}
