package uac2

import (
	"encoding/binary"

	"github.com/ardnew/usbdac/audio"
	"github.com/ardnew/usbdac/pkg"
	"github.com/ardnew/usbdac/usb"
)

// State is the lifecycle state of the audio function.
type State uint8

// Function states. Only SET_INTERFACE on the streaming interface moves
// the function in or out of StateStreaming; faults on the data path are
// absorbed below this layer and never change state. An unrecoverable
// transport fault is the one exception, returning the function to
// StateInactive.
const (
	StateInactive    State = iota // Not configured
	StateConfiguring              // Configured, stream stopped
	StateStreaming                // Stream active
	StateSuspended                // Bus suspended
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateConfiguring:
		return "configuring"
	case StateStreaming:
		return "streaming"
	case StateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// DefaultSampleRate is the clock frequency before the host programs one.
const DefaultSampleRate = 48000

// Control is the audio function's control plane. It implements
// [usb.Handler]: the transport delivers every control request, data
// packet, and bus event here, from a single context, so Control holds
// no locks.
//
// A rejected request never disturbs an active stream: validation
// happens before any state is touched, and the returned error becomes a
// control stall while playback continues on the previous format.
type Control struct {
	engine   *audio.Engine
	ring     *audio.Ring
	caps     Capabilities
	streamer *Streamer
	feedback *audio.Feedback

	sink      usb.FeedbackSink
	highSpeed bool

	state      State
	sampleRate uint32
	alt        uint8

	resumeState State
	resumeAlt   uint8

	transportFaults uint32

	scratch    [8]byte
	scratchCfg [256]byte
}

// NewControl creates the control plane over the engine and ring,
// advertising the given capabilities.
func NewControl(engine *audio.Engine, ring *audio.Ring, caps Capabilities) *Control {
	return &Control{
		engine:     engine,
		ring:       ring,
		caps:       caps,
		streamer:   NewStreamer(ring),
		sampleRate: DefaultSampleRate,
	}
}

// AttachFeedback binds the sink that carries rate feedback to the host.
// highSpeed selects the wire encoding of the feedback value.
func (c *Control) AttachFeedback(sink usb.FeedbackSink, highSpeed bool) {
	c.sink = sink
	c.highSpeed = highSpeed
}

// State returns the current function state.
func (c *Control) State() State {
	return c.state
}

// SampleRate returns the programmed clock frequency.
func (c *Control) SampleRate() uint32 {
	return c.sampleRate
}

// AlternateSetting returns the active streaming alternate.
func (c *Control) AlternateSetting() uint8 {
	return c.alt
}

// TransportFaults returns the number of bus faults absorbed.
func (c *Control) TransportFaults() uint32 {
	return c.transportFaults
}

// Streamer returns the data-endpoint consumer, for counter inspection.
func (c *Control) Streamer() *Streamer {
	return c.streamer
}

// Counters is a snapshot of the function's absorbed-fault counters.
type Counters struct {
	Underruns        uint32 // Dry refill cycles (engine)
	DeadlineOverruns uint32 // Dropped reentrant service cycles (engine)
	FormatMismatches uint32 // Ragged packets dropped (streamer)
	Overruns         uint32 // Packets truncated against a full ring (streamer)
	TransportFaults  uint32 // Bus faults and misdirected packets
}

// Counters returns a snapshot of all fault counters.
func (c *Control) Counters() Counters {
	return Counters{
		Underruns:        c.engine.Underruns(),
		DeadlineOverruns: c.engine.DeadlineOverruns(),
		FormatMismatches: c.streamer.FormatMismatches(),
		Overruns:         c.streamer.Overruns(),
		TransportFaults:  c.transportFaults,
	}
}

// Request implements [usb.Handler]. A non-nil error stalls the control
// endpoint; the function state is guaranteed unchanged in that case.
func (c *Control) Request(setup *usb.SetupPacket, data []byte) ([]byte, error) {
	var resp []byte
	var err error
	switch {
	case setup.IsStandard():
		resp, err = c.standardRequest(setup)
	case setup.IsClass() && setup.IsInterfaceRecipient():
		resp, err = c.classRequest(setup, data)
	default:
		err = pkg.ErrInvalidRequest
	}
	if err != nil {
		pkg.LogWarn(pkg.ComponentControl, "request stalled",
			"setup", setup.String(),
			"error", err)
		return nil, err
	}
	if len(resp) > int(setup.Length) {
		resp = resp[:setup.Length]
	}
	return resp, nil
}

func (c *Control) standardRequest(setup *usb.SetupPacket) ([]byte, error) {
	switch setup.Request {
	case usb.RequestGetDescriptor:
		if uint8(setup.Value>>8) != usb.DescriptorTypeConfiguration {
			return nil, pkg.ErrInvalidRequest
		}
		n := BuildConfiguration(c.scratchCfg[:], c.caps)
		if n == 0 {
			return nil, pkg.ErrBufferTooSmall
		}
		return c.scratchCfg[:n], nil

	case usb.RequestSetConfiguration:
		c.stopStream()
		if setup.Value == 0 {
			c.setState(StateInactive)
		} else {
			c.setState(StateConfiguring)
		}
		return nil, nil

	case usb.RequestSetInterface:
		if setup.InterfaceNumber() != InterfaceStreaming {
			return nil, pkg.ErrInvalidRequest
		}
		return nil, c.setAlternate(setup.AlternateSetting())

	case usb.RequestGetInterface:
		if setup.InterfaceNumber() != InterfaceStreaming {
			return nil, pkg.ErrInvalidRequest
		}
		c.scratch[0] = c.alt
		return c.scratch[:1], nil
	}
	return nil, pkg.ErrInvalidRequest
}

func (c *Control) classRequest(setup *usb.SetupPacket, data []byte) ([]byte, error) {
	if setup.EntityID() != EntityIDClockSource {
		return nil, pkg.ErrInvalidRequest
	}
	switch setup.Request {
	case RequestCur:
		switch setup.ControlSelector() {
		case ClockSampleFreqControl:
			if setup.IsDeviceToHost() {
				binary.LittleEndian.PutUint32(c.scratch[:4], c.sampleRate)
				return c.scratch[:4], nil
			}
			return nil, c.setSampleRate(data)
		case ClockValidControl:
			if !setup.IsDeviceToHost() {
				return nil, pkg.ErrInvalidRequest
			}
			c.scratch[0] = 1
			return c.scratch[:1], nil
		}
	case RequestRange:
		if setup.ControlSelector() == ClockSampleFreqControl && setup.IsDeviceToHost() {
			return c.marshalRateRanges(), nil
		}
	}
	return nil, pkg.ErrInvalidRequest
}

// setSampleRate programs the clock source from a host CUR write. The
// rate is pinned while streaming: the host must drop to alternate 0
// before retuning the clock.
func (c *Control) setSampleRate(data []byte) error {
	if len(data) < 4 {
		return pkg.ErrInvalidRequest
	}
	rate := binary.LittleEndian.Uint32(data[:4])
	if !c.caps.SupportsRate(rate) {
		return pkg.ErrUnsupportedFormat
	}
	if c.state == StateStreaming {
		return pkg.ErrInvalidState
	}
	c.sampleRate = rate
	pkg.LogInfo(pkg.ComponentControl, "sample rate programmed", "rate", rate)
	return nil
}

// marshalRateRanges encodes the clock RANGE response: a subrange count
// followed by MIN/MAX/RES triples, one degenerate triple per discrete
// rate.
func (c *Control) marshalRateRanges() []byte {
	buf := c.scratchCfg[:]
	binary.LittleEndian.PutUint16(buf[0:2], uint16(len(c.caps.Rates)))
	n := 2
	for _, r := range c.caps.Rates {
		binary.LittleEndian.PutUint32(buf[n:], r)
		binary.LittleEndian.PutUint32(buf[n+4:], r)
		binary.LittleEndian.PutUint32(buf[n+8:], 0)
		n += 12
	}
	return buf[:n]
}

// setAlternate processes SET_INTERFACE on the streaming interface.
func (c *Control) setAlternate(alt uint8) error {
	if c.state == StateInactive {
		return pkg.ErrNotConfigured
	}
	switch alt {
	case AltStreamOff:
		c.stopStream()
		c.alt = AltStreamOff
		c.setState(StateConfiguring)
		return nil
	case AltStream16Bit, AltStream24Bit:
		return c.startStream(alt)
	}
	return pkg.ErrInvalidRequest
}

// startStream activates the given alternate. Validation precedes any
// teardown so a rejected format leaves a running stream untouched.
func (c *Control) startStream(alt uint8) error {
	depth := audio.Depth16
	if alt == AltStream24Bit {
		depth = audio.Depth24
	}
	format := audio.Format{
		SampleRate: c.sampleRate,
		Depth:      depth,
		Channels:   StreamChannels,
	}
	if !c.caps.Supports(format) {
		return pkg.ErrUnsupportedFormat
	}

	c.stopStream()
	if err := c.engine.Start(format, c.ring); err != nil {
		return err
	}
	c.streamer.Activate(format)
	c.feedback = audio.NewFeedback(c.sampleRate, c.ring.Capacity()/2)
	c.alt = alt
	c.setState(StateStreaming)
	return nil
}

// stopStream tears the stream down. The engine stops before the ring
// resets so the consumer cannot observe indices moving backward.
func (c *Control) stopStream() {
	c.engine.Stop()
	c.streamer.Deactivate()
	c.ring.Reset()
	if c.feedback != nil {
		c.feedback.Reset()
	}
}

func (c *Control) setState(next State) {
	if next == c.state {
		return
	}
	pkg.LogDebug(pkg.ComponentControl, "state transition",
		"from", c.state.String(),
		"to", next.String())
	c.state = next
}

// DeliverPacket implements [usb.Handler]. Only the audio data endpoint
// is consumed; anything else is a transport defect counted as a fault.
func (c *Control) DeliverPacket(endpoint uint8, data []byte) {
	if endpoint != EndpointAudioOut {
		c.transportFaults++
		return
	}
	c.streamer.OnPacket(data)
}

// Notify implements [usb.Handler].
func (c *Control) Notify(event usb.Event) {
	switch event {
	case usb.EventReset:
		c.stopStream()
		c.alt = AltStreamOff
		c.sampleRate = DefaultSampleRate
		c.setState(StateInactive)

	case usb.EventSuspend:
		c.resumeState = c.state
		c.resumeAlt = c.alt
		if c.state == StateStreaming {
			c.stopStream()
		}
		c.setState(StateSuspended)

	case usb.EventResume:
		if c.state != StateSuspended {
			return
		}
		if c.resumeState == StateStreaming {
			if err := c.startStream(c.resumeAlt); err != nil {
				pkg.LogWarn(pkg.ComponentControl, "stream restart failed on resume",
					"error", err)
				c.setState(StateConfiguring)
			}
			return
		}
		c.setState(c.resumeState)

	case usb.EventFault:
		// The transport is gone; no recovery is attempted. Count the
		// fault and return to inactive, as on a bus reset.
		c.transportFaults++
		c.stopStream()
		c.alt = AltStreamOff
		c.setState(StateInactive)
	}
}

// ServiceFeedback publishes one rate-feedback value derived from ring
// occupancy. Call once per feedback interval while streaming; outside
// of streaming it does nothing.
func (c *Control) ServiceFeedback() error {
	if c.state != StateStreaming || c.sink == nil {
		return nil
	}
	c.feedback.Update(c.ring.Occupancy())
	n, err := c.feedback.MarshalTo(c.scratch[:], c.highSpeed)
	if err != nil {
		return err
	}
	return c.sink.ReportFeedback(EndpointFeedback, c.scratch[:n])
}

// Compile-time interface check
var _ usb.Handler = (*Control)(nil)
