package usb

// Event signals a bus-level condition from the transport to the function.
type Event int

// Transport events.
const (
	EventReset   Event = iota // Bus reset
	EventSuspend              // Host suspended the bus
	EventResume               // Host resumed the bus
	EventFault                // Unrecoverable transport fault
)

// String returns a human-readable event name.
func (e Event) String() string {
	switch e {
	case EventReset:
		return "reset"
	case EventSuspend:
		return "suspend"
	case EventResume:
		return "resume"
	case EventFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Handler is implemented by a device function and invoked by the
// transport from its event context. The transport owns the link layer;
// the function owns everything above the endpoint-buffer boundary.
type Handler interface {
	// Request processes a class or standard control request addressed to
	// the function. For device-to-host requests the returned bytes form
	// the data stage. A non-nil error instructs the transport to stall
	// the control endpoint.
	Request(setup *SetupPacket, data []byte) ([]byte, error)

	// DeliverPacket is invoked on completion of an isochronous OUT
	// transfer. The payload is only valid for the duration of the call.
	DeliverPacket(endpoint uint8, data []byte)

	// Notify reports a bus-level event.
	Notify(event Event)
}

// FeedbackSink accepts rate-feedback data for an isochronous IN feedback
// endpoint. The transport transmits the most recent value each feedback
// interval.
type FeedbackSink interface {
	// ReportFeedback stages data on the given feedback endpoint.
	ReportFeedback(endpoint uint8, data []byte) error
}
