package pkg

import "errors"

// Streaming-path faults. All of these are recoverable: the component that
// detects them absorbs the fault, bumps a counter, and keeps the stream
// alive.
var (
	// ErrOverrun indicates the producer outran the consumer: a frame was
	// pushed while the ring was full. The incoming data is dropped.
	ErrOverrun = errors.New("sample overrun")

	// ErrUnderrun indicates the consumer outran the producer: a frame was
	// popped while the ring was empty. Silence is substituted.
	ErrUnderrun = errors.New("sample underrun")

	// ErrFormatMismatch indicates a received payload does not match the
	// active stream format (length not a multiple of the frame size).
	ErrFormatMismatch = errors.New("packet format mismatch")

	// ErrDeadlineOverrun indicates the sample-clock handler was re-entered
	// while still active, meaning a cycle missed its deadline.
	ErrDeadlineOverrun = errors.New("sample deadline overrun")
)

// Control-layer errors. These surface to the host as stalled requests or
// are returned to callers misusing the API.
var (
	// ErrUnsupportedFormat indicates the host requested a sample rate or
	// bit depth outside the advertised capability table.
	ErrUnsupportedFormat = errors.New("unsupported stream format")

	// ErrStall indicates an endpoint stall condition.
	ErrStall = errors.New("endpoint stalled")

	// ErrInvalidState indicates an invalid stream or device state for the operation.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidRequest indicates an invalid or unsupported control request.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidEndpoint indicates an invalid endpoint address.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrNotConfigured indicates the device is not configured.
	ErrNotConfigured = errors.New("device not configured")

	// ErrNotStarted indicates the component has not been started.
	ErrNotStarted = errors.New("not started")

	// ErrAlreadyRunning indicates the component is already running.
	ErrAlreadyRunning = errors.New("already running")
)

// Transport and marshaling errors.
var (
	// ErrTransport indicates a fault reported by the USB transport. The
	// core does not attempt recovery; it returns the stream to Inactive.
	ErrTransport = errors.New("transport fault")

	// ErrBufferTooSmall indicates the provided buffer is too small.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrSetupPacketTooShort indicates the setup packet data is too short.
	ErrSetupPacketTooShort = errors.New("setup packet too short")

	// ErrDescriptorTooShort indicates the descriptor data is too short.
	ErrDescriptorTooShort = errors.New("descriptor too short")

	// ErrDescriptorTypeMismatch indicates the descriptor type does not match expected.
	ErrDescriptorTypeMismatch = errors.New("descriptor type mismatch")

	// ErrProgramTooLarge indicates a timing-engine program exceeds instruction memory.
	ErrProgramTooLarge = errors.New("program too large")

	// ErrNoMemory indicates insufficient fixed-capacity storage.
	ErrNoMemory = errors.New("insufficient memory")

	// ErrBusy indicates the resource is busy.
	ErrBusy = errors.New("resource busy")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Fault identifies a class of recoverable streaming fault for counting
// and diagnostics.
type Fault int

// Fault classes.
const (
	FaultNone            Fault = iota // No fault
	FaultOverrun                      // Producer outran consumer
	FaultUnderrun                     // Consumer outran producer
	FaultFormatMismatch               // Malformed or mismatched payload
	FaultDeadlineOverrun              // Sample-clock handler re-entered
)

// String returns a string representation of the fault class.
func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultOverrun:
		return "overrun"
	case FaultUnderrun:
		return "underrun"
	case FaultFormatMismatch:
		return "format mismatch"
	case FaultDeadlineOverrun:
		return "deadline overrun"
	default:
		return "unknown"
	}
}

// Error returns the corresponding sentinel error for the fault class.
func (f Fault) Error() error {
	switch f {
	case FaultNone:
		return nil
	case FaultOverrun:
		return ErrOverrun
	case FaultUnderrun:
		return ErrUnderrun
	case FaultFormatMismatch:
		return ErrFormatMismatch
	case FaultDeadlineOverrun:
		return ErrDeadlineOverrun
	default:
		return ErrInvalidState
	}
}
