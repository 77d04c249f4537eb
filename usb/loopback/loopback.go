package loopback

import (
	"sync"

	"github.com/ardnew/usbdac/pkg"
	"github.com/ardnew/usbdac/usb"
)

// MaxFeedbackSize is the largest feedback payload a transport stages
// (4 bytes for high-speed Q16.16, 3 bytes for full-speed Q10.14).
const MaxFeedbackSize = 4

// Transport is an in-memory USB transport. It implements
// [usb.FeedbackSink] and drives an attached [usb.Handler] from the
// caller's goroutine, so tests control interleaving exactly.
type Transport struct {
	handler usb.Handler

	// Recorded function behavior
	stallCount    int
	feedback      [][MaxFeedbackSize]byte
	feedbackSizes []int
	feedbackEP    uint8

	mutex sync.Mutex
}

// New creates a new loopback transport.
func New() *Transport {
	return &Transport{}
}

// Attach connects a device function to the transport.
func (t *Transport) Attach(h usb.Handler) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.handler = h
}

// SubmitRequest dispatches a control request to the attached function.
// A function error is recorded as a control stall, matching what the
// host would observe, and returned to the caller.
func (t *Transport) SubmitRequest(setup *usb.SetupPacket, data []byte) ([]byte, error) {
	t.mutex.Lock()
	h := t.handler
	t.mutex.Unlock()

	if h == nil {
		return nil, pkg.ErrNotConfigured
	}

	resp, err := h.Request(setup, data)
	if err != nil {
		t.mutex.Lock()
		t.stallCount++
		t.mutex.Unlock()
		pkg.LogDebug(pkg.ComponentTransport, "control request stalled",
			"request", setup.String(),
			"error", err)
		return nil, err
	}
	return resp, nil
}

// SubmitPacket delivers an isochronous OUT payload to the attached function.
func (t *Transport) SubmitPacket(endpoint uint8, data []byte) {
	t.mutex.Lock()
	h := t.handler
	t.mutex.Unlock()

	if h == nil {
		return
	}
	h.DeliverPacket(endpoint, data)
}

// RaiseEvent signals a bus-level event to the attached function.
func (t *Transport) RaiseEvent(event usb.Event) {
	t.mutex.Lock()
	h := t.handler
	t.mutex.Unlock()

	if h == nil {
		return
	}
	h.Notify(event)
}

// ReportFeedback records feedback data staged by the function.
func (t *Transport) ReportFeedback(endpoint uint8, data []byte) error {
	if len(data) > MaxFeedbackSize {
		return pkg.ErrBufferTooSmall
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	var buf [MaxFeedbackSize]byte
	copy(buf[:], data)
	t.feedback = append(t.feedback, buf)
	t.feedbackSizes = append(t.feedbackSizes, len(data))
	t.feedbackEP = endpoint
	return nil
}

// StallCount returns the number of stalled control requests.
func (t *Transport) StallCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.stallCount
}

// FeedbackCount returns the number of feedback values staged.
func (t *Transport) FeedbackCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.feedback)
}

// LastFeedback returns the most recent feedback payload, or nil if none
// has been staged.
func (t *Transport) LastFeedback() []byte {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.feedback) == 0 {
		return nil
	}
	i := len(t.feedback) - 1
	out := make([]byte, t.feedbackSizes[i])
	copy(out, t.feedback[i][:t.feedbackSizes[i]])
	return out
}

// FeedbackEndpoint returns the endpoint address of the last staged
// feedback value.
func (t *Transport) FeedbackEndpoint() uint8 {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.feedbackEP
}

// Compile-time interface check
var _ usb.FeedbackSink = (*Transport)(nil)
