// Package usb provides the device-side USB types the audio function is
// built on: SETUP packet parsing, standard descriptor serialization, and
// the transport boundary.
//
// The package deliberately stops at the endpoint-buffer level. Low-level
// link and PHY handling belongs to the platform transport, which delivers
// completed isochronous payloads and control requests to a [Handler] and
// accepts clock-feedback data through a [FeedbackSink]. An in-memory
// transport for tests lives in [github.com/ardnew/usbdac/usb/loopback].
//
// # Zero-Allocation Design
//
// Serialization follows the MarshalTo(buf) pattern and parsing uses
// output parameters, so descriptor and request handling performs no heap
// allocation. Descriptor sets are assembled into caller-provided buffers.
package usb
