// Package loopback provides an in-memory USB transport for testing the
// audio function without hardware.
//
// A [Transport] plays the host side of the bus: tests submit control
// requests and isochronous packets, and the transport dispatches them
// synchronously to the attached [usb.Handler], recording stalls and any
// feedback values the function stages.
//
//	lb := loopback.New()
//	lb.Attach(fn)
//	resp, err := lb.SubmitRequest(&setup, nil)
//	lb.SubmitPacket(0x01, payload)
package loopback
