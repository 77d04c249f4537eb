// Package uac2 implements the USB Audio Class 2.0 function: the
// descriptor surface the host enumerates, the control state machine
// that negotiates clock and format, and the streaming interface that
// moves isochronous packets into the sample ring.
//
// The function exposes one speaker topology:
//
//	USB streaming terminal -> clock source -> speaker terminal
//
// with an asynchronous isochronous OUT data endpoint and an explicit
// feedback IN endpoint. [Control] implements [usb.Handler] and is the
// single entry point for everything arriving from the transport;
// [Streamer] handles only the data endpoint's payload path and is
// deliberately fault-silent, counting malformed packets and full-ring
// drops instead of failing the stream.
package uac2
