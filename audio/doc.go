// Package audio implements the real-time sample pipeline between the
// USB transport and the DAC's serial interface.
//
// # Data path
//
//	transport -> uac2.Streamer -> Ring -> Engine -> pio.Channel -> DAC
//	                    Ring occupancy -> Feedback -> host
//
// [Ring] is the sole handoff between the two execution contexts: the
// transport-driven producer and the sample-clock-driven consumer. It is
// a single-producer/single-consumer structure synchronized purely by
// monotonic indices; neither side ever blocks the other.
//
// [Engine] owns the hard real-time deadline: once started, one stereo
// frame must reach the timing engine every sample period. Its per-cycle
// handler performs no allocation, takes no locks, and never logs; every
// fault on this path is absorbed by substituting silence and bumping a
// counter.
//
// [Feedback] closes the rate loop between the host's USB frame clock
// and the local sample clock by trending ring occupancy into a clamped
// correction reported on the feedback endpoint.
//
// [ToneSource] generates a deterministic sine so the engine and DAC
// path can be exercised with no host connection; it plugs into the same
// [Source] seam as the ring.
package audio
