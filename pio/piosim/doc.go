// Package piosim provides a deterministic software implementation of
// [pio.Channel] for testing the sample pipeline without hardware.
//
// A simulated channel holds a fixed-depth TX FIFO and advances only when
// the test calls [Channel.Clock]: each clock drains one word (one
// channel-sample's worth of shifting) and fires the registered low-water
// handler once the level reaches the mark, exactly like the hardware
// FIFO interrupt. Every drained word is recorded for assertions.
package piosim
