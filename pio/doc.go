// Package pio defines the boundary to the programmable hardware timing
// engine that shifts serial audio out to the DAC.
//
// The engine model follows the RP2040 PIO: small programs of 16-bit
// instructions run on independent state machines, each with a TX FIFO,
// a fractional clock divider, and side-set pins toggled alongside every
// instruction. Two programs generate the DAC's serial interface:
//
//   - [I2SDataProgram] shifts one data bit per four instructions while
//     side-setting the bit clock (BCK), emptying a 32-bit word from the
//     FIFO every 32 bits.
//   - [FrameClockProgram] toggles the frame clock (LRCK) at the sample
//     rate, one half-period per instruction.
//
// The bit clock runs at 64 times the sample rate, one 32-bit slot per
// channel, as required by the PCM510x DAC family in PLL operation.
//
// Platform code implements [Channel] against real hardware; the
// [github.com/ardnew/usbdac/pio/piosim] package provides a deterministic
// software channel for tests.
//
// Word packing for the DAC lives here too: samples are packed into
// 32-bit FIFO words and bit-reversed so that an LSB-first output shift
// presents the data MSB-first on the wire.
package pio
