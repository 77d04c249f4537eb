package pio

import (
	"math/bits"

	"github.com/ardnew/usbdac/pkg"
)

// BaseClockHz is the system clock feeding the timing engine.
const BaseClockHz = 125_000_000

// Instruction cycle counts of the two programs. The data program spends
// four instructions per output bit, the frame-clock program two
// instructions per LRCK period half.
const (
	DataCyclesPerBit       = 4
	FrameClockCyclesPerTog = 2
)

// BitClockMultiplier is the BCK rate as a multiple of the sample rate:
// two channels of 32-bit slots per frame.
const BitClockMultiplier = 64

// I2SDataProgram shifts serial audio data while side-setting the bit
// clock. Assembled from:
//
//	.side_set 1
//	loop:
//	    pull ifempty noblock    side 0
//	    nop                     side 0
//	    out pins, 1             side 1
//	    jmp loop                side 1
var I2SDataProgram = Program{
	Instructions: []uint16{
		0x80C0, // pull ifempty noblock  side 0
		0xA042, // nop                   side 0
		0x7001, // out pins, 1           side 1
		0x1000, // jmp loop              side 1
	},
	SideSetBits: 1,
	WrapTarget:  0,
	Wrap:        3,
}

// FrameClockProgram toggles the frame clock (LRCK) once per instruction.
// Assembled from:
//
//	.side_set 1
//	loop:
//	    nop         side 1
//	    jmp loop    side 0
var FrameClockProgram = Program{
	Instructions: []uint16{
		0xB042, // nop       side 1
		0x0000, // jmp loop  side 0
	},
	SideSetBits: 1,
	WrapTarget:  0,
	Wrap:        1,
}

// BitClockForRate returns the BCK frequency for a sample rate, from the
// PCM510x PLL operation table (BCK = 64 x LRCK). Returns ok = false for
// rates the DAC cannot clock.
func BitClockForRate(sampleRate uint32) (bckHz float64, ok bool) {
	switch sampleRate {
	case 32000:
		return 1.024e6, true
	case 44100:
		return 1.4112e6, true
	case 48000:
		return 1.536e6, true
	case 88200:
		return 2.8224e6, true
	case 96000:
		return 3.072e6, true
	case 192000:
		return 6.144e6, true
	case 384000:
		return 12.288e6, true
	default:
		return 0, false
	}
}

// SplitDivider splits a fractional clock divider into the whole and
// 1/256th parts the engine's divider register takes.
func SplitDivider(div float64) (whole uint16, frac uint8) {
	whole = uint16(div)
	frac = uint8((div - float64(whole)) * 256.0)
	return whole, frac
}

// DataClockDivider computes the divider for the data+BCK channel at the
// given sample rate.
//
// The channel executes DataCyclesPerBit instructions per output bit, so
// the divider satisfies (BaseClockHz / DataCyclesPerBit) / div = BCK.
func DataClockDivider(sampleRate uint32) (whole uint16, frac uint8, err error) {
	bck, ok := BitClockForRate(sampleRate)
	if !ok {
		return 0, 0, pkg.ErrUnsupportedFormat
	}
	whole, frac = SplitDivider((BaseClockHz / DataCyclesPerBit) / bck)
	return whole, frac, nil
}

// FrameClockDivider computes the divider for the LRCK channel at the
// given sample rate.
func FrameClockDivider(sampleRate uint32) (whole uint16, frac uint8, err error) {
	if _, ok := BitClockForRate(sampleRate); !ok {
		return 0, 0, pkg.ErrUnsupportedFormat
	}
	whole, frac = SplitDivider((BaseClockHz / FrameClockCyclesPerTog) / float64(sampleRate))
	return whole, frac, nil
}

// PackWord packs one signed sample into a 32-bit FIFO word in the form
// the PCM510x expects on the wire.
//
// For 24-bit data the sign bit is carried in bit 31 with the remaining
// bytes right-aligned below it; 16-bit data occupies the word as-is.
// The result is bit-reversed because the output shift register empties
// LSB-first while the DAC reads MSB-first.
func PackWord(sample int32, depth24 bool) uint32 {
	u := uint32(sample)
	if depth24 {
		// Keep the low 3 bytes, mask the sign byte to 7 bits, and restore
		// the sign into bit 31.
		w := u & 0x00FFFFFF
		w |= (u >> 24 & 0x7F) << 24
		if u&0x80000000 != 0 {
			w |= 0x80000000
		}
		u = w
	}
	return bits.Reverse32(u)
}
