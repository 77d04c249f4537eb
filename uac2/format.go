package uac2

import "github.com/ardnew/usbdac/audio"

// Capabilities enumerates the stream formats the function advertises.
// Every combination of a listed rate and depth is valid; the timing
// engine derives its clock dividers from the rate alone.
type Capabilities struct {
	Rates  []uint32
	Depths []audio.BitDepth
}

// DefaultCapabilities returns the formats of the stock device: the
// rates the DAC's PLL tracks at 64x bit clock, at 16- and 24-bit depth.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Rates:  []uint32{44100, 48000, 88200, 96000},
		Depths: []audio.BitDepth{audio.Depth16, audio.Depth24},
	}
}

// SupportsRate reports whether the rate is advertised.
func (c Capabilities) SupportsRate(rate uint32) bool {
	for _, r := range c.Rates {
		if r == rate {
			return true
		}
	}
	return false
}

// SupportsDepth reports whether the depth is advertised.
func (c Capabilities) SupportsDepth(depth audio.BitDepth) bool {
	for _, d := range c.Depths {
		if d == depth {
			return true
		}
	}
	return false
}

// Supports reports whether the complete format is advertised.
func (c Capabilities) Supports(f audio.Format) bool {
	return f.Channels == StreamChannels &&
		c.SupportsRate(f.SampleRate) &&
		c.SupportsDepth(f.Depth)
}
