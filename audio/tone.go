package audio

import "math"

// DefaultToneHz is the built-in test tone frequency.
const DefaultToneHz = 300.0

// Tone amplitudes leave headroom below full scale so the analog output
// stays clear of the DAC's clipping region.
const (
	toneAmplitude24 = 0x6F_FFFF
	toneAmplitude16 = 0x6FFF
)

// ToneSource produces a deterministic sine on both channels. It
// implements [Source] and never fails, so an engine fed from it can
// run indefinitely with zero underruns; this isolates timing-engine and
// DAC bring-up from the USB stack entirely.
type ToneSource struct {
	phase     float64
	step      float64
	amplitude float64
}

// NewToneSource creates a sine source at the given frequency for the
// format's sample rate and depth.
func NewToneSource(freqHz float64, format Format) *ToneSource {
	amp := float64(toneAmplitude16)
	if format.Depth == Depth24 {
		amp = float64(toneAmplitude24)
	}
	return &ToneSource{
		step:      2 * math.Pi * freqHz / float64(format.SampleRate),
		amplitude: amp,
	}
}

// NextFrame returns the next sample on both channels. The error is
// always nil.
func (t *ToneSource) NextFrame() (Frame, error) {
	s := int32(math.Round(t.amplitude * math.Sin(t.phase)))
	t.phase += t.step
	if t.phase >= 2*math.Pi {
		t.phase -= 2 * math.Pi
	}
	return Frame{Left: s, Right: s}, nil
}

// Compile-time interface check
var _ Source = (*ToneSource)(nil)
