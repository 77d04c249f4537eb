package audio

// BitDepth is the PCM sample width on the wire.
type BitDepth uint8

// Supported bit depths.
const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
)

// Valid returns true for a supported bit depth.
func (d BitDepth) Valid() bool {
	return d == Depth16 || d == Depth24
}

// Bytes returns the per-sample byte count for the depth.
func (d BitDepth) Bytes() int {
	return int(d) / 8
}

// Frame is one stereo sample pair. Samples are held sign-extended in
// int32 regardless of wire depth. A Frame is immutable once produced.
type Frame struct {
	Left  int32
	Right int32
}

// Silence is the zero-amplitude frame substituted on underrun.
var Silence = Frame{}

// Format describes a negotiated stream format. It is created on stream
// activation and immutable until the next activation.
type Format struct {
	SampleRate uint32   // Frames per second
	Depth      BitDepth // Wire sample width
	Channels   uint8    // Always 2 for this device
}

// Valid returns true if the format is structurally usable (it says
// nothing about whether the device advertises it).
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Depth.Valid() && f.Channels == 2
}

// FrameBytes returns the wire size of one frame in this format.
func (f Format) FrameBytes() int {
	return f.Depth.Bytes() * int(f.Channels)
}

// Source produces frames on demand. Implementations must be
// non-blocking: [Ring] returns [pkg.ErrUnderrun] when empty, and
// [ToneSource] never fails.
type Source interface {
	// NextFrame returns the next frame to emit.
	NextFrame() (Frame, error)
}

// DecodeSample decodes one little-endian sample of the given depth,
// sign-extending into int32. The caller guarantees len(data) covers the
// sample width.
func DecodeSample(data []byte, depth BitDepth) int32 {
	if depth == Depth16 {
		return int32(int16(uint16(data[0]) | uint16(data[1])<<8))
	}
	u := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
	return int32(u<<8) >> 8
}

// EncodeSample encodes one sample little-endian at the given depth.
// Returns the number of bytes written, or 0 if buf is too small.
func EncodeSample(buf []byte, sample int32, depth BitDepth) int {
	n := depth.Bytes()
	if len(buf) < n {
		return 0
	}
	buf[0] = byte(sample)
	buf[1] = byte(sample >> 8)
	if depth == Depth24 {
		buf[2] = byte(sample >> 16)
	}
	return n
}

// DecodeFrame decodes one stereo frame (left sample first). The caller
// guarantees len(data) >= f.FrameBytes().
func DecodeFrame(data []byte, f Format) Frame {
	n := f.Depth.Bytes()
	return Frame{
		Left:  DecodeSample(data, f.Depth),
		Right: DecodeSample(data[n:], f.Depth),
	}
}

// EncodeFrame encodes one stereo frame little-endian, left sample
// first. Returns the number of bytes written, or 0 if buf is too small.
func EncodeFrame(buf []byte, frame Frame, f Format) int {
	n := f.FrameBytes()
	if len(buf) < n {
		return 0
	}
	half := f.Depth.Bytes()
	EncodeSample(buf, frame.Left, f.Depth)
	EncodeSample(buf[half:], frame.Right, f.Depth)
	return n
}
