package audio

import "testing"

func TestDecodeSample_SignExtension(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		depth BitDepth
		want  int32
	}{
		{"16-bit positive", []byte{0xFF, 0x7F}, Depth16, 32767},
		{"16-bit negative", []byte{0x00, 0x80}, Depth16, -32768},
		{"16-bit minus one", []byte{0xFF, 0xFF}, Depth16, -1},
		{"24-bit positive", []byte{0xFF, 0xFF, 0x7F}, Depth24, 8388607},
		{"24-bit negative", []byte{0x00, 0x00, 0x80}, Depth24, -8388608},
		{"24-bit minus one", []byte{0xFF, 0xFF, 0xFF}, Depth24, -1},
		{"zero", []byte{0x00, 0x00, 0x00}, Depth24, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeSample(tt.data, tt.depth); got != tt.want {
				t.Errorf("DecodeSample() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeFrame(t *testing.T) {
	f16 := Format{SampleRate: 48000, Depth: Depth16, Channels: 2}
	f24 := Format{SampleRate: 96000, Depth: Depth24, Channels: 2}

	tests := []struct {
		name   string
		format Format
		frame  Frame
	}{
		{"16-bit", f16, Frame{Left: -1234, Right: 5678}},
		{"24-bit", f24, Frame{Left: -700000, Right: 8388607}},
		{"24-bit negative full scale", f24, Frame{Left: -8388608, Right: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf [6]byte
			n := EncodeFrame(buf[:], tt.frame, tt.format)
			if n != tt.format.FrameBytes() {
				t.Fatalf("EncodeFrame() = %d bytes, want %d", n, tt.format.FrameBytes())
			}
			if got := DecodeFrame(buf[:n], tt.format); got != tt.frame {
				t.Errorf("DecodeFrame() = %+v, want %+v", got, tt.frame)
			}
		})
	}
}

func TestEncodeFrame_BufferTooSmall(t *testing.T) {
	f := Format{SampleRate: 48000, Depth: Depth24, Channels: 2}
	var buf [5]byte
	if n := EncodeFrame(buf[:], Frame{Left: 1, Right: 2}, f); n != 0 {
		t.Errorf("EncodeFrame() = %d into short buffer, want 0", n)
	}
}

func TestFormat_Valid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   bool
	}{
		{"16-bit stereo", Format{48000, Depth16, 2}, true},
		{"24-bit stereo", Format{96000, Depth24, 2}, true},
		{"zero rate", Format{0, Depth16, 2}, false},
		{"bad depth", Format{48000, 32, 2}, false},
		{"mono", Format{48000, Depth16, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormat_FrameBytes(t *testing.T) {
	if got := (Format{48000, Depth16, 2}).FrameBytes(); got != 4 {
		t.Errorf("16-bit FrameBytes() = %d, want 4", got)
	}
	if got := (Format{48000, Depth24, 2}).FrameBytes(); got != 6 {
		t.Errorf("24-bit FrameBytes() = %d, want 6", got)
	}
}
