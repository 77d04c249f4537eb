package pio

// MaxProgramSize is the instruction memory capacity of one engine block.
const MaxProgramSize = 32

// Program is an assembled timing-engine program.
type Program struct {
	// Instructions holds the assembled 16-bit instruction words.
	Instructions []uint16

	// SideSetBits is the number of bits dedicated to side-set in the
	// delay/side-set field of every instruction.
	SideSetBits uint8

	// WrapTarget and Wrap define the implicit loop bounds.
	WrapTarget uint8
	Wrap       uint8
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// Channel is one state machine of the timing engine together with its
// TX FIFO. The audio engine drives a Channel; platform bring-up provides
// the concrete implementation.
//
// TryPush and Level are safe to call from the sample-clock context; the
// remaining methods are configuration-time only.
type Channel interface {
	// Load installs a program into the channel's instruction memory.
	Load(p Program) error

	// SetClockDivider sets the fractional clock divider. The channel
	// executes one instruction every whole + frac/256 system ticks.
	SetClockDivider(whole uint16, frac uint8) error

	// SetLowWaterHandler registers fn to be invoked whenever the TX FIFO
	// drains to its low-water mark. fn runs in the sample-clock context
	// and must complete within the FIFO's remaining slack.
	SetLowWaterHandler(fn func())

	// Start begins execution. The FIFO should be primed first.
	Start() error

	// Stop halts execution, leaving the channel idle. Stopping a stopped
	// channel is a no-op.
	Stop() error

	// TryPush appends one word to the TX FIFO without blocking.
	// Returns false if the FIFO is full.
	TryPush(word uint32) bool

	// Level returns the current TX FIFO occupancy in words.
	Level() int

	// Depth returns the TX FIFO capacity in words.
	Depth() int
}
