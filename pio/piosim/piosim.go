package piosim

import (
	"github.com/ardnew/usbdac/pkg"
	"github.com/ardnew/usbdac/pio"
)

// DefaultDepth is the TX FIFO depth in words (hardware depth with the
// RX FIFO joined to TX).
const DefaultDepth = 8

// Channel is a simulated timing-engine channel.
//
// It is not safe for concurrent use: the simulation exists to give tests
// exact control over the interleaving of the transport context and the
// sample-clock context, so all scheduling is explicit via [Channel.Clock].
type Channel struct {
	program pio.Program
	loaded  bool
	started bool

	divWhole uint16
	divFrac  uint8

	fifo  []uint32
	head  int
	level int

	lowWater     func()
	lowWaterMark int

	shifted []uint32
}

// New creates a simulated channel with the default FIFO depth.
func New() *Channel {
	return NewWithDepth(DefaultDepth)
}

// NewWithDepth creates a simulated channel with the given FIFO depth.
func NewWithDepth(depth int) *Channel {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Channel{
		fifo:         make([]uint32, depth),
		lowWaterMark: depth / 2,
	}
}

// Load installs a program.
func (c *Channel) Load(p pio.Program) error {
	if p.Len() > pio.MaxProgramSize {
		return pkg.ErrProgramTooLarge
	}
	if c.started {
		return pkg.ErrBusy
	}
	c.program = p
	c.loaded = true
	return nil
}

// SetClockDivider records the fractional divider.
func (c *Channel) SetClockDivider(whole uint16, frac uint8) error {
	if whole == 0 && frac == 0 {
		return pkg.ErrInvalidParameter
	}
	c.divWhole = whole
	c.divFrac = frac
	return nil
}

// SetLowWaterHandler registers the FIFO low-water callback.
func (c *Channel) SetLowWaterHandler(fn func()) {
	c.lowWater = fn
}

// Start begins execution.
func (c *Channel) Start() error {
	if !c.loaded {
		return pkg.ErrNotStarted
	}
	if c.started {
		return pkg.ErrAlreadyRunning
	}
	c.started = true
	pkg.LogDebug(pkg.ComponentPIO, "simulated channel started",
		"program_len", c.program.Len(),
		"divider", c.divWhole)
	return nil
}

// Stop halts execution. Stopping a stopped channel is a no-op.
func (c *Channel) Stop() error {
	c.started = false
	return nil
}

// Started reports whether the channel is running.
func (c *Channel) Started() bool {
	return c.started
}

// TryPush appends one word to the TX FIFO without blocking.
func (c *Channel) TryPush(word uint32) bool {
	if c.level >= len(c.fifo) {
		return false
	}
	c.fifo[(c.head+c.level)%len(c.fifo)] = word
	c.level++
	return true
}

// Level returns the current TX FIFO occupancy in words.
func (c *Channel) Level() int {
	return c.level
}

// Depth returns the TX FIFO capacity in words.
func (c *Channel) Depth() int {
	return len(c.fifo)
}

// SetLowWaterMark overrides the level at or below which Clock fires the
// low-water handler.
func (c *Channel) SetLowWaterMark(mark int) {
	c.lowWaterMark = mark
}

// Clock advances the simulation by n word periods. Each period drains
// one word from the FIFO (recording it) and fires the low-water handler
// if the level is at or below the mark. Draining an empty FIFO records a
// repeat of the last word, matching the hardware's output-shift-register
// behavior on underflow.
func (c *Channel) Clock(n int) {
	for i := 0; i < n; i++ {
		if !c.started {
			return
		}
		var word uint32
		if c.level > 0 {
			word = c.fifo[c.head]
			c.head = (c.head + 1) % len(c.fifo)
			c.level--
		} else if len(c.shifted) > 0 {
			word = c.shifted[len(c.shifted)-1]
		}
		c.shifted = append(c.shifted, word)

		if c.level <= c.lowWaterMark && c.lowWater != nil {
			c.lowWater()
		}
	}
}

// Shifted returns all words drained from the FIFO since creation, in
// output order. The returned slice references internal storage.
func (c *Channel) Shifted() []uint32 {
	return c.shifted
}

// Divider returns the configured clock divider.
func (c *Channel) Divider() (whole uint16, frac uint8) {
	return c.divWhole, c.divFrac
}

// Program returns the loaded program.
func (c *Channel) Program() pio.Program {
	return c.program
}

// Compile-time interface check
var _ pio.Channel = (*Channel)(nil)
