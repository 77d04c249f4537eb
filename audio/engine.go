package audio

import (
	"sync/atomic"

	"github.com/ardnew/usbdac/pkg"
	"github.com/ardnew/usbdac/pio"
)

// Engine drives the serial audio interface. It owns two timing-engine
// channels: one shifting packed sample words out the data pin on the
// bit clock, one toggling the frame-select line. Both are clocked from
// dividers derived from the negotiated sample rate, so the frame clock
// and data stream stay phase-locked without software intervention.
//
// [Engine.Service] is the per-cycle fill handler and is registered as
// the data channel's low-water callback on Start. It runs in the
// sample-clock context: it must not allocate, block, or log. All
// streaming faults there are absorbed by substituting silence and
// counted; none is ever returned.
type Engine struct {
	data  pio.Channel
	frame pio.Channel

	src    Source
	format Format

	running   atomic.Bool
	inService atomic.Bool

	underruns atomic.Uint32
	deadlines atomic.Uint32
}

// NewEngine creates an engine over the given data and frame-clock
// channels.
func NewEngine(data, frame pio.Channel) *Engine {
	return &Engine{data: data, frame: frame}
}

// Start configures both channels for the format, primes the data FIFO
// with silence, and begins shifting. Priming guarantees the first real
// frames are emitted a known number of sample periods after Start and
// does not count as underrun.
func (e *Engine) Start(format Format, src Source) error {
	if e.running.Load() {
		return pkg.ErrAlreadyRunning
	}
	if !format.Valid() || src == nil {
		return pkg.ErrUnsupportedFormat
	}

	dataWhole, dataFrac, err := pio.DataClockDivider(format.SampleRate)
	if err != nil {
		return err
	}
	frameWhole, frameFrac, err := pio.FrameClockDivider(format.SampleRate)
	if err != nil {
		return err
	}

	if err := e.data.Load(pio.I2SDataProgram); err != nil {
		return err
	}
	if err := e.frame.Load(pio.FrameClockProgram); err != nil {
		return err
	}
	if err := e.data.SetClockDivider(dataWhole, dataFrac); err != nil {
		return err
	}
	if err := e.frame.SetClockDivider(frameWhole, frameFrac); err != nil {
		return err
	}

	e.src = src
	e.format = format
	e.underruns.Store(0)
	e.deadlines.Store(0)

	e.fill(true)
	e.data.SetLowWaterHandler(e.Service)

	// Frame clock first so the data stream never leads frame select.
	if err := e.frame.Start(); err != nil {
		return err
	}
	if err := e.data.Start(); err != nil {
		e.frame.Stop()
		return err
	}
	e.running.Store(true)

	pkg.LogInfo(pkg.ComponentEngine, "stream started",
		"rate", format.SampleRate,
		"depth", uint8(format.Depth),
		"bck_div", dataWhole)
	return nil
}

// Stop halts both channels. Stopping a stopped engine is a no-op.
// Buffered frames in the source are left in place; the caller resets
// the ring once the stream is torn down.
func (e *Engine) Stop() {
	if !e.running.Swap(false) {
		return
	}
	e.data.SetLowWaterHandler(nil)
	e.data.Stop()
	e.frame.Stop()

	pkg.LogInfo(pkg.ComponentEngine, "stream stopped",
		"underruns", e.underruns.Load(),
		"deadline_overruns", e.deadlines.Load())
}

// Running reports whether the engine is streaming.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Format returns the format of the current (or last) stream.
func (e *Engine) Format() Format {
	return e.format
}

// Service refills the data FIFO from the source. It is invoked from the
// low-water callback each time the FIFO drains to the mark; a second
// invocation arriving before the first returns means the fill missed
// its sample deadline, which is counted and dropped rather than allowed
// to reenter.
func (e *Engine) Service() {
	if !e.running.Load() {
		return
	}
	if !e.inService.CompareAndSwap(false, true) {
		e.deadlines.Add(1)
		return
	}
	e.fill(false)
	e.inService.Store(false)
}

// fill pushes frames until the FIFO cannot take a full stereo pair.
// When priming, the source is bypassed and silence is pushed without
// touching the underrun counter. Otherwise a failed source read counts
// one underrun for the cycle and silence covers the remainder.
func (e *Engine) fill(priming bool) {
	depth24 := e.format.Depth == Depth24
	counted := false
	for e.data.Depth()-e.data.Level() >= 2 {
		f := Silence
		if !priming {
			var err error
			if f, err = e.src.NextFrame(); err != nil {
				if !counted {
					e.underruns.Add(1)
					counted = true
				}
				f = Silence
			}
		}
		e.data.TryPush(pio.PackWord(f.Left, depth24))
		e.data.TryPush(pio.PackWord(f.Right, depth24))
	}
}

// Underruns returns the number of service cycles that found the source
// empty since the last Start.
func (e *Engine) Underruns() uint32 {
	return e.underruns.Load()
}

// DeadlineOverruns returns the number of service invocations dropped
// because the previous one was still running.
func (e *Engine) DeadlineOverruns() uint32 {
	return e.deadlines.Load()
}
