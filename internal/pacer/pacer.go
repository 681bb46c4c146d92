// Package pacer implements the drawing loop: it watches the FrameBuffer
// for frames whose timestamp has come due and pushes them to a matrix
// driver at the right wall-clock moment.
//
// Grounded on _examples/original_source/matrixdraw.h's MatrixDraw::RunDrawLoop
// and DrawFrame, restructured with the lifecycle shape (New/Run, atomic
// stat counters) from
// _examples/e7canasta-orion-care-sensor/modules/framesupplier/internal/supplier.go.
package pacer

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/davepl/NightDriver-Pi/internal/clock"
	"github.com/davepl/NightDriver-Pi/internal/matrix"
	"github.com/davepl/NightDriver-Pi/internal/shutdown"
	"github.com/davepl/NightDriver-Pi/modules/framebuffer"
)

// maxSleep is the Pacer's polling cap, roughly one frame at 25fps, so a
// freshly-pushed frame is never kept waiting much longer than that before
// the Pacer notices it.
const maxSleep = 40 * time.Millisecond

// Pacer pops due frames off a FrameBuffer and draws them to a matrix.Driver.
type Pacer struct {
	buf       *framebuffer.Manager
	drv       matrix.Driver
	clk       clock.Source
	shutdown  *shutdown.Flag
	burnExtra atomic.Bool

	framesDrawn uint64
	framesBurnt uint64
	lastDrawAt  atomic.Value // time.Time
}

// New creates a Pacer that draws frames popped from buf onto drv, using clk
// to compute ages and sd to learn when to stop.
func New(buf *framebuffer.Manager, drv matrix.Driver, clk clock.Source, sd *shutdown.Flag) *Pacer {
	return &Pacer{
		buf:      buf,
		drv:      drv,
		clk:      clk,
		shutdown: sd,
	}
}

// SetBurnExtraFrames toggles the catch-up behavior at runtime: when true,
// a popped frame is discarded without drawing if the new head
// is already due too, letting the Pacer shed backlog instead of drawing
// every queued frame in sequence.
func (p *Pacer) SetBurnExtraFrames(v bool) {
	p.burnExtra.Store(v)
}

// BurnExtraFrames reports the current catch-up setting.
func (p *Pacer) BurnExtraFrames() bool {
	return p.burnExtra.Load()
}

// FramesDrawn returns the total number of frames drawn since Run started.
func (p *Pacer) FramesDrawn() uint64 {
	return atomic.LoadUint64(&p.framesDrawn)
}

// FramesBurnt returns the total number of frames popped and discarded
// under the burn_extra_frames policy.
func (p *Pacer) FramesBurnt() uint64 {
	return atomic.LoadUint64(&p.framesBurnt)
}

// LastDrawAt returns the wall-clock time of the most recent draw, or the
// zero time if none has happened yet. Used by internal/healthsrv to judge
// readiness.
func (p *Pacer) LastDrawAt() time.Time {
	if v := p.lastDrawAt.Load(); v != nil {
		return v.(time.Time)
	}
	return time.Time{}
}

// Run blocks, draining and drawing due frames, until sd.Requested() is
// true. It never returns an error: a size mismatch between a frame and the
// matrix is the only fatal condition, and that is reported by logging and
// stopping the loop rather than propagating a panic.
func (p *Pacer) Run() {
	for !p.shutdown.Requested() {
		for p.buf.AgeOfOldest() <= 0 {
			frame, ok := p.buf.PopOldest()
			if !ok {
				continue
			}

			if p.burnExtra.Load() && p.buf.AgeOfOldest() <= 0 {
				atomic.AddUint64(&p.framesBurnt, 1)
				continue
			}

			if err := p.draw(frame); err != nil {
				slog.Error("pacer: fatal draw error, stopping", "error", err)
				return
			}
			atomic.AddUint64(&p.framesDrawn, 1)
			p.lastDrawAt.Store(time.Now())
		}

		delayMicros := clampDelayMicros(p.buf.AgeOfOldest())
		if delayMicros > 0 {
			time.Sleep(time.Duration(delayMicros) * time.Microsecond)
		}
	}
}

func (p *Pacer) draw(f *framebuffer.Frame) error {
	want := p.drv.Width() * p.drv.Height()
	if len(f.Pixels) != want {
		return &matrix.ErrSizeMismatch{Got: len(f.Pixels), Want: want}
	}

	width := p.drv.Width()
	for i, px := range f.Pixels {
		x := i % width
		y := i / width
		// The x-axis flip is intentional: the wire format's pixel order
		// runs opposite the matrix's physical column order.
		p.drv.SetPixel(width-1-x, y, px.R, px.G, px.B)
	}
	p.drv.SwapOnVSync()
	return nil
}

// clampDelayMicros computes min(maxSleep, age) directly, kept as a
// standalone function so it can be unit tested without driving the whole
// Run loop.
func clampDelayMicros(ageSeconds float64) float64 {
	return math.Min(float64(maxSleep.Microseconds()), ageSeconds*1_000_000)
}
