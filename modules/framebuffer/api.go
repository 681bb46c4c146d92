package framebuffer

import (
	"github.com/davepl/NightDriver-Pi/internal/clock"
	"github.com/davepl/NightDriver-Pi/modules/framebuffer/internal/buffer"
	"github.com/davepl/NightDriver-Pi/modules/wireproto"
)

// DefaultCapacity is the frame count a Manager holds when none is
// configured, matching the original source's default buffer depth.
const DefaultCapacity = 500

// EmptyAge is the sentinel AgeOfOldest and AgeOfNewest return when the
// buffer holds no frames.
const EmptyAge = buffer.EmptyAge

// Manager is a bounded FIFO queue of decoded frames.
type Manager = buffer.Manager

// New creates a Manager bounded to capacity frames, using clk to compute
// frame ages. This is the only public constructor.
func New(capacity int, clk clock.Source) *Manager {
	return buffer.New(capacity, clk)
}

// Frame is re-exported for callers that only import framebuffer.
type Frame = wireproto.Frame
