// Package buffer implements the bounded, arrival-ordered frame queue that
// backs modules/framebuffer. It is grounded on
// _examples/original_source/ledbuffer.h's LEDBufferManager: a deque of
// frames bounded to a fixed capacity, FIFO push/pop, and an "age" computed
// against a clock rather than against insertion order.
package buffer

import (
	"sync"

	"github.com/davepl/NightDriver-Pi/internal/clock"
	"github.com/davepl/NightDriver-Pi/modules/wireproto"
)

// EmptyAge is returned by AgeOfOldest and AgeOfNewest when the buffer holds
// no frames. ledbuffer.h returns MAXDOUBLE (DBL_MAX) for the same case, not
// +Inf; math.MaxFloat64 is its Go equivalent.
const EmptyAge = 1.7976931348623157e+308 // math.MaxFloat64, repeated here to avoid importing math for one constant

// Manager is a bounded FIFO queue of wireproto.Frame values. Frames are
// kept in arrival order, not sorted by timestamp: PopOldest always returns
// the frame that was pushed longest ago, regardless of its own timestamp.
type Manager struct {
	mu       sync.Mutex
	frames   []*wireproto.Frame
	capacity int
	clk      clock.Source
}

// New creates a Manager bounded to capacity frames, using clk to compute
// ages. A capacity of 0 or less is treated as 1, since a buffer that can
// never hold a frame is not useful.
func New(capacity int, clk clock.Source) *Manager {
	if capacity < 1 {
		capacity = 1
	}
	return &Manager{
		capacity: capacity,
		clk:      clk,
	}
}

// Capacity returns the maximum number of frames the buffer will hold.
func (m *Manager) Capacity() int {
	return m.capacity
}

// Size returns the number of frames currently queued.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// Push adds a frame to the back of the queue. If the queue is already at
// capacity, the oldest frame (at the front) is evicted first, mirroring
// PushNewBuffer's pop-then-push behavior.
func (m *Manager) Push(f *wireproto.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.frames) == m.capacity {
		m.frames = m.frames[1:]
	}
	m.frames = append(m.frames, f)
}

// PopOldest removes and returns the frame at the front of the queue. The
// second return value is false if the queue was empty.
func (m *Manager) PopOldest() (*wireproto.Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.frames) == 0 {
		return nil, false
	}

	f := m.frames[0]
	m.frames = m.frames[1:]
	return f, true
}

// AgeOfOldest returns the oldest frame's effective playback time minus the
// current time, in seconds. A negative value means the frame is already
// due. Returns EmptyAge if the queue is empty.
func (m *Manager) AgeOfOldest() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.frames) == 0 {
		return EmptyAge
	}
	return m.frames[0].EffectiveTime() - m.clk.Now()
}

// AgeOfNewest returns the newest frame's effective playback time minus the
// current time, in seconds. Returns EmptyAge if the queue is empty.
func (m *Manager) AgeOfNewest() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.frames) == 0 {
		return EmptyAge
	}
	return m.frames[len(m.frames)-1].EffectiveTime() - m.clk.Now()
}
