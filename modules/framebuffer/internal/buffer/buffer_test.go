package buffer

import (
	"testing"

	"github.com/davepl/NightDriver-Pi/internal/clock"
	"github.com/davepl/NightDriver-Pi/modules/wireproto"
)

func frameAt(seconds uint64) *wireproto.Frame {
	return &wireproto.Frame{TimestampSeconds: seconds}
}

func TestPopOldestOnEmptyBuffer(t *testing.T) {
	m := New(3, clock.NewFixed(0))

	_, ok := m.PopOldest()
	if ok {
		t.Error("PopOldest() on empty buffer returned ok=true")
	}
	if got := m.AgeOfOldest(); got != EmptyAge {
		t.Errorf("AgeOfOldest() on empty buffer = %v, want %v", got, EmptyAge)
	}
	if got := m.AgeOfNewest(); got != EmptyAge {
		t.Errorf("AgeOfNewest() on empty buffer = %v, want %v", got, EmptyAge)
	}
}

func TestPushPopIsFIFO(t *testing.T) {
	m := New(3, clock.NewFixed(0))

	m.Push(frameAt(1))
	m.Push(frameAt(2))
	m.Push(frameAt(3))

	for _, want := range []uint64{1, 2, 3} {
		f, ok := m.PopOldest()
		if !ok {
			t.Fatalf("PopOldest() ok=false, want frame with seconds=%d", want)
		}
		if f.TimestampSeconds != want {
			t.Errorf("PopOldest() seconds = %d, want %d", f.TimestampSeconds, want)
		}
	}

	if _, ok := m.PopOldest(); ok {
		t.Error("PopOldest() after draining buffer returned ok=true")
	}
}

// TestPushEvictsOldestOnOverflow checks that pushing past capacity
// discards the head, not the tail.
func TestPushEvictsOldestOnOverflow(t *testing.T) {
	m := New(2, clock.NewFixed(0))

	m.Push(frameAt(1))
	m.Push(frameAt(2))
	m.Push(frameAt(3)) // evicts seconds=1

	if got := m.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}

	f, ok := m.PopOldest()
	if !ok || f.TimestampSeconds != 2 {
		t.Errorf("PopOldest() after overflow = (%+v, %v), want (seconds=2, true)", f, ok)
	}
}

func TestSizeAndCapacity(t *testing.T) {
	m := New(5, clock.NewFixed(0))
	if got := m.Capacity(); got != 5 {
		t.Errorf("Capacity() = %d, want 5", got)
	}
	if got := m.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}

	m.Push(frameAt(1))
	if got := m.Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestNewClampsNonPositiveCapacity(t *testing.T) {
	m := New(0, clock.NewFixed(0))
	if got := m.Capacity(); got != 1 {
		t.Errorf("Capacity() for requested capacity 0 = %d, want 1", got)
	}
}

func TestAgeOfOldestAndNewest(t *testing.T) {
	clk := clock.NewFixed(100)
	m := New(3, clk)

	m.Push(frameAt(90))  // 10s in the past
	m.Push(frameAt(110)) // 10s in the future

	if got, want := m.AgeOfOldest(), -10.0; got != want {
		t.Errorf("AgeOfOldest() = %v, want %v", got, want)
	}
	if got, want := m.AgeOfNewest(), 10.0; got != want {
		t.Errorf("AgeOfNewest() = %v, want %v", got, want)
	}

	clk.Advance(20)
	if got, want := m.AgeOfNewest(), -10.0; got != want {
		t.Errorf("AgeOfNewest() after advancing clock = %v, want %v", got, want)
	}
}
