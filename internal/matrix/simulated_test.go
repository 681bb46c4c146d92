package matrix

import "testing"

func TestSimulatedSetPixelNotVisibleUntilSwap(t *testing.T) {
	m := NewSimulated(2, 2)

	m.SetPixel(0, 0, 10, 20, 30)
	if got := m.PixelAt(0, 0); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("PixelAt() before swap = %+v, want zero value", got)
	}

	m.SwapOnVSync()
	got := m.PixelAt(0, 0)
	if got.R != 10 || got.G != 20 || got.B != 30 {
		t.Errorf("PixelAt() after swap = %+v, want (10,20,30)", got)
	}
}

func TestSimulatedTracksSwapCount(t *testing.T) {
	m := NewSimulated(1, 1)
	if got := m.Swaps(); got != 0 {
		t.Fatalf("Swaps() = %d, want 0", got)
	}

	m.SwapOnVSync()
	m.SwapOnVSync()
	if got := m.Swaps(); got != 2 {
		t.Errorf("Swaps() = %d, want 2", got)
	}
}

func TestSimulatedDimensions(t *testing.T) {
	m := NewSimulated(64, 32)
	if m.Width() != 64 || m.Height() != 32 {
		t.Errorf("dimensions = %dx%d, want 64x32", m.Width(), m.Height())
	}
}

func TestSimulatedSnapshotProducesPNG(t *testing.T) {
	m := NewSimulated(4, 4)
	m.SetPixel(1, 1, 255, 0, 0)
	m.SwapOnVSync()

	png, err := m.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	// PNG files start with an 8-byte signature.
	want := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	if len(png) < len(want) {
		t.Fatalf("Snapshot() returned %d bytes, too short for a PNG signature", len(png))
	}
	for i, b := range want {
		if png[i] != b {
			t.Fatalf("Snapshot()[%d] = %#x, want %#x (not a PNG)", i, png[i], b)
		}
	}
}
