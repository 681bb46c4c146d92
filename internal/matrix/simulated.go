package matrix

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

// Simulated is an in-memory Driver for tests and for running the receiver
// without hardware attached. It keeps two buffers (front and back) and
// swaps them on SwapOnVSync, the same double-buffer discipline the real
// HUB75 driver and rpi5matrix.Matrix both follow.
type Simulated struct {
	mu          sync.RWMutex
	width       int
	height      int
	back, front []color.RGBA
	swaps       uint64
}

// NewSimulated creates a Simulated matrix of the given dimensions.
func NewSimulated(width, height int) *Simulated {
	return &Simulated{
		width:  width,
		height: height,
		back:   make([]color.RGBA, width*height),
		front:  make([]color.RGBA, width*height),
	}
}

func (s *Simulated) Width() int  { return s.width }
func (s *Simulated) Height() int { return s.height }

func (s *Simulated) SetPixel(x, y int, r, g, b uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.back[y*s.width+x] = color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func (s *Simulated) SwapOnVSync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.front, s.back = s.back, s.front
	s.swaps++
}

func (s *Simulated) Close() error { return nil }

// Swaps reports how many times SwapOnVSync has been called, used by tests
// to assert the Pacer actually presented a frame.
func (s *Simulated) Swaps() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.swaps
}

// PixelAt returns the currently-presented (front buffer) color at (x, y).
func (s *Simulated) PixelAt(x, y int) color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.front[y*s.width+x]
}

// Snapshot renders the currently-presented frame as a PNG, for manual
// inspection when running without real hardware.
func (s *Simulated) Snapshot() ([]byte, error) {
	s.mu.RLock()
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			img.SetRGBA(x, y, s.front[y*s.width+x])
		}
	}
	s.mu.RUnlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
