// Package matrix defines the LED matrix driver interface the Pacer draws
// through, plus two implementations: an in-memory Simulated matrix for
// tests and hardware-free operation, and a GPIO-bit-banged HUB75 driver for
// real hardware on Linux.
package matrix

import "fmt"

// Driver is the contract the Pacer draws a decoded frame through. It
// mirrors _examples/original_source/matrixdraw.h's use of RGBMatrix:
// per-pixel SetPixel calls followed by a single SwapOnVSync to present the
// completed frame atomically.
type Driver interface {
	// Width returns the matrix's total addressable columns across the
	// whole chain (chain_length * panel width).
	Width() int
	// Height returns the matrix's addressable rows.
	Height() int
	// SetPixel writes one pixel into the back buffer. Coordinates outside
	// [0,Width)x[0,Height) are a programming error and may panic.
	SetPixel(x, y int, r, g, b uint8)
	// SwapOnVSync presents the back buffer, blocking until the hardware's
	// vertical sync if the implementation needs to.
	SwapOnVSync()
	// Close releases any underlying hardware resources.
	Close() error
}

// ErrSizeMismatch is returned when a frame's pixel count does not match
// the matrix's configured dimensions. This is a fatal configuration error
// for the Pacer, not a per-frame recoverable fault.
type ErrSizeMismatch struct {
	Got, Want int
}

func (e *ErrSizeMismatch) Error() string {
	return fmt.Sprintf("matrix: frame has %d pixels, matrix expects %d", e.Got, e.Want)
}
