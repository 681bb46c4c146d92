//go:build !linux

package matrix

import "fmt"

// HUB75Pins mirrors the Linux build's pin map so callers can reference the
// type on any platform; the fields carry no meaning here since gpiocdev
// only binds on linux.
type HUB75Pins struct {
	R1, G1, B1    int
	R2, G2, B2    int
	CLK, OE       int
	LAT           int
	A, B, C, D, E int
}

// NewHUB75 always fails outside Linux: gpiocdev talks to a real
// /dev/gpiochipN character device, which only exists there.
func NewHUB75(width, height, rows int, pins HUB75Pins) (*HUB75, error) {
	return nil, fmt.Errorf("matrix: hub75 driver requires linux (gpiocdev), built on this platform without it")
}

// HUB75 is an unusable placeholder on non-linux builds; NewHUB75 never
// returns one.
type HUB75 struct{}

func (h *HUB75) Width() int                       { return 0 }
func (h *HUB75) Height() int                      { return 0 }
func (h *HUB75) SetPixel(x, y int, r, g, b uint8) {}
func (h *HUB75) SwapOnVSync()                     {}
func (h *HUB75) Close() error                     { return nil }
