//go:build linux

package matrix

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// HUB75Pins names the GPIO line offsets on gpiochip0 a HUB75 panel chain is
// wired to, following the Adafruit RGB Matrix Bonnet pinout used by
// _examples/fkcurrie-fluidnc-led-golang/cmd/hub75-gpio/main.go's
// HUB75Config.
type HUB75Pins struct {
	R1, G1, B1 int
	R2, G2, B2 int
	CLK, OE    int
	LAT        int
	A, B, C, D, E int
}

// HUB75 bit-bangs a chain of HUB75 panels through gpiocdev. It implements
// Driver by keeping a pixel grid in memory and scanning it out row-by-row
// on every SwapOnVSync call.
//
// This is a single-pass scan, not the real rgb_matrix library's
// continuously-refreshing PWM driver: it drives the panel once per
// presented frame rather than refreshing it hundreds of times a second in
// the background. That matches what this receiver actually needs (a new
// frame roughly every 1/fps seconds, paced by internal/pacer) without
// pulling in a full PWM refresh scheduler.
type HUB75 struct {
	mu     sync.Mutex
	width  int
	height int
	rows   int // addressable rows; height/2 for panels with split upper/lower data lines
	pins   HUB75Pins
	lines  map[int]*gpiocdev.Line

	back, front [][3]uint8 // row-major, length width*height
}

// NewHUB75 requests all the GPIO lines in pins on gpiochip0 and returns a
// ready driver. width and height are the full chain's addressable size;
// rows is the number of row-address lines the panel actually scans (half
// the panel height for the common two-line-per-row wiring).
func NewHUB75(width, height, rows int, pins HUB75Pins) (*HUB75, error) {
	if width <= 0 || height <= 0 || rows <= 0 {
		return nil, fmt.Errorf("matrix: invalid HUB75 dimensions %dx%d (rows=%d)", width, height, rows)
	}

	h := &HUB75{
		width:  width,
		height: height,
		rows:   rows,
		pins:   pins,
		lines:  make(map[int]*gpiocdev.Line),
		back:   make([][3]uint8, width*height),
		front:  make([][3]uint8, width*height),
	}

	offsets := []int{
		pins.R1, pins.G1, pins.B1,
		pins.R2, pins.G2, pins.B2,
		pins.CLK, pins.OE, pins.LAT,
		pins.A, pins.B, pins.C, pins.D, pins.E,
	}
	for _, off := range offsets {
		line, err := gpiocdev.RequestLine("gpiochip0", off, gpiocdev.AsOutput(0))
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("matrix: requesting gpio line %d: %w", off, err)
		}
		h.lines[off] = line
	}

	return h, nil
}

func (h *HUB75) Width() int  { return h.width }
func (h *HUB75) Height() int { return h.height }

func (h *HUB75) SetPixel(x, y int, r, g, b uint8) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.back[y*h.width+x] = [3]uint8{r, g, b}
}

// SwapOnVSync presents the back buffer by scanning every addressable row
// out to the panel, then swaps it in as the front buffer.
func (h *HUB75) SwapOnVSync() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.front, h.back = h.back, h.front
	for row := 0; row < h.rows; row++ {
		h.scanRow(row)
	}
}

func (h *HUB75) scanRow(row int) {
	h.setPin(h.pins.A, (row>>0)&1)
	h.setPin(h.pins.B, (row>>1)&1)
	h.setPin(h.pins.C, (row>>2)&1)
	h.setPin(h.pins.D, (row>>3)&1)
	h.setPin(h.pins.E, (row>>4)&1)

	h.setPin(h.pins.OE, 1) // blank while shifting in new row data

	upperY := row
	lowerY := row + h.rows
	for col := 0; col < h.width; col++ {
		upper := h.front[upperY*h.width+col]
		lower := h.front[lowerY*h.width+col]

		h.setPin(h.pins.R1, boolToBit(upper[0]))
		h.setPin(h.pins.G1, boolToBit(upper[1]))
		h.setPin(h.pins.B1, boolToBit(upper[2]))
		h.setPin(h.pins.R2, boolToBit(lower[0]))
		h.setPin(h.pins.G2, boolToBit(lower[1]))
		h.setPin(h.pins.B2, boolToBit(lower[2]))

		h.setPin(h.pins.CLK, 1)
		time.Sleep(time.Microsecond)
		h.setPin(h.pins.CLK, 0)
	}

	h.setPin(h.pins.LAT, 1)
	time.Sleep(time.Microsecond)
	h.setPin(h.pins.LAT, 0)

	h.setPin(h.pins.OE, 0)
}

// boolToBit collapses an 8-bit channel value to the single bit a HUB75
// data line can carry; this driver has no PWM brightness ramp, only on/off.
func boolToBit(v uint8) int {
	if v > 127 {
		return 1
	}
	return 0
}

func (h *HUB75) setPin(offset, value int) {
	line, ok := h.lines[offset]
	if !ok || line == nil {
		return
	}
	_ = line.SetValue(value)
}

// Close releases every GPIO line this driver requested.
func (h *HUB75) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var firstErr error
	for _, line := range h.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	h.lines = make(map[int]*gpiocdev.Line)
	return firstErr
}
