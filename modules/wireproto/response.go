package wireproto

import (
	"encoding/binary"
	"math"
)

// StatusResponse is the 64-byte record sent after every successfully
// processed packet. Field order and widths match the wire
// layout exactly; this struct is encoded with explicit offsets rather than
// relying on Go struct layout, since the wire format packs 8-byte doubles
// on 8-byte boundaries regardless of host alignment rules.
type StatusResponse struct {
	FlashVersion    uint32
	CurrentClock    float64
	OldestPacketAge float64
	NewestPacketAge float64
	Brightness      float64
	WifiSignal      float64
	BufferCapacity  uint32
	BufferSize      uint32
	FPSDrawing      uint32
	Watts           uint32
}

// Encode serializes the status response to its 64-byte wire form.
func (r StatusResponse) Encode() []byte {
	buf := make([]byte, StatusResponseSize)
	binary.LittleEndian.PutUint32(buf[0:4], StatusResponseSize)
	binary.LittleEndian.PutUint32(buf[4:8], r.FlashVersion)
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(r.CurrentClock))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(r.OldestPacketAge))
	binary.LittleEndian.PutUint64(buf[24:32], math.Float64bits(r.NewestPacketAge))
	binary.LittleEndian.PutUint64(buf[32:40], math.Float64bits(r.Brightness))
	binary.LittleEndian.PutUint64(buf[40:48], math.Float64bits(r.WifiSignal))
	binary.LittleEndian.PutUint32(buf[48:52], r.BufferCapacity)
	binary.LittleEndian.PutUint32(buf[52:56], r.BufferSize)
	binary.LittleEndian.PutUint32(buf[56:60], r.FPSDrawing)
	binary.LittleEndian.PutUint32(buf[60:64], r.Watts)
	return buf
}

// DecodeStatusResponse parses a 64-byte status response. Used only by
// tests; the receiver never needs to parse its own response.
func DecodeStatusResponse(buf []byte) (StatusResponse, error) {
	if len(buf) < StatusResponseSize {
		return StatusResponse{}, protocolErrorf("decode status response",
			"need %d bytes, got %d", StatusResponseSize, len(buf))
	}

	return StatusResponse{
		FlashVersion:    binary.LittleEndian.Uint32(buf[4:8]),
		CurrentClock:    math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		OldestPacketAge: math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24])),
		NewestPacketAge: math.Float64frombits(binary.LittleEndian.Uint64(buf[24:32])),
		Brightness:      math.Float64frombits(binary.LittleEndian.Uint64(buf[32:40])),
		WifiSignal:      math.Float64frombits(binary.LittleEndian.Uint64(buf[40:48])),
		BufferCapacity:  binary.LittleEndian.Uint32(buf[48:52]),
		BufferSize:      binary.LittleEndian.Uint32(buf[52:56]),
		FPSDrawing:      binary.LittleEndian.Uint32(buf[56:60]),
		Watts:           binary.LittleEndian.Uint32(buf[60:64]),
	}, nil
}
