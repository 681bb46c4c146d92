package wireproto

import "strconv"

// commandName renders a command byte for logging: known-but-unhandled
// commands get their globals.h name instead of a bare decimal.
func commandName(cmd uint16) string {
	if cmd == CommandPeakData {
		return "WIFI_COMMAND_PEAKDATA"
	}
	return strconv.Itoa(int(cmd))
}

// DecodeFrame parses a standard PIXELDATA64 payload (header + pixel data)
// into a Frame:
//
//   - require len(payload) >= StandardHeaderSize
//   - require len(payload) >= StandardHeaderSize + pixelCount*PixelSize
//   - channel filter: if channel != 0 and the low bit is clear, the packet
//     is not addressed to this node — return ErrChannelMismatch
//   - otherwise copy pixelCount pixels starting at offset StandardHeaderSize
//
// The caller (internal/listener) is responsible for bounds-checking the
// declared size against the configured maximum packet size *before*
// reading the rest of the payload off the wire; DecodeFrame only validates
// the payload it was actually given.
func DecodeFrame(payload []byte) (*Frame, error) {
	header, err := ParseStandardHeader(payload)
	if err != nil {
		return nil, err
	}

	if header.Command != CommandPixelData64 {
		return nil, protocolErrorf("decode frame", "unexpected command %s, want %d", commandName(header.Command), CommandPixelData64)
	}

	need := StandardHeaderSize + int(header.PixelCount)*PixelSize
	if len(payload) < need {
		return nil, protocolErrorf("decode frame",
			"payload too short: declared %d pixels needs %d bytes, got %d", header.PixelCount, need, len(payload))
	}

	if channelMismatch(header.ChannelMask) {
		return nil, ErrChannelMismatch
	}

	pixels := make([]Pixel, header.PixelCount)
	for i := range pixels {
		off := StandardHeaderSize + i*PixelSize
		pixels[i] = Pixel{R: payload[off], G: payload[off+1], B: payload[off+2]}
	}

	return &Frame{
		TimestampSeconds: header.TimestampSeconds,
		TimestampMicros:  header.TimestampMicros,
		Pixels:           pixels,
	}, nil
}

// channelMismatch implements the GLOSSARY's channel-mask rule: a packet is
// accepted if the mask is zero or its low bit is set.
func channelMismatch(channelMask uint16) bool {
	return channelMask != 0 && channelMask&0x01 == 0
}

// EncodePixelDataPacket serializes a full standard PIXELDATA64 packet
// (header + pixels) to wire bytes. Used by tests to build fixtures and to
// verify the encode/decode round trip is byte-exact.
func EncodePixelDataPacket(channelMask uint16, seconds, micros uint64, pixels []Pixel) []byte {
	header := StandardHeader{
		Command:          CommandPixelData64,
		ChannelMask:      channelMask,
		PixelCount:       uint32(len(pixels)),
		TimestampSeconds: seconds,
		TimestampMicros:  micros,
	}

	buf := EncodeStandardHeader(header)
	for _, p := range pixels {
		buf = append(buf, p.R, p.G, p.B)
	}
	return buf
}
