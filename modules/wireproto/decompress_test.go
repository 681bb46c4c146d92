package wireproto_test

import (
	"testing"

	"github.com/davepl/NightDriver-Pi/modules/wireproto"
)

// TestCompressedPacketRoundTrip deflates a standard payload, wraps it in a
// 16-byte DAVE-tagged compressed header, and checks it inflates back to
// the original bytes.
func TestCompressedPacketRoundTrip(t *testing.T) {
	pixels := make([]wireproto.Pixel, 20)
	for i := range pixels {
		pixels[i] = wireproto.Pixel{R: uint8(i), G: uint8(i + 1), B: uint8(i + 2)}
	}
	original := wireproto.EncodePixelDataPacket(0, 42, 100, pixels)

	compressed := wireproto.Deflate(original)
	header := wireproto.CompressedHeader{
		Tag:            wireproto.CompressedTag,
		CompressedSize: uint32(len(compressed)),
		ExpandedSize:   uint32(len(original)),
	}
	packet := append(wireproto.EncodeCompressedHeader(header), compressed...)

	if !wireproto.IsCompressed(packet) {
		t.Fatal("IsCompressed() = false for a packet built with EncodeCompressedHeader")
	}

	parsedHeader, err := wireproto.ParseCompressedHeader(packet)
	if err != nil {
		t.Fatalf("ParseCompressedHeader() error = %v", err)
	}

	scratch := make([]byte, parsedHeader.ExpandedSize)
	n, err := wireproto.Inflate(packet[wireproto.CompressedHeaderSize:], scratch, int(parsedHeader.ExpandedSize))
	if err != nil {
		t.Fatalf("Inflate() error = %v", err)
	}
	if n != len(original) {
		t.Fatalf("Inflate() wrote %d bytes, want %d", n, len(original))
	}

	for i, want := range original {
		if scratch[i] != want {
			t.Fatalf("byte %d = %#x, want %#x", i, scratch[i], want)
		}
	}

	frame, err := wireproto.DecodeFrame(scratch[:n])
	if err != nil {
		t.Fatalf("DecodeFrame() on inflated payload error = %v", err)
	}
	if len(frame.Pixels) != len(pixels) {
		t.Fatalf("len(Pixels) = %d, want %d", len(frame.Pixels), len(pixels))
	}
}

// TestInflateRejectsMismatchedExpandedSize checks that a declared
// expandedSize which does not match what the stream actually contains is
// rejected, not silently truncated or zero-padded.
func TestInflateRejectsMismatchedExpandedSize(t *testing.T) {
	original := []byte("a small fixed payload used only to exercise Inflate")
	compressed := wireproto.Deflate(original)

	scratch := make([]byte, len(original)+50)
	_, err := wireproto.Inflate(compressed, scratch, len(original)+50)
	if err == nil {
		t.Fatal("Inflate() with an expandedSize larger than the real stream returned nil error")
	}
}

func TestInflateRejectsGarbageInput(t *testing.T) {
	scratch := make([]byte, 16)
	_, err := wireproto.Inflate([]byte{0x00, 0x01, 0x02, 0x03}, scratch, 16)
	if err == nil {
		t.Fatal("Inflate() on non-zlib garbage returned nil error")
	}
}

func TestInflateRejectsOversizedScratchRequest(t *testing.T) {
	scratch := make([]byte, 4)
	_, err := wireproto.Inflate([]byte{}, scratch, 16)
	if err == nil {
		t.Fatal("Inflate() with expandedSize exceeding scratch length returned nil error")
	}
}
