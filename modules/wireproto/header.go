package wireproto

import "encoding/binary"

// LeadingTag reads the first four bytes of a packet as a little-endian
// uint32, used to distinguish the compressed framing variant's "DAVE" tag
// from a standard packet's command+channel fields. buf must be at least 4
// bytes.
func LeadingTag(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[0:4])
}

// IsCompressed reports whether the packet's leading tag matches the
// compressed variant's ASCII "DAVE" marker.
func IsCompressed(buf []byte) bool {
	return len(buf) >= 4 && LeadingTag(buf) == CompressedTag
}

// ParseStandardHeader parses the 24-byte uncompressed PIXELDATA64 header.
// buf must be at least StandardHeaderSize bytes.
func ParseStandardHeader(buf []byte) (StandardHeader, error) {
	if len(buf) < StandardHeaderSize {
		return StandardHeader{}, protocolErrorf("parse standard header",
			"need %d bytes, got %d", StandardHeaderSize, len(buf))
	}

	return StandardHeader{
		Command:          binary.LittleEndian.Uint16(buf[0:2]),
		ChannelMask:      binary.LittleEndian.Uint16(buf[2:4]),
		PixelCount:       binary.LittleEndian.Uint32(buf[4:8]),
		TimestampSeconds: binary.LittleEndian.Uint64(buf[8:16]),
		TimestampMicros:  binary.LittleEndian.Uint64(buf[16:24]),
	}, nil
}

// EncodeStandardHeader serializes a StandardHeader back to its 24-byte wire
// form. Used by tests to build fixtures and to verify the encode/decode
// round trip is byte-exact.
func EncodeStandardHeader(h StandardHeader) []byte {
	buf := make([]byte, StandardHeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.Command)
	binary.LittleEndian.PutUint16(buf[2:4], h.ChannelMask)
	binary.LittleEndian.PutUint32(buf[4:8], h.PixelCount)
	binary.LittleEndian.PutUint64(buf[8:16], h.TimestampSeconds)
	binary.LittleEndian.PutUint64(buf[16:24], h.TimestampMicros)
	return buf
}

// ParseCompressedHeader parses the 16-byte header that precedes a
// zlib-deflated standard packet. buf must be at least CompressedHeaderSize
// bytes.
func ParseCompressedHeader(buf []byte) (CompressedHeader, error) {
	if len(buf) < CompressedHeaderSize {
		return CompressedHeader{}, protocolErrorf("parse compressed header",
			"need %d bytes, got %d", CompressedHeaderSize, len(buf))
	}

	return CompressedHeader{
		Tag:            binary.LittleEndian.Uint32(buf[0:4]),
		CompressedSize: binary.LittleEndian.Uint32(buf[4:8]),
		ExpandedSize:   binary.LittleEndian.Uint32(buf[8:12]),
		Reserved:       binary.LittleEndian.Uint32(buf[12:16]),
	}, nil
}

// EncodeCompressedHeader serializes a CompressedHeader back to its 16-byte
// wire form, used by tests building compressed-packet fixtures.
func EncodeCompressedHeader(h CompressedHeader) []byte {
	buf := make([]byte, CompressedHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Tag)
	binary.LittleEndian.PutUint32(buf[4:8], h.CompressedSize)
	binary.LittleEndian.PutUint32(buf[8:12], h.ExpandedSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.Reserved)
	return buf
}
