package wireproto

import (
	"bytes"
	"compress/zlib"
	"io"
)

// Inflate decompresses a zlib-wrapped compressed packet body into scratch,
// which must be at least expandedSize bytes long. It returns the number of
// bytes written, always expandedSize on success.
//
// The original C++ firmware has inflated with both -MAX_WBITS (raw
// deflate) and +MAX_WBITS (zlib-wrapped) across different revisions; this
// decoder follows its most recent revision and only speaks the
// zlib-wrapped form. Go's compress/zlib speaks exactly that wire format (a
// 2-byte zlib header, the deflate stream, and an Adler-32 trailer), so it
// is used here unmodified — there is no raw-deflate path.
func Inflate(compressed []byte, scratch []byte, expandedSize int) (int, error) {
	if expandedSize > len(scratch) {
		return 0, protocolErrorf("inflate", "expanded size %d exceeds scratch buffer of %d bytes", expandedSize, len(scratch))
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return 0, protocolErrorf("inflate", "zlib header invalid: %v", err)
	}
	defer zr.Close()

	n, err := io.ReadFull(zr, scratch[:expandedSize])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, protocolErrorf("inflate", "decompression failed: %v", err)
	}

	if n != expandedSize {
		return 0, protocolErrorf("inflate", "decompressed %d bytes, expected expandedSize %d", n, expandedSize)
	}

	// Verify total_out == expandedSize in the other direction too: the
	// stream must not have more data left than declared.
	var probe [1]byte
	if m, _ := zr.Read(probe[:]); m > 0 {
		return 0, protocolErrorf("inflate", "decompressed output exceeds declared expandedSize %d", expandedSize)
	}

	return n, nil
}

// Deflate zlib-compresses data, used only by tests to build compressed
// packet fixtures for the compressed-framing decode path.
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}
