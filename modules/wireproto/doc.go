// Package wireproto implements the wire codec for the LED pixel-data
// protocol: header parsing for both the standard and zlib-compressed
// framing variants, frame decoding and validation, the decompression
// wrapper, and the 64-byte status response encoder.
//
// This package is intentionally free of networking and concurrency. It
// operates on byte slices the caller has already read off the wire (or
// constructed in a test), so every function here is deterministic and
// unit-testable without a socket. internal/listener is the only caller of
// its parsing and decoding functions in this repository; it owns the socket
// and the scratch buffers and drives them against those buffers.
// modules/framebuffer stores the decoded Frame values.
//
// All multi-byte integers on the wire are little-endian, regardless of host
// byte order — every accessor here uses encoding/binary.LittleEndian
// explicitly rather than relying on host endianness.
package wireproto
