// Package framebuffer provides a bounded, mutex-protected queue of decoded
// pixel-data frames, ordered by arrival rather than by their embedded
// timestamps.
//
// The Listener pushes frames as they are parsed off the wire; the Pacer
// pops them in the same order once their timestamp says they are due. If
// the queue is full when a new frame arrives, the oldest queued frame is
// discarded to make room — a producer that is consistently faster than the
// Pacer loses backlog, not throughput.
//
// Public API Stability:
//
// This package follows the same internal/public split as the rest of this
// module: the public API is the stable contract, and Manager's
// implementation in internal/buffer can change freely.
package framebuffer
