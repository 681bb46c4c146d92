package wireproto

import (
	"errors"
	"fmt"
)

// ErrChannelMismatch indicates the packet was well-formed but not addressed
// to this node: channel != 0 and the low bit is clear. The caller should
// drop the packet silently and keep the connection open.
var ErrChannelMismatch = errors.New("wireproto: channel mismatch, packet not addressed to this node")

// ProtocolError is a discriminated error kind: every parse or decompress
// failure in this package returns one, so callers never have to
// distinguish exceptions from boolean returns the way the original C++
// source mixed them.
type ProtocolError struct {
	Op     string // the operation that failed, e.g. "parse standard header"
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wireproto: %s: %s", e.Op, e.Reason)
}

func protocolErrorf(op, format string, args ...any) *ProtocolError {
	return &ProtocolError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
