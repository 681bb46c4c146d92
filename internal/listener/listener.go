// Package listener owns the TCP accept loop and per-connection read loop
// that feed decoded frames into a framebuffer.Manager.
//
// Grounded on _examples/original_source/socketserver.h/.cpp for wire-level
// behavior (two framing variants, partial-read accumulation, 3s receive
// timeout) and on
// _examples/e7canasta-orion-care-sensor/modules/stream-capture/rtsp.go for
// Go structuring: fail-fast constructor validation, atomic stat counters,
// slog-based connection lifecycle logging.
package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/davepl/NightDriver-Pi/internal/clock"
	"github.com/davepl/NightDriver-Pi/internal/shutdown"
	"github.com/davepl/NightDriver-Pi/modules/framebuffer"
	"github.com/davepl/NightDriver-Pi/modules/wireproto"
)

// DefaultPort is the TCP port the receiver listens on when none is
// configured, matching _examples/original_source/globals.h's
// kIncomingSocketPort.
const DefaultPort = 49152

// acceptBacklog mirrors socketserver.cpp's listen(..., 6) backlog.
const acceptBacklog = 6

// recvTimeout mirrors socketserver.cpp's SO_RCVTIMEO of 3 seconds, so a
// stalled or half-open connection does not hang the Listener forever.
const recvTimeout = 3 * time.Second

// Listener accepts TCP connections carrying wireproto frames and pushes
// decoded frames into a FrameBuffer. It processes one connection at a time,
// matching the original's single-threaded-per-connection model, but loops
// to accept a new connection after the previous one drops rather than
// exiting: the original firmware never re-accepts after its one connection
// ends, but this receiver generalizes that into an indefinite accept loop
// bounded only by shutdown.
type Listener struct {
	addr          string
	maxPacketSize int
	buf           *framebuffer.Manager
	clk           clock.Source
	shutdown      *shutdown.Flag

	connectionsAccepted uint64
	packetsAccepted     uint64
	packetsRejected     uint64
}

// New creates a Listener bound to addr (host:port), sizing its scratch
// buffers for a matrix of maxMatrixPixels pixels.
func New(addr string, maxMatrixPixels int, buf *framebuffer.Manager, clk clock.Source, sd *shutdown.Flag) (*Listener, error) {
	if addr == "" {
		return nil, fmt.Errorf("listener: addr is required")
	}
	if maxMatrixPixels <= 0 {
		return nil, fmt.Errorf("listener: maxMatrixPixels must be positive, got %d", maxMatrixPixels)
	}
	if buf == nil {
		return nil, fmt.Errorf("listener: buf is required")
	}

	return &Listener{
		addr:          addr,
		maxPacketSize: wireproto.MaxPacketSize(maxMatrixPixels),
		buf:           buf,
		clk:           clk,
		shutdown:      sd,
	}, nil
}

// ConnectionsAccepted returns the number of connections accepted since Run
// started.
func (l *Listener) ConnectionsAccepted() uint64 {
	return atomic.LoadUint64(&l.connectionsAccepted)
}

// PacketsAccepted returns the number of packets successfully parsed and
// pushed into the FrameBuffer.
func (l *Listener) PacketsAccepted() uint64 {
	return atomic.LoadUint64(&l.packetsAccepted)
}

// PacketsRejected returns the number of packets dropped for any reason
// (protocol error, channel mismatch, transport error).
func (l *Listener) PacketsRejected() uint64 {
	return atomic.LoadUint64(&l.packetsRejected)
}

// Run binds the listening socket and accepts connections until shutdown is
// signaled. It returns an error only if the initial bind fails; per-
// connection faults are logged and the Listener moves on to accept the
// next connection.
func (l *Listener) Run() error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listener: bind %s: %w", l.addr, err)
	}
	defer ln.Close()

	slog.Info("listener: bound", "addr", l.addr, "max_packet_size", l.maxPacketSize)

	// Poll-driven shutdown requires a way to unblock Accept(); a deadline
	// on the underlying TCPListener lets us re-check the shutdown flag
	// periodically instead of blocking on Accept() forever.
	tl, ok := ln.(*net.TCPListener)
	if !ok {
		return fmt.Errorf("listener: expected *net.TCPListener, got %T", ln)
	}

	for !l.shutdown.Requested() {
		tl.SetDeadline(time.Now().Add(500 * time.Millisecond))
		conn, err := tl.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			slog.Warn("listener: accept error", "error", err)
			continue
		}

		connID := uuid.New().String()
		atomic.AddUint64(&l.connectionsAccepted, 1)
		l.handleConnection(conn, connID)
	}

	return nil
}

// handleConnection processes one connection's packets until it errors out
// or is closed by the peer, per socketserver.cpp's
// ProcessIncomingConnectionsLoop.
func (l *Listener) handleConnection(conn net.Conn, connID string) {
	defer conn.Close()

	log := slog.With("conn_id", connID, "remote_addr", conn.RemoteAddr().String())
	log.Info("listener: connection accepted")

	scratch := make([]byte, l.maxPacketSize)
	decompressed := make([]byte, l.maxPacketSize)
	received := 0

	readUntil := func(need int) error {
		if need <= received {
			return nil
		}
		if need > len(scratch) {
			return fmt.Errorf("need %d bytes, exceeds max packet size %d", need, len(scratch))
		}
		conn.SetReadDeadline(time.Now().Add(recvTimeout))
		for received < need {
			n, err := conn.Read(scratch[received:need])
			if n > 0 {
				received += n
			}
			if err != nil {
				if n > 0 && received >= need {
					return nil
				}
				return err
			}
		}
		return nil
	}

	for {
		if err := readUntil(wireproto.StandardHeaderSize); err != nil {
			if err != io.EOF {
				log.Debug("listener: read error on header", "error", err)
			}
			return
		}

		var frame *wireproto.Frame
		var err error

		if wireproto.IsCompressed(scratch[:received]) {
			frame, err = l.readCompressed(scratch, decompressed, received, readUntil)
		} else {
			frame, err = l.readStandard(scratch, received)
			if err == nil {
				if readErr := readUntil(wireproto.StandardHeaderSize + len(frame.Pixels)*wireproto.PixelSize); readErr != nil {
					err = readErr
				} else {
					frame, err = wireproto.DecodeFrame(scratch[:wireproto.StandardHeaderSize+len(frame.Pixels)*wireproto.PixelSize])
				}
			}
		}

		received = 0

		if err != nil {
			if errors.Is(err, wireproto.ErrChannelMismatch) {
				log.Debug("listener: channel mismatch, ignoring packet")
				atomic.AddUint64(&l.packetsRejected, 1)
				continue
			}
			log.Warn("listener: dropping connection", "error", err)
			atomic.AddUint64(&l.packetsRejected, 1)
			return
		}

		l.buf.Push(frame)
		atomic.AddUint64(&l.packetsAccepted, 1)

		resp := wireproto.StatusResponse{
			CurrentClock:    l.clk.Now(),
			OldestPacketAge: l.buf.AgeOfOldest(),
			NewestPacketAge: l.buf.AgeOfNewest(),
			Brightness:      100, // placeholder: no dimming control in this receiver
			WifiSignal:      99,  // placeholder: no wireless link to report on
			BufferCapacity:  uint32(l.buf.Capacity()),
			BufferSize:      uint32(l.buf.Size()),
		}
		if _, err := conn.Write(resp.Encode()); err != nil {
			log.Debug("listener: failed to write status response", "error", err)
		}
	}
}

// readStandard peeks the standard header already sitting in scratch to
// learn how many pixel bytes must still be read. It returns a Frame with
// no pixel data yet filled in; the caller reads the remaining bytes and
// re-decodes.
func (l *Listener) readStandard(scratch []byte, received int) (*wireproto.Frame, error) {
	header, err := wireproto.ParseStandardHeader(scratch[:received])
	if err != nil {
		return nil, err
	}
	need := wireproto.StandardHeaderSize + int(header.PixelCount)*wireproto.PixelSize
	if need > l.maxPacketSize {
		return nil, fmt.Errorf("listener: declared pixel count %d exceeds max packet size", header.PixelCount)
	}
	return &wireproto.Frame{Pixels: make([]wireproto.Pixel, header.PixelCount)}, nil
}

// readCompressed reads a compressed packet's full body, inflates it, and
// decodes the resulting standard payload.
func (l *Listener) readCompressed(scratch, decompressed []byte, received int, readUntil func(int) error) (*wireproto.Frame, error) {
	header, err := wireproto.ParseCompressedHeader(scratch[:received])
	if err != nil {
		return nil, err
	}
	if int(header.ExpandedSize) > l.maxPacketSize {
		return nil, fmt.Errorf("listener: expanded size %d exceeds max packet size", header.ExpandedSize)
	}

	need := wireproto.CompressedHeaderSize + int(header.CompressedSize)
	if need > len(scratch) {
		return nil, fmt.Errorf("listener: compressed size %d exceeds scratch buffer", header.CompressedSize)
	}
	if err := readUntil(need); err != nil {
		return nil, err
	}

	n, err := wireproto.Inflate(scratch[wireproto.CompressedHeaderSize:need], decompressed, int(header.ExpandedSize))
	if err != nil {
		return nil, err
	}

	return wireproto.DecodeFrame(decompressed[:n])
}
