// Package shutdown holds the process-wide shutdown flag polled by the
// Listener and Pacer loops, and the signal wiring that sets it.
//
// The shutdown flag is the only process-wide mutable state in the
// receiver: an atomic boolean whose only writer is the signal handler,
// polled (never select-blocked-on) by every other loop.
package shutdown

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Flag is a process-wide, pollable shutdown signal. The zero value is not
// requested.
type Flag struct {
	requested atomic.Bool
}

// New returns a Flag that is not requested.
func New() *Flag {
	return &Flag{}
}

// Requested reports whether shutdown has been signaled. Safe to call from
// any goroutine, any number of times, without blocking.
func (f *Flag) Requested() bool {
	return f.requested.Load()
}

// Signal marks shutdown as requested. Idempotent.
func (f *Flag) Signal() {
	f.requested.Store(true)
}

// WatchSignals spawns a goroutine that sets the flag on SIGINT or SIGTERM,
// following the signal.Notify pattern in
// _examples/e7canasta-orion-care-sensor/examples/orion-pipeline/main.go but
// writing to an atomic flag instead of canceling a context. Returns a stop
// function that releases the signal subscription.
func (f *Flag) WatchSignals() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-ch:
			f.Signal()
		case <-done:
		}
	}()

	return func() {
		close(done)
		signal.Stop(ch)
	}
}
