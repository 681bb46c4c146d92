package shutdown_test

import (
	"testing"

	"github.com/davepl/NightDriver-Pi/internal/shutdown"
)

func TestFlagStartsNotRequested(t *testing.T) {
	f := shutdown.New()
	if f.Requested() {
		t.Error("new Flag reports Requested() == true")
	}
}

func TestSignalSetsRequested(t *testing.T) {
	f := shutdown.New()
	f.Signal()

	if !f.Requested() {
		t.Error("Requested() == false after Signal()")
	}
}

func TestSignalIsIdempotent(t *testing.T) {
	f := shutdown.New()
	f.Signal()
	f.Signal()

	if !f.Requested() {
		t.Error("Requested() == false after calling Signal() twice")
	}
}
