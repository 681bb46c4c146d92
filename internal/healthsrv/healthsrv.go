// Package healthsrv exposes liveness and readiness over HTTP, grounded on
// _examples/e7canasta-orion-care-sensor/References/orion-prototipe/internal/core/health.go's
// LivenessHandler / ReadinessHandler / StartHealthServer, narrowed to this
// receiver's two long-lived loops instead of a worker pool.
package healthsrv

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// StatusSource reports the liveness/readiness signals the two endpoints
// need. Implemented by whatever wires up the Listener and Pacer in
// cmd/ledreceiverd so this package stays free of their concrete types.
type StatusSource interface {
	ConnectionsAccepted() uint64
	LastDrawAt() time.Time
}

// staleAfter is how long since the Pacer's last draw before readiness
// reports not-ready: a receiver that has accepted frames but stopped
// drawing for this long is stuck, not merely idle between frames (the
// Pacer's own poll cap is 40ms, so several seconds of silence is never
// normal operation).
const staleAfter = 10 * time.Second

// Server serves /health and /readiness.
type Server struct {
	src     StatusSource
	started time.Time
	http    *http.Server
}

// New creates a Server bound to addr (e.g. ":9090"). It does not start
// listening until Run is called.
func New(addr string, src StatusSource) *Server {
	s := &Server{src: src, started: time.Now()}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.liveness)
	mux.HandleFunc("/readiness", s.readiness)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Run blocks serving HTTP until ctx is canceled, then shuts the server
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("healthsrv: listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "alive",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Before any connection has ever been accepted there is nothing for
	// the Pacer to have drawn yet; that is a legitimate idle state, not a
	// stuck one. Once a connection has arrived, the Pacer is expected to
	// keep drawing.
	lastDraw := s.src.LastDrawAt()
	ready := s.src.ConnectionsAccepted() == 0 || (!lastDraw.IsZero() && time.Since(lastDraw) < staleAfter)

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":               status,
		"connections_accepted": s.src.ConnectionsAccepted(),
		"last_draw_at":         lastDraw,
	})
}
