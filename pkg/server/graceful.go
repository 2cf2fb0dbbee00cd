// Package server exposes the engine's observation endpoints over HTTP with
// graceful shutdown.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-mycelium/pkg/engine"
	"github.com/dd0wney/cluso-mycelium/pkg/logging"
)

// GracefulServer wraps an HTTP server with graceful shutdown capabilities.
type GracefulServer struct {
	server       *http.Server
	log          logging.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// New creates a server exposing metrics, health, and network snapshots for
// the given engine.
func New(addr string, eng *engine.Engine, log logging.Logger) *GracefulServer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	gs := &GracefulServer{
		log:        log.With(logging.Component("server")),
		shutdownCh: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", eng.Metrics().Handler())
	mux.HandleFunc("/healthz", gs.handleHealthz)
	mux.HandleFunc("/snapshot", handleSnapshot(eng))

	gs.server = &http.Server{
		Addr:           addr,
		Handler:        mux,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return gs
}

// Start serves until Shutdown or a termination signal.
func (gs *GracefulServer) Start() error {
	go gs.handleSignals()

	gs.log.Info("HTTP server starting", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown initiates a graceful shutdown.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.log.Info("graceful shutdown", logging.Duration("timeout", timeout))
		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			gs.log.Error("shutdown failed", logging.Error(shutdownErr))
		}
	})
	return err
}

func (gs *GracefulServer) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for sig := range sigCh {
		gs.log.Info("signal received", logging.String("signal", sig.String()))
		if err := gs.Shutdown(30 * time.Second); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
}

// IsShuttingDown reports whether shutdown has been initiated.
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated.
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

func (gs *GracefulServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if gs.IsShuttingDown() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleSnapshot(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := eng.MetricsSnapshot()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
