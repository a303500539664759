// Package server runs the HTTP router as a Component in the
// composition root's errgroup, grounded on the teacher's own
// transport/web/server.Server. TLS/autocert is out of scope for this
// core — the teacher's deployment terminates TLS at an edge the repo
// doesn't model — so this Server always serves plain HTTP on Port.
package server

import (
	"context"
	"fmt"
	"net/http"
)

// Server serves Router on Port until ctx is cancelled.
type Server struct {
	Port   int
	Router http.Handler
}

// Run implements the app.Component interface.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
