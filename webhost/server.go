package webhost

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// Server serves the application pipeline.
type Server interface {
	// ListenAndServe blocks until the server stops. A graceful Shutdown is
	// not an error.
	ListenAndServe(http.Handler) error
	Shutdown(context.Context) error
}

// NewServer returns a Server listening on addr.
func NewServer(addr string) Server {
	return &httpServer{addr: addr}
}

type httpServer struct {
	addr string

	mu     sync.Mutex
	srv    *http.Server
	closed bool
}

// ListenAndServe returns nil right away when Shutdown was called first.
func (s *httpServer) ListenAndServe(handler http.Handler) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	s.srv = &http.Server{Addr: s.addr, Handler: handler}
	srv := s.srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *httpServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
