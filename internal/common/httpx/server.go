package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"restaurant-admin/internal/common/logger"
)

const DefaultShutdownGrace = 5 * time.Second

// Server wraps http.Server with context-driven shutdown.
type Server struct {
	*http.Server
	grace time.Duration
	lg    *logger.Logger
}

type ServerOption func(*Server)

// WithShutdownGrace bounds how long in-flight requests may finish after ctx ends.
func WithShutdownGrace(d time.Duration) ServerOption { return func(s *Server) { s.grace = d } }

func WithServerLogger(lg *logger.Logger) ServerOption { return func(s *Server) { s.lg = lg } }

func New(addr string, h http.Handler, opts ...ServerOption) *Server {
	s := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		grace: DefaultShutdownGrace,
		lg:    logger.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run serves until ctx is cancelled. A listen failure is returned at once;
// a shutdown that overruns the grace period returns its error.
func (s *Server) Run(ctx context.Context) error {
	served := make(chan error, 1)
	go func() { served <- s.ListenAndServe() }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.lg.Info("server_stopping", map[string]any{"addr": s.Addr, "grace": s.grace.String()})
	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		_ = s.Close()
		return err
	}
	return nil
}
