package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jaekwang-park/tasktrack/internal/middleware"
	"github.com/jaekwang-park/tasktrack/internal/service"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerOption func(*http.Server)

// WithTimeouts overrides the read, write and idle timeouts. Zero keeps the default.
func WithTimeouts(read, write, idle time.Duration) ServerOption {
	return func(s *http.Server) {
		if read > 0 {
			s.ReadTimeout = read
			s.ReadHeaderTimeout = read
		}
		if write > 0 {
			s.WriteTimeout = write
		}
		if idle > 0 {
			s.IdleTimeout = idle
		}
	}
}

func NewServer(port string, logger *slog.Logger, todoSvc *service.TodoService, prefix string, opts ...ServerOption) *Server {
	router := NewRouter(todoSvc, logger, prefix)

	// request id -> recovery -> logging -> router
	chain := middleware.RequestID(middleware.Recovery(logger)(middleware.Logging(logger)(router)))

	srv := &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           chain,
		ReadTimeout:       defaultReadTimeout,
		ReadHeaderTimeout: defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	for _, opt := range opts {
		opt(srv)
	}

	return &Server{httpServer: srv, logger: logger}
}

// Handler exposes the full middleware chain, for in-process servers.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("starting server", "addr", l.Addr().String())
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
