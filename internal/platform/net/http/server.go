package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"sync"
	"time"

	"ladderbot/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server serves a chi mux for the ops API
type Server struct {
	mux *chi.Mux
	srv *stdhttp.Server

	mu sync.Mutex
	ln net.Listener
}

// NewServer builds a server for addr. Each setup func gets the mux before
// anything is served.
func NewServer(addr string, setup ...func(*chi.Mux)) *Server {
	m := chi.NewRouter()
	for _, fn := range setup {
		fn(m)
	}
	return &Server{
		mux: m,
		srv: &stdhttp.Server{Addr: addr, Handler: m, ReadHeaderTimeout: 10 * time.Second},
	}
}

// Router exposes the mux for late registration
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Listen binds the address. Run calls it when the caller did not.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr is the bound address once listening, the configured one before
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.srv.Addr
}

// Run serves until ctx is done, then drains for up to grace
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	if err := s.Listen(); err != nil {
		return err
	}
	log := logger.Named("http")
	log.Info().Str("addr", s.Addr()).Msg("http: listening")

	served := make(chan error, 1)
	go func() { served <- s.srv.Serve(s.ln) }()

	select {
	case err := <-served:
		return ignoreClosed(err)
	case <-ctx.Done():
	}

	drain, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()
	if err := s.srv.Shutdown(drain); err != nil {
		return err
	}
	log.Info().Msg("http: stopped")
	return ignoreClosed(<-served)
}

func ignoreClosed(err error) error {
	if errors.Is(err, stdhttp.ErrServerClosed) {
		return nil
	}
	return err
}
