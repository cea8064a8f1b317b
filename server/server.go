// Package server is the local preview service: it renders descriptors over
// HTTP and relays a live chat over a websocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/vizchat/chatapi"
	"github.com/spektr-org/vizchat/engine"
	"github.com/spektr-org/vizchat/render"
	"github.com/spektr-org/vizchat/session"
)

const shutdownTimeout = 5 * time.Second

// Config holds server settings.
type Config struct {
	Addr          string
	CacheSize     int
	Render        render.Options
	EngineOptions []engine.Option
}

// Server wires the chat API, the session manager and the renderers.
type Server struct {
	cfg      Config
	api      chatapi.API
	sessions *session.Manager
	cache    *renderCache
	log      *zap.Logger

	mu    sync.Mutex
	state session.State
}

// New creates a Server. api and sessions may be nil when only /api/render is
// needed; the chat endpoints then answer 503.
func New(cfg Config, api chatapi.API, sessions *session.Manager, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cache, err := newRenderCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("init render cache: %w", err)
	}
	return &Server{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		cache:    cache,
		log:      log,
	}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("serving", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// chatState bootstraps the session on first use.
func (s *Server) chatState(ctx context.Context) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ChatID != "" {
		return s.state, nil
	}
	st, err := s.sessions.Bootstrap(ctx)
	if err != nil {
		return session.State{}, err
	}
	s.state = st
	return st, nil
}

func (s *Server) resetChat(ctx context.Context) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.sessions.Reset(ctx)
	if err != nil {
		return session.State{}, err
	}
	s.state = st
	return st, nil
}

func (s *Server) chatEnabled() bool {
	return s.api != nil && s.sessions != nil
}
