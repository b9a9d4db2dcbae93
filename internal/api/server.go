package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzhttp"

	"github.com/five82/daylog/internal/logstore"
)

// Options configure the HTTP boundary.
type Options struct {
	Store  *logstore.Store
	Logger *charmLog.Logger
	// TokenHash is a bcrypt hash of the bearer token required on /logs
	// routes. Empty disables authentication.
	TokenHash string
}

// Server exposes the log store over HTTP.
type Server struct {
	store   *logstore.Store
	logger  *charmLog.Logger
	auth    *tokenAuth
	handler http.Handler
	srv     *http.Server
}

// New builds a Server and its routing table.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("api requires a log store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	s := &Server{
		store:  opts.Store,
		logger: logger,
	}
	if hash := strings.TrimSpace(opts.TokenHash); hash != "" {
		s.auth = newTokenAuth(hash)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /logs", s.protect(http.HandlerFunc(s.handleList)))
	mux.Handle("GET /logs/today", s.protect(http.HandlerFunc(s.handleToday)))
	mux.Handle("GET /logs/{date}", s.protect(http.HandlerFunc(s.handleDate)))

	s.handler = withRequestID(s.recordRequests(gzhttp.GzipHandler(mux)))
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on addr and serves until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called. A clean
// shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) protect(next http.Handler) http.Handler {
	if s.auth == nil {
		return next
	}
	return s.auth.middleware(next)
}
