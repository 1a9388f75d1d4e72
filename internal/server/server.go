// Package server exposes endpoints over HTTP. Each endpoint is served at
// /<path> and accepts POST only.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xdg/multihook/internal/action"
	"github.com/xdg/multihook/internal/audit"
	"github.com/xdg/multihook/internal/endpoint"
	"github.com/xdg/multihook/internal/mlog"
)

// HeaderRequestID carries the per-request ID in every response.
const HeaderRequestID = "X-Request-Id"

// Options configures a Server.
type Options struct {
	// MaxBodyBytes limits request bodies; zero means no limit.
	MaxBodyBytes int64

	// AuditLogger logs dispatch events. If nil, no audit logging is performed.
	AuditLogger *audit.Logger
}

type routeTable map[string]*endpoint.Endpoint

// Server routes webhook requests to endpoints. The route table can be
// replaced while serving; a request keeps the Endpoint it was routed to.
type Server struct {
	// Addr is the address to listen on (e.g., "127.0.0.1:8080").
	Addr string

	maxBodyBytes int64
	auditLogger  *audit.Logger

	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
	running  bool

	// Guarded by mu.
	routes routeTable
	// refs counts requests holding each endpoint.
	refs map[*endpoint.Endpoint]int
	// retired holds replaced endpoints that still have requests or
	// detached runs in flight, so Stop can wait for them.
	retired map[*endpoint.Endpoint]struct{}
}

// New creates a Server with an empty route table.
func New(addr string, opts Options) *Server {
	s := &Server{
		Addr:         addr,
		maxBodyBytes: opts.MaxBodyBytes,
		auditLogger:  opts.AuditLogger,
		routes:       routeTable{},
		refs:         make(map[*endpoint.Endpoint]int),
		retired:      make(map[*endpoint.Endpoint]struct{}),
	}
	return s
}

// SetEndpoints atomically replaces the route table. Replaced endpoints are
// forgotten once no request or detached run uses them.
func (s *Server) SetEndpoints(eps []*endpoint.Endpoint) {
	routes := make(routeTable, len(eps))
	for _, ep := range eps {
		routes[ep.Path()] = ep
		mlog.Info("Adding endpoint %s with path /%s", ep.Name(), ep.Path())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for path, ep := range s.routes {
		if routes[path] != ep {
			s.retired[ep] = struct{}{}
		}
	}
	s.routes = routes
	s.pruneLocked()
}

// pruneLocked drops retired endpoints that are idle. s.mu must be held.
func (s *Server) pruneLocked() {
	for ep := range s.retired {
		if s.refs[ep] == 0 && ep.Running() == 0 {
			delete(s.retired, ep)
		}
	}
}

// acquire looks up the endpoint for path and holds it until release.
func (s *Server) acquire(path string) (*endpoint.Endpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ep, ok := s.routes[path]
	if ok {
		s.refs[ep]++
	}
	return ep, ok
}

func (s *Server) release(ep *endpoint.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs[ep]--; s.refs[ep] <= 0 {
		delete(s.refs, ep)
	}
}

// Handler returns the HTTP handler serving the current route table.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// Start begins accepting connections.
// Returns an error if the server is already running or fails to start.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 30 * time.Second,
		ErrorLog:          log.New(mlog.Writer(mlog.LevelWarn), "http: ", 0),
	}
	s.running = true

	mlog.Info("Starting server on %s", listener.Addr())
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mlog.Error("server: %v", err)
		}
	}()

	return nil
}

// Stop stops accepting requests, waits for in-flight requests and then for
// detached runs, until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	srv := s.server
	eps := make([]*endpoint.Endpoint, 0, len(s.routes)+len(s.retired))
	for _, ep := range s.routes {
		eps = append(eps, ep)
	}
	for ep := range s.retired {
		eps = append(eps, ep)
	}
	s.mu.Unlock()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	done := make(chan struct{})
	go func() {
		for _, ep := range eps {
			ep.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for detached hooks: %w", ctx.Err())
	}
}

// ListenAddr returns the actual address the server is listening on.
// This is useful when the server was started with port 0 (random port).
// Returns empty string if the server is not running.
func (s *Server) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// handleRequest dispatches one request. Routes are keyed by path, so the
// success body names the path (e.g. "Hook 'ci/build' executed.").
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set(HeaderRequestID, id)

	path := strings.TrimPrefix(r.URL.Path, "/")
	ep, ok := s.acquire(path)
	if !ok {
		writeText(w, http.StatusNotFound, "404 - Not Found")
		return
	}
	defer s.release(ep)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := ep.Name()
	_ = s.auditLogger.LogRequest(name, id, r.RemoteAddr)
	mlog.Debug("Executing hook %s (request %s)", name, id)

	body, err := s.readBody(w, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			_ = s.auditLogger.LogReject(name, id, "body too large")
			writeText(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		_ = s.auditLogger.LogReject(name, id, err.Error())
		writeText(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	start := time.Now()
	err = ep.Execute(r.Context(), r.Header, body)
	duration := time.Since(start)

	switch {
	case errors.Is(err, endpoint.ErrInvalidSecret), errors.Is(err, endpoint.ErrBodyDecode):
		mlog.Warn("%s: request %s rejected: %v", name, id, err)
		_ = s.auditLogger.LogReject(name, id, err.Error())
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		mlog.Error("%s: request %s failed: %v", name, id, err)
		exitCode := -1
		var actionErr *action.Error
		if errors.As(err, &actionErr) {
			exitCode = actionErr.ExitCode
		}
		_ = s.auditLogger.LogFail(name, id, err.Error(), exitCode, duration)
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}

	if ep.Detached() {
		_ = s.auditLogger.LogDetach(name, id)
	} else {
		_ = s.auditLogger.LogComplete(name, id, duration)
	}
	mlog.Info("Hook '%s' executed", ep.Path())
	writeText(w, http.StatusOK, fmt.Sprintf("Hook '%s' executed.", ep.Path()))
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	reader := io.Reader(r.Body)
	if s.maxBodyBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return body, nil
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
