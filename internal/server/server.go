package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/ymx/internal/shared"
	"golang.org/x/oauth2"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows the route patterns it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// CallbackAddr splits a loopback redirect URI into a listen address and callback path.
func CallbackAddr(redirectURI string) (addr, path string, err error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", "", fmt.Errorf("%w: redirect uri %q: %v", shared.ErrInvalidConfig, redirectURI, err)
	}
	if u.Scheme != "http" || u.Host == "" {
		return "", "", fmt.Errorf("%w: redirect uri %q must be an http loopback url", shared.ErrInvalidConfig, redirectURI)
	}

	addr = u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "80")
	}

	path = u.Path
	if path == "" {
		path = "/"
	}
	return addr, path, nil
}

// CallbackServer serves OAuth callbacks on a local listener.
type CallbackServer struct {
	srv      *http.Server
	listener net.Listener
	errs     chan error
}

// Listen binds addr and starts serving handler in the background.
func Listen(addr string, handler http.Handler) (*CallbackServer, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &CallbackServer{
		srv:      &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		listener: l,
		errs:     make(chan error, 1),
	}

	go func() {
		if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
	return s, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *CallbackServer) Addr() string {
	return s.listener.Addr().String()
}

// Errors delivers a serve error if the server stops unexpectedly.
func (s *CallbackServer) Errors() <-chan error {
	return s.errs
}

// Shutdown gracefully stops the server.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// WaitForToken blocks until the handler publishes a result, the server fails, ctx ends or timeout elapses.
func WaitForToken(ctx context.Context, h *OAuthHandler, s *CallbackServer, timeout time.Duration) (*oauth2.Token, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result OAuthResult
	select {
	case result = <-h.Result():
	case err := <-s.Errors():
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}
