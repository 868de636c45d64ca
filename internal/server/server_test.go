package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/shared"
	"golang.org/x/oauth2"
)

type fakeExchanger struct {
	codes []string
	err   error
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{AccessToken: "access-" + code}, nil
}

func serve(h *OAuthHandler, target string) *httptest.ResponseRecorder {
	router := NewBasicRouter()
	router.Handler(h)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ex := &fakeExchanger{}
		h := NewOAuthHandler(ex, "s1", "")

		rec := serve(h, "/callback?state=s1&code=abc")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Spotify connected") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}

		result := <-h.Result()
		if result.Error() != nil || result.Token.AccessToken != "access-abc" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Invalid State", func(t *testing.T) {
		ex := &fakeExchanger{}
		h := NewOAuthHandler(ex, "s1", "")

		if rec := serve(h, "/callback?state=other&code=abc"); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-h.Result(); result.Error() == nil {
			t.Error("expected state error")
		}
		if len(ex.codes) != 0 {
			t.Error("code must not be exchanged with a bad state")
		}
	})

	t.Run("Denied", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s1", "")

		if rec := serve(h, "/callback?state=s1&error=access_denied"); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected denial error, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{err: errors.New("invalid_grant")}, "s1", "")

		if rec := serve(h, "/callback?state=s1&code=abc"); rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if result := <-h.Result(); result.Error() == nil {
			t.Error("expected exchange error")
		}
	})

	t.Run("Single Use", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s1", "")
		router := NewBasicRouter()
		router.Handler(h)

		for i, want := range []int{http.StatusOK, http.StatusBadRequest} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=abc", nil))
			if rec.Code != want {
				t.Errorf("callback %d: expected %d, got %d", i+1, want, rec.Code)
			}
		}
	})

	t.Run("Custom Path And Method", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s1", "/spotify/callback")
		if got := h.Routes(); len(got) != 1 || got[0] != "GET /spotify/callback" {
			t.Errorf("unexpected routes: %v", got)
		}

		router := NewBasicRouter()
		router.Handler(h)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/spotify/callback?state=s1&code=abc", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for POST, got %d", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(tag("first"), tag("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order: %v", order)
		}
	})

	t.Run("Logging Omits Query", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)
		logger.SetLevel(log.DebugLevel)

		router := NewBasicRouter()
		router.Use(Logging(logger))
		router.Handle("", "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?code=secret", nil))
		out := buf.String()
		if !strings.Contains(out, "status=418") || strings.Contains(out, "secret") {
			t.Errorf("unexpected log output: %s", out)
		}
	})
}

func TestCallbackAddr(t *testing.T) {
	tests := []struct {
		uri, addr, path string
	}{
		{"http://127.0.0.1:8080/callback", "127.0.0.1:8080", "/callback"},
		{"http://localhost/cb", "localhost:80", "/cb"},
		{"http://127.0.0.1:9000", "127.0.0.1:9000", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			addr, path, err := CallbackAddr(tt.uri)
			if err != nil {
				t.Fatalf("CallbackAddr failed: %v", err)
			}
			if addr != tt.addr || path != tt.path {
				t.Errorf("CallbackAddr() = (%s, %s), want (%s, %s)", addr, path, tt.addr, tt.path)
			}
		})
	}

	for _, bad := range []string{"https://example.com/callback", "not a url", "::"} {
		if _, _, err := CallbackAddr(bad); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("CallbackAddr(%q): expected ErrInvalidConfig, got %v", bad, err)
		}
	}
}

func TestCallbackServer(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s1", "")
		router := NewBasicRouter()
		router.Handler(h)

		srv, err := Listen("127.0.0.1:0", router)
		if err != nil {
			t.Fatalf("Listen failed: %v", err)
		}
		defer srv.Shutdown(context.Background())

		resp, err := http.Get(fmt.Sprintf("http://%s/callback?state=s1&code=xyz", srv.Addr()))
		if err != nil {
			t.Fatalf("callback request failed: %v", err)
		}
		resp.Body.Close()

		token, err := WaitForToken(context.Background(), h, srv, time.Second)
		if err != nil {
			t.Fatalf("WaitForToken failed: %v", err)
		}
		if token.AccessToken != "access-xyz" {
			t.Errorf("unexpected token: %+v", token)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s1", "")
		srv, err := Listen("127.0.0.1:0", NewBasicRouter())
		if err != nil {
			t.Fatalf("Listen failed: %v", err)
		}
		defer srv.Shutdown(context.Background())

		if _, err := WaitForToken(context.Background(), h, srv, 10*time.Millisecond); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("Failed Result", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s1", "")
		srv, err := Listen("127.0.0.1:0", NewBasicRouter())
		if err != nil {
			t.Fatalf("Listen failed: %v", err)
		}
		defer srv.Shutdown(context.Background())

		h.Send(OAuthResult{err: errors.New("denied")})
		if _, err := WaitForToken(context.Background(), h, srv, time.Second); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}
