package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/dadrock/internal/shared"
)

func trace(name string, calls *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*calls = append(*calls, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("middleware order", func(t *testing.T) {
		var calls []string
		router := NewBasicRouter()
		router.Use(trace("outer", &calls), trace("inner", &calls))
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "handler")
		}), trace("route", &calls))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		want := []string{"outer", "inner", "route", "handler"}
		if strings.Join(calls, ",") != strings.Join(want, ",") {
			t.Errorf("expected %v, got %v", want, calls)
		}
	})

	t.Run("method mismatch", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodPost, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("expected Allow POST, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("methods share a path", func(t *testing.T) {
		router := NewBasicRouter()
		for _, method := range []string{http.MethodPut, http.MethodDelete} {
			router.Handle(method, "/items/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, r.Method+" "+r.PathValue("id"))
			}))
		}

		for _, method := range []string{http.MethodPut, http.MethodDelete} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/items/7", nil))
			if want := method + " 7"; rec.Body.String() != want {
				t.Errorf("expected %q, got %q", want, rec.Body.String())
			}
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if got := rec.Header().Get("Allow"); got != "DELETE, PUT" {
			t.Errorf("expected Allow %q, got %q", "DELETE, PUT", got)
		}
	})

	t.Run("custom handler routes", func(t *testing.T) {
		var calls []string
		router := NewBasicRouter()
		router.Use(trace("router", &calls))
		router.Handler(NewSite("https://example.com"))

		for _, path := range []string{"/api/robots.txt", "/api/sitemap.xml"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, rec.Code)
			}
		}
		if len(calls) != 2 {
			t.Errorf("expected router middleware on both routes, got %v", calls)
		}
	})
}

func TestMiddleware(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("Recover", func(t *testing.T) {
		h := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("Logging keeps status", func(t *testing.T) {
		h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusTeapot {
			t.Errorf("expected 418, got %d", rec.Code)
		}
	})

	t.Run("checkPassword", func(t *testing.T) {
		tests := []struct {
			got, want string
			ok        bool
		}{
			{"secret", "secret", true},
			{"Secret", "secret", false},
			{"", "", false},
			{"secret", "", false},
		}

		for _, tt := range tests {
			if checkPassword(tt.got, tt.want) != tt.ok {
				t.Errorf("checkPassword(%q, %q) != %v", tt.got, tt.want, tt.ok)
			}
		}
	})
}

func TestServer(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	logger := shared.NewLogger(io.Discard)
	h := NewHandler(NewAPI(newRepo(t), nil, testPassword, logger), logger)
	srv := NewServer(listener.Addr().String(), h, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/api/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
