package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func preflight(r http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/healthcheck", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSOrigins(t *testing.T) {
	t.Run("configured origin is allowed", func(t *testing.T) {
		r := NewRouter(RouterConfig{
			Logger:      zap.NewNop(),
			CORSOrigins: []string{"https://dashboard.fallyx.com"},
		})
		w := preflight(r, "https://dashboard.fallyx.com")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.fallyx.com" {
			t.Errorf("allow-origin: got %q", got)
		}
	})

	t.Run("unlisted origin is refused", func(t *testing.T) {
		r := NewRouter(RouterConfig{
			Logger:      zap.NewNop(),
			CORSOrigins: []string{"https://dashboard.fallyx.com"},
		})
		w := preflight(r, "https://elsewhere.example.com")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("unexpected allow-origin %q", got)
		}
	})

	t.Run("defaults cover local development", func(t *testing.T) {
		r := NewRouter(RouterConfig{Logger: zap.NewNop()})
		w := preflight(r, "http://localhost:5173")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("allow-origin: got %q", got)
		}
	})
}
