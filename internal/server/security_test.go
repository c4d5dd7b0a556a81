package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, cfg SecurityConfig, method, origin string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	handler := SecurityMiddleware(cfg, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte("scraped"))
	})
	req := httptest.NewRequest(method, "/metrics", http.NoBody)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec, called
}

func TestSecurityMiddleware_HardeningHeaders(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodHead} {
		rec, called := serve(t, DefaultSecurityConfig(), method, "")
		assert.True(t, called, method)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), method)
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"), method)
		assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"), method)
		assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'", method)
	}
}

func TestSecurityMiddleware_CORS(t *testing.T) {
	t.Parallel()

	scoped := SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"http://grafana.local", "http://prom.local"},
		AllowedMethods: []string{http.MethodGet},
	}
	tests := []struct {
		name       string
		cfg        SecurityConfig
		origin     string
		wantOrigin string
	}{
		{"disabled", SecurityConfig{}, "http://grafana.local", ""},
		{"wildcard", DefaultSecurityConfig(), "http://anywhere", "*"},
		{"wildcard without origin", DefaultSecurityConfig(), "", "*"},
		{"listed origin", scoped, "http://prom.local", "http://prom.local"},
		{"unlisted origin", scoped, "http://evil.local", ""},
		{"no origin with list", scoped, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, _ := serve(t, tt.cfg, http.MethodGet, tt.origin)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
			}
		})
	}
}

func TestSecurityMiddleware_Preflight(t *testing.T) {
	t.Parallel()

	rec, called := serve(t, DefaultSecurityConfig(), http.MethodOptions, "http://grafana.local")
	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rec.Body.String())
}
