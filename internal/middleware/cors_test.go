package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := CORS(DefaultCORSConfig([]string{"https://app.example.com", "*.city.org"}))(next)

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{"exact origin", http.MethodGet, "https://app.example.com", http.StatusTeapot, "https://app.example.com"},
		{"wildcard origin", http.MethodGet, "https://maps.city.org", http.StatusTeapot, "https://maps.city.org"},
		{"unknown origin", http.MethodGet, "https://evil.test", http.StatusTeapot, ""},
		{"no origin", http.MethodGet, "", http.StatusTeapot, ""},
		{"preflight", http.MethodOptions, "https://app.example.com", http.StatusNoContent, "https://app.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ngsi-ld/v1/entities", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllowed, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllowed != "" {
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "NGSILD-Tenant")
				assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "NGSILD-Results-Count")
				assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
			}
		})
	}
}

func TestCORS_AnyOrigin(t *testing.T) {
	cfg := DefaultCORSConfig([]string{"*"})
	cfg.AllowCredentials = true
	cfg.MaxAge = 60
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "60", rec.Header().Get("Access-Control-Max-Age"))
}
