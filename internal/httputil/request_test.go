package httputil

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded single", map[string]string{"X-Forwarded-For": "203.0.113.195"}, "", "203.0.113.195"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "  203.0.113.195  , 70.41.3.18"}, "", "203.0.113.195"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.42"}, "", "198.51.100.42"},
		{"remote addr", nil, "192.0.2.1:54321", "192.0.2.1"},
		{"remote addr without port", nil, "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.remote != "" {
				req.RemoteAddr = tt.remote
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}

func TestWantsLinkedData(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"application/ld+json", true},
		{"application/json, application/ld+json;q=0.9", true},
		{"Application/LD+JSON", true},
		{"application/json", false},
		{"", false},
		{"*/*", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Accept", tt.accept)
		assert.Equal(t, tt.want, WantsLinkedData(req), "accept %q", tt.accept)
	}
}
