package httputil

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP extracts the real client IP address from request headers.
// It checks X-Forwarded-For (first entry), then X-Real-IP, then RemoteAddr
// with its port stripped.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// WantsLinkedData reports whether the caller asked for application/ld+json.
func WantsLinkedData(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(mediaType), ContentTypeJSONLD) {
			return true
		}
	}
	return false
}
