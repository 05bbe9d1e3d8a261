// Package httputil renders JSON, JSON-LD and NGSI-LD problem documents.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	// ContentTypeJSON is the plain JSON media type.
	ContentTypeJSON = "application/json"

	// ContentTypeJSONLD is the linked-data media type.
	ContentTypeJSONLD = "application/ld+json"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	write(w, ContentTypeJSON, status, data)
}

// WriteJSONLD writes data as application/ld+json.
func WriteJSONLD(w http.ResponseWriter, status int, data any) {
	write(w, ContentTypeJSONLD, status, data)
}

// WriteBody writes data as JSON-LD when linkedData is set, and otherwise as
// JSON with a Link header pointing at contextURL.
func WriteBody(w http.ResponseWriter, status int, data any, linkedData bool, contextURL string) {
	if linkedData {
		WriteJSONLD(w, status, data)
		return
	}
	w.Header().Set("Link", LinkHeader(contextURL))
	WriteJSON(w, status, data)
}

// LinkHeader formats the JSON-LD context link for plain JSON responses.
func LinkHeader(contextURL string) string {
	return `<` + contextURL + `>; rel="http://www.w3.org/ns/json-ld#context"; type="application/ld+json"`
}

func write(w http.ResponseWriter, contentType string, status int, data any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
