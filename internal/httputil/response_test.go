package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		data   any
	}{
		{"map", http.StatusOK, map[string]string{"message": "success"}},
		{"struct", http.StatusCreated, struct{ ID string }{"123"}},
		{"slice", http.StatusOK, []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteJSON(w, tt.status, tt.data)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, ContentTypeJSON, w.Header().Get("Content-Type"))
			var result any
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		})
	}
}

func TestWriteJSON_InvalidData(t *testing.T) {
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() { WriteJSON(w, http.StatusOK, make(chan int)) })
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWriteBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteBody(w, http.StatusOK, map[string]string{"id": "x"}, true, "http://ctx")
	assert.Equal(t, ContentTypeJSONLD, w.Header().Get("Content-Type"))
	assert.Empty(t, w.Header().Get("Link"))

	w = httptest.NewRecorder()
	WriteBody(w, http.StatusOK, map[string]string{"id": "x"}, false, "http://ctx")
	assert.Equal(t, ContentTypeJSON, w.Header().Get("Content-Type"))
	assert.Equal(t, `<http://ctx>; rel="http://www.w3.org/ns/json-ld#context"; type="application/ld+json"`, w.Header().Get("Link"))
}

func TestWriteInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteInternalError(w, "connection refused", "ldadapter")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ContentTypeJSON, w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"type": "https://uri.etsi.org/ngsi-ld/errors/InternalError",
		"title": "ldadapter",
		"detail": "connection refused"
	}`, w.Body.String())
}

func TestProblemFromV2(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Problem
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error":"NotFound","description":"The requested entity has not been found. Check type and id"}`,
			want:   Problem{Type: ResourceNotFound, Title: "NotFound", Detail: "The requested entity has not been found. Check type and id"},
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			body:   `{"error":"BadRequest","description":"invalid character in URI parameter"}`,
			want:   Problem{Type: BadRequestData, Title: "BadRequest", Detail: "invalid character in URI parameter"},
		},
		{
			name:   "unmapped status with text body",
			status: http.StatusBadGateway,
			body:   "upstream down",
			want:   Problem{Type: InternalError, Title: "Bad Gateway", Detail: "upstream down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProblemFromV2(tt.status, []byte(tt.body)))
		})
	}
}

func TestWriteProblem(t *testing.T) {
	w := httptest.NewRecorder()
	WriteProblem(w, http.StatusTooManyRequests, Problem{Type: TooManyRequests, Title: "rate limited"})

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var p Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, TooManyRequests, p.Type)
}
