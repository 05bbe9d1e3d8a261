package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/ldadapter/internal/httputil"
	"github.com/telhawk-systems/ldadapter/internal/logging"
	"github.com/telhawk-systems/ldadapter/internal/messaging"
	"github.com/telhawk-systems/ldadapter/internal/metrics"
	"github.com/telhawk-systems/ldadapter/internal/middleware"
	"github.com/telhawk-systems/ldadapter/internal/notify"
	"github.com/telhawk-systems/ldadapter/internal/translator"
)

type stubAPI struct {
	readyErr error
}

func (s *stubAPI) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ngsi-ld/v1/entities", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, []any{})
	})
}

func (s *stubAPI) Ready(context.Context) error { return s.readyErr }

type stubLimiter struct{ allowed bool }

func (s stubLimiter) Allow(context.Context, string) (bool, error) { return s.allowed, nil }
func (s stubLimiter) Close() error                                { return nil }

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_Probes(t *testing.T) {
	h := NewRouter(Options{API: &stubAPI{}})

	rec := serve(h, http.MethodGet, HealthPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(h, http.MethodGet, ReadyPath)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, MetricsPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ldadapter_http_requests_total")
}

func TestRouter_NotReady(t *testing.T) {
	h := NewRouter(Options{API: &stubAPI{readyErr: errors.New("connection refused")}})

	rec := serve(h, http.MethodGet, ReadyPath)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

type stubBroker struct{ connected bool }

func (s stubBroker) Publish(context.Context, string, []byte) error        { return nil }
func (s stubBroker) PublishMsg(context.Context, *messaging.Message) error { return nil }
func (s stubBroker) IsConnected() bool                                    { return s.connected }
func (s stubBroker) Close() error                                         { return nil }

func TestRouter_ReadyReportsBroker(t *testing.T) {
	h := NewRouter(Options{API: &stubAPI{}, Broker: stubBroker{connected: false}})

	rec := serve(h, http.MethodGet, ReadyPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","broker":{"connected":false,"error":"not connected to message broker"}}`, rec.Body.String())
}

func TestRouter_RequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.ParseLevel("info"), "json")
	h := NewRouter(Options{API: &stubAPI{}, Logger: logger})

	before := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "200"))
	rec := serve(h, http.MethodGet, "/ngsi-ld/v1/entities")

	require.Equal(t, http.StatusOK, rec.Code)
	reqID := rec.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, reqID)
	assert.Contains(t, buf.String(), `"path":"/ngsi-ld/v1/entities"`)
	assert.Contains(t, buf.String(), reqID)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "200")))
}

func TestRouter_ProbesNotLoggedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.ParseLevel("info"), "json")
	h := NewRouter(Options{API: &stubAPI{}, Logger: logger})

	serve(h, http.MethodGet, HealthPath)
	assert.Empty(t, buf.String())
}

func TestRouter_RateLimited(t *testing.T) {
	h := NewRouter(Options{API: &stubAPI{}, Limiter: stubLimiter{allowed: false}})

	rec := serve(h, http.MethodGet, "/ngsi-ld/v1/entities")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), httputil.TooManyRequests)

	h = NewRouter(Options{API: &stubAPI{}, Limiter: stubLimiter{allowed: true}})
	rec = serve(h, http.MethodGet, "/ngsi-ld/v1/entities")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	h := NewRouter(Options{API: &stubAPI{}, CORS: middleware.DefaultCORSConfig([]string{"https://app.example.com"})})

	req := httptest.NewRequest(http.MethodGet, "/ngsi-ld/v1/entities", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NotifyRoute(t *testing.T) {
	relay := notify.New(translator.New(translator.Settings{}), notify.Config{})

	h := NewRouter(Options{API: &stubAPI{}, Relay: relay})
	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(`{"subscriptionId":"s","data":[]}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	// No target header and no broker.
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = NewRouter(Options{API: &stubAPI{}})
	rec = serve(h, http.MethodPost, "/notify")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
