// Package server assembles the adapter's HTTP surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telhawk-systems/ldadapter/internal/httputil"
	"github.com/telhawk-systems/ldadapter/internal/logging"
	"github.com/telhawk-systems/ldadapter/internal/messaging"
	"github.com/telhawk-systems/ldadapter/internal/middleware"
	"github.com/telhawk-systems/ldadapter/internal/notify"
	"github.com/telhawk-systems/ldadapter/internal/ratelimit"
)

const (
	HealthPath  = "/healthz"
	ReadyPath   = "/readyz"
	MetricsPath = "/metrics"
)

const readyTimeout = 3 * time.Second

// API is the translated NGSI-LD surface.
type API interface {
	Register(mux *http.ServeMux)
	Ready(ctx context.Context) error
}

// Options wires the router. Relay, Broker and Limiter are optional.
type Options struct {
	API     API
	Relay   *notify.Relay
	Broker  messaging.Publisher
	Limiter ratelimit.RateLimiter
	CORS    middleware.CORSConfig
	Logger  *logging.Logger
}

// NewRouter registers every route and wraps the mux with the middleware chain:
// request id, access log, CORS and rate limiting, outermost first.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, health)
	mux.HandleFunc("GET "+ReadyPath, ready(opts.API, opts.Broker, logger))
	mux.Handle("GET "+MetricsPath, promhttp.Handler())
	if opts.Relay != nil {
		mux.Handle(notify.Route, opts.Relay)
	}
	opts.API.Register(mux)

	var handler http.Handler = mux
	if opts.Limiter != nil {
		handler = ratelimit.Middleware(opts.Limiter)(handler)
	}
	if len(opts.CORS.AllowedOrigins) > 0 {
		handler = middleware.CORS(opts.CORS)(handler)
	}
	handler = AccessLog(logger)(handler)
	return middleware.RequestID(handler)
}

func health(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness is the /readyz body. Broker state is informational: NATS
// reconnects on its own and the LD API keeps working without it.
type readiness struct {
	Status string                  `json:"status"`
	Error  string                  `json:"error,omitempty"`
	Broker *messaging.HealthStatus `json:"broker,omitempty"`
}

func ready(api API, broker messaging.Publisher, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		body := readiness{Status: "ready"}
		if broker != nil {
			health := messaging.CheckHealth(broker)
			body.Broker = &health
		}
		if err := api.Ready(ctx); err != nil {
			logger.WarnContext(r.Context(), "upstream not ready", logging.Error(err))
			body.Status = "unavailable"
			body.Error = err.Error()
			httputil.WriteJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}
