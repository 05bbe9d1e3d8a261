package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/telhawk-systems/ldadapter/internal/httputil"
	"github.com/telhawk-systems/ldadapter/internal/logging"
	"github.com/telhawk-systems/ldadapter/internal/metrics"
)

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.statusCode == 0 {
		lrw.WriteHeader(http.StatusOK)
	}
	return lrw.ResponseWriter.Write(b)
}

func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}

// AccessLog logs one line per request and records request metrics. Probe and
// scrape endpoints are logged at debug level.
func AccessLog(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)

			status := lrw.statusCode
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			metrics.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			metrics.RequestDuration.WithLabelValues(r.Method).Observe(elapsed.Seconds())

			args := []any{
				logging.Method(r.Method),
				logging.Path(r.URL.Path),
				logging.Status(status),
				logging.Duration(elapsed),
				logging.IP(httputil.GetClientIP(r)),
			}
			switch {
			case isProbe(r.URL.Path):
				logger.DebugContext(r.Context(), "request", args...)
			case status >= 500:
				logger.ErrorContext(r.Context(), "request", args...)
			default:
				logger.InfoContext(r.Context(), "request", args...)
			}
		})
	}
}

func isProbe(path string) bool {
	return path == HealthPath || path == ReadyPath || path == MetricsPath
}
