// Package proxy forwards NGSI-LD requests to a v2 context broker and
// translates the responses.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/telhawk-systems/ldadapter/internal/logging"
	"github.com/telhawk-systems/ldadapter/internal/metrics"
	"github.com/telhawk-systems/ldadapter/internal/middleware"
	"github.com/telhawk-systems/ldadapter/internal/translator"
)

var (
	// ErrUpstreamUnavailable wraps transport failures talking to the broker.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedBody wraps broker responses that are not the expected JSON.
	ErrMalformedBody = errors.New("malformed upstream body")
)

// StatusError is a non-2xx broker response.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.Status)
}

// Header names mapped between the two protocols.
const (
	HeaderTenant       = "NGSILD-Tenant"
	HeaderPath         = "NGSILD-Path"
	HeaderResultsCount = "NGSILD-Results-Count"

	HeaderService     = "Fiware-Service"
	HeaderServicePath = "Fiware-ServicePath"
	HeaderTotalCount  = "Fiware-Total-Count"
	HeaderCorrelator  = "Fiware-Correlator"
)

// LDPrefix is the route prefix of the NGSI-LD API.
const LDPrefix = "/ngsi-ld/v1/"

// DefaultComponent titles problem documents for unexpected failures.
const DefaultComponent = "ldadapter"

// Config configures a Proxy.
type Config struct {
	UpstreamURL string
	Timeout     time.Duration
	Component   string
}

// Proxy serves the NGSI-LD API on top of a v2 broker.
type Proxy struct {
	upstream   *url.URL
	client     *http.Client
	translator *translator.Translator
	logger     *logging.Logger
	component  string
}

// New returns a Proxy. A nil logger uses the slog default.
func New(cfg Config, tr *translator.Translator, logger *logging.Logger) (*Proxy, error) {
	u, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream URL %q: scheme and host required", cfg.UpstreamURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	component := cfg.Component
	if component == "" {
		component = DefaultComponent
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Proxy{
		upstream:   u,
		client:     &http.Client{Timeout: timeout},
		translator: tr,
		logger:     logger,
		component:  component,
	}, nil
}

// Register installs the LD routes on mux.
func (p *Proxy) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ngsi-ld/v1/entities", p.listEntities)
	mux.HandleFunc("GET /ngsi-ld/v1/entities/{id}", p.getEntity)
	mux.HandleFunc("GET /ngsi-ld/v1/types", p.listTypes)
	mux.HandleFunc("GET /ngsi-ld/v1/types/{type}", p.getType)
	mux.HandleFunc("GET /ngsi-ld/v1/attributes", p.listAttributes)
	mux.HandleFunc("GET /ngsi-ld/v1/attributes/{attr}", p.getAttribute)
	mux.HandleFunc("GET /ngsi-ld/v1/subscriptions", p.listSubscriptions)
	mux.HandleFunc("GET /ngsi-ld/v1/subscriptions/{id}", p.getSubscription)
	mux.HandleFunc(LDPrefix, p.passthrough)
}

// Ready checks that the broker answers GET /version.
func (p *Proxy) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.upstream.JoinPath("version").String(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}

type upstreamResponse struct {
	status int
	header http.Header
	body   []byte
}

// get issues GET <upstream>/v2/<segments...>?query on behalf of r. Segments
// are path-escaped.
func (p *Proxy) get(r *http.Request, resource string, query url.Values, segments ...string) (*upstreamResponse, error) {
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, "v2")
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	target := p.upstream.JoinPath(escaped...)
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	forwardHeaders(req, r)

	start := time.Now()
	resp, err := p.client.Do(req)
	metrics.UpstreamDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(metrics.ReasonConnection).Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(metrics.ReasonConnection).Inc()
		return nil, fmt.Errorf("%w: reading body: %v", ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamErrors.WithLabelValues(metrics.ReasonStatus).Inc()
		return nil, &StatusError{Status: resp.StatusCode, Body: body}
	}

	p.logger.DebugContext(r.Context(), "upstream request",
		logging.Upstream(target.String()),
		logging.Status(resp.StatusCode),
		logging.Duration(time.Since(start)),
	)
	return &upstreamResponse{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// forwardHeaders maps LD tenancy headers onto their v2 equivalents and
// propagates the request ID.
func forwardHeaders(out *http.Request, in *http.Request) {
	if tenant := in.Header.Get(HeaderTenant); tenant != "" {
		out.Header.Set(HeaderService, tenant)
	}
	if path := in.Header.Get(HeaderPath); path != "" {
		out.Header.Set(HeaderServicePath, path)
	}
	if reqID := middleware.GetRequestID(in.Context()); reqID != "" {
		out.Header.Set(middleware.RequestIDHeader, reqID)
		out.Header.Set(HeaderCorrelator, reqID)
	}
}

var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
	"Content-Length":      true,
}

// passthrough forwards any other LD call to the matching /v2 path unchanged.
func (p *Proxy) passthrough(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.EscapedPath(), LDPrefix)
	target := p.upstream.JoinPath("v2", rest)
	target.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		p.fail(w, r, "passthrough", err)
		return
	}
	for key, values := range r.Header {
		if hopHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.ContentLength = r.ContentLength
	forwardHeaders(req, r)

	start := time.Now()
	resp, err := p.client.Do(req)
	metrics.UpstreamDuration.WithLabelValues("passthrough").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(metrics.ReasonConnection).Inc()
		p.fail(w, r, "passthrough", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err))
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if hopHeaders[key] {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	if count := resp.Header.Get(HeaderTotalCount); count != "" {
		w.Header().Set(HeaderResultsCount, count)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		p.logger.WarnContext(r.Context(), "copying upstream body", logging.Error(err))
	}
}
