// Package notify relays v2 subscription notifications to NGSI-LD subscribers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/telhawk-systems/ldadapter/internal/httputil"
	"github.com/telhawk-systems/ldadapter/internal/logging"
	"github.com/telhawk-systems/ldadapter/internal/messaging"
	"github.com/telhawk-systems/ldadapter/internal/metrics"
	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
	"github.com/telhawk-systems/ldadapter/internal/translator"
)

// Route is where the broker posts notifications for relayed subscriptions.
const Route = "POST /notify"

// MaxBodyBytes caps an incoming notification.
const MaxBodyBytes = 8 << 20

// ErrDelivery wraps failures posting to the LD subscriber.
var ErrDelivery = errors.New("notification delivery failed")

type Config struct {
	Timeout       time.Duration
	SubjectPrefix string
}

// Relay turns v2 notifications into LD notifications, posts them to the
// subscriber named by the target header and optionally publishes them.
type Relay struct {
	translator *translator.Translator
	publisher  messaging.Publisher
	client     *http.Client
	prefix     string
	logger     *logging.Logger
	now        func() time.Time
}

// Option customizes a Relay.
type Option func(*Relay)

// WithPublisher fans notifications out to a broker.
func WithPublisher(p messaging.Publisher) Option {
	return func(r *Relay) { r.publisher = p }
}

// WithClock overrides the notifiedAt clock.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

// WithLogger sets the relay's logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Relay) { r.logger = l }
}

func New(tr *translator.Translator, cfg Config, opts ...Option) *Relay {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := &Relay{
		translator: tr,
		client:     &http.Client{Timeout: timeout},
		prefix:     cfg.SubjectPrefix,
		logger:     logging.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ServeHTTP handles a notification posted by the v2 broker.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	target := req.Header.Get(translator.TargetHeader)
	if target == "" && r.publisher == nil {
		httputil.WriteProblem(w, http.StatusBadRequest, httputil.Problem{
			Type:   httputil.BadRequestData,
			Title:  "Missing target",
			Detail: "notification carries no target header and no broker is configured",
		})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, MaxBodyBytes))
	if err != nil {
		httputil.WriteProblem(w, http.StatusBadRequest, httputil.Problem{
			Type: httputil.BadRequestData, Title: "Unreadable body", Detail: err.Error(),
		})
		return
	}
	var n v2.Notification
	if err := v2.Decode(body, &n); err != nil {
		httputil.WriteProblem(w, http.StatusBadRequest, httputil.Problem{
			Type: httputil.BadRequestData, Title: "Invalid notification", Detail: err.Error(),
		})
		return
	}

	notification := r.translator.Notification(n, r.now(), true)
	payload, err := json.Marshal(notification)
	if err != nil {
		httputil.WriteInternalError(w, err.Error(), "notify")
		return
	}

	log := r.logger.With(logging.SubscriptionID(notification.SubscriptionID))

	if r.publisher != nil {
		if err := r.publish(ctx, n.SubscriptionID, payload); err != nil {
			metrics.NotificationsTotal.WithLabelValues(metrics.ChannelNATS, metrics.OutcomeError).Inc()
			log.ErrorContext(ctx, "publishing notification", logging.Error(err))
			if target == "" {
				httputil.WriteInternalError(w, err.Error(), "notify")
				return
			}
		} else {
			metrics.NotificationsTotal.WithLabelValues(metrics.ChannelNATS, metrics.OutcomeSuccess).Inc()
		}
	}

	if target != "" {
		if err := r.deliver(ctx, target, payload, req.Header); err != nil {
			metrics.NotificationsTotal.WithLabelValues(metrics.ChannelHTTP, metrics.OutcomeError).Inc()
			log.WarnContext(ctx, "delivering notification", logging.Error(err), "target", target)
			httputil.WriteProblem(w, http.StatusBadGateway, httputil.Problem{
				Type:   httputil.InternalError,
				Title:  "Notification delivery failed",
				Detail: err.Error(),
			})
			return
		}
		metrics.NotificationsTotal.WithLabelValues(metrics.ChannelHTTP, metrics.OutcomeSuccess).Inc()
	}

	log.DebugContext(ctx, "notification relayed", "entities", len(notification.Data))
	w.WriteHeader(http.StatusNoContent)
}

func (r *Relay) publish(ctx context.Context, subscriptionID string, payload []byte) error {
	return r.publisher.PublishMsg(ctx, &messaging.Message{
		Subject: messaging.NotificationSubject(r.prefix, subscriptionID),
		Data:    payload,
		Metadata: map[string]string{
			messaging.HeaderSubscriptionID: subscriptionID,
			messaging.HeaderContentType:    httputil.ContentTypeJSONLD,
		},
		Timestamp: r.now(),
	})
}

// deliver posts payload to target, carrying the v2 tenant over as NGSILD-Tenant.
func (r *Relay) deliver(ctx context.Context, target string, payload []byte, in http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", httputil.ContentTypeJSONLD)
	if tenant := in.Get("Fiware-Service"); tenant != "" {
		req.Header.Set("NGSILD-Tenant", tenant)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: subscriber returned %d", ErrDelivery, resp.StatusCode)
	}
	return nil
}
