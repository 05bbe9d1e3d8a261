package translator

import (
	"strings"

	"github.com/telhawk-systems/ldadapter/internal/models/ld"
	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
)

const (
	subscriptionKind = "Subscription"

	// TargetHeader carries the LD notification endpoint on subscriptions
	// routed through the adapter's relay.
	TargetHeader = "target"
)

var subscriptionStatus = map[string]string{
	"inactive": "paused",
}

// Subscription translates a v2 subscription descriptor.
func (t *Translator) Subscription(sub v2.Subscription, linkedData bool) *ld.Subscription {
	out := &ld.Subscription{
		Context:           t.context(linkedData),
		ID:                SubscriptionURN(sub.ID),
		Type:              subscriptionKind,
		Description:       sub.Description,
		WatchedAttributes: sub.Subject.Condition.Attrs,
		ExpiresAt:         sub.Expires,
		Throttling:        sub.Throttling,
		Notification: ld.NotificationParams{
			Attributes:       sub.Notification.Attrs,
			Format:           sub.Notification.AttrsFormat,
			TimesSent:        sub.Notification.TimesSent,
			LastNotification: sub.Notification.LastNotification,
			LastSuccess:      sub.Notification.LastSuccess,
			LastFailure:      sub.Notification.LastFailure,
		},
	}

	for _, sel := range sub.Subject.Entities {
		out.Entities = append(out.Entities, ld.EntitySelector(sel))
	}
	if expr := sub.Subject.Condition.Expression; expr != nil {
		out.Q = expr.Q
	}
	if uri := endpointURI(sub.Notification); uri != "" {
		out.Notification.Endpoint = &ld.Endpoint{URI: uri, Accept: "application/json"}
	}
	if sub.Status != "" {
		status := sub.Status
		if mapped, ok := subscriptionStatus[status]; ok {
			status = mapped
		}
		active := sub.Status == "active"
		out.Status = status
		out.IsActive = &active
	}
	return out
}

// Subscriptions translates a collection, keeping its order.
func (t *Translator) Subscriptions(list []v2.Subscription, linkedData bool) []*ld.Subscription {
	out := make([]*ld.Subscription, 0, len(list))
	for _, sub := range list {
		out = append(out, t.Subscription(sub, linkedData))
	}
	return out
}

// endpointURI prefers the relay target header, then the custom URL, then the
// plain URL. It returns "" when the subscription names no endpoint.
func endpointURI(n v2.SubscriptionNotification) string {
	if n.HTTPCustom != nil {
		if target := n.HTTPCustom.Headers[TargetHeader]; target != "" {
			return target
		}
		if n.HTTPCustom.URL != "" {
			return n.HTTPCustom.URL
		}
	}
	if n.HTTP != nil {
		return n.HTTP.URL
	}
	return ""
}

// SubscriptionURN qualifies a v2 subscription id.
func SubscriptionURN(id string) string {
	if HasURNPrefix(id) {
		return id
	}
	return URNPrefix + subscriptionKind + ":" + id
}

// SubscriptionID strips the LD qualification from a subscription id.
func SubscriptionID(urn string) string {
	return strings.TrimPrefix(urn, URNPrefix+subscriptionKind+":")
}
