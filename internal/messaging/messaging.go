// Package messaging abstracts the broker that relayed NGSI-LD notifications
// are fanned out to.
package messaging

import (
	"context"
	"strings"
	"time"
)

// Message is a message sent to or received from the broker.
type Message struct {
	Subject   string
	Data      []byte
	Metadata  map[string]string
	Timestamp time.Time
}

// MessageHandler processes a received message.
type MessageHandler func(ctx context.Context, msg *Message) error

// Subscription is an active subscription to a subject.
type Subscription interface {
	Unsubscribe() error
	Subject() string
}

// Publisher publishes messages to subjects.
type Publisher interface {
	// Publish is fire-and-forget.
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishMsg sends a Message with its metadata as headers.
	PublishMsg(ctx context.Context, msg *Message) error

	IsConnected() bool
	Close() error
}

// Subscriber receives messages on subjects. Subjects may use broker wildcards.
type Subscriber interface {
	Subscribe(subject string, handler MessageHandler) (Subscription, error)
	Close() error
}

// Client combines Publisher and Subscriber.
type Client interface {
	Publisher
	Subscriber
	Drain() error
}

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "ngsild.notifications"

// Header names set on published notifications.
const (
	HeaderSubscriptionID = "Ngsild-Subscription-Id"
	HeaderContentType    = "Content-Type"
)

var subjectReplacer = strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_", "\t", "_")

// NotificationSubject returns <prefix>.<subscriptionID>, with characters that
// are reserved in subjects replaced by underscores.
func NotificationSubject(prefix, subscriptionID string) string {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return prefix + "." + subjectReplacer.Replace(subscriptionID)
}

// AllNotifications matches every notification under prefix.
func AllNotifications(prefix string) string {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return prefix + ".>"
}
