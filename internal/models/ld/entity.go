package ld

import (
	"encoding/json"
	"time"
)

// Entity is an LD entity. Attributes are rendered as top-level keys.
type Entity struct {
	Context    string
	ID         string
	Type       string
	Attributes map[string]*Attribute
}

// MarshalJSON implements json.Marshaler.
func (e *Entity) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Attributes)+3)
	for name, attr := range e.Attributes {
		out[name] = attr
	}
	if e.Context != "" {
		out["@context"] = e.Context
	}
	out["id"] = e.ID
	out["type"] = e.Type
	return json.Marshal(out)
}

// Notification is delivered to an LD subscriber.
type Notification struct {
	Context        string    `json:"@context,omitempty"`
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	SubscriptionID string    `json:"subscriptionId"`
	NotifiedAt     string    `json:"notifiedAt"`
	Data           []*Entity `json:"data"`
}

// ISOTime formats t the way LD timestamps are written: UTC with milliseconds.
func ISOTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
