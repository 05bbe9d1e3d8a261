package translator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
)

const v2Subscription = `{
	"id": "5f3a",
	"description": "rooms over 25",
	"subject": {
		"entities": [{"idPattern": ".*", "type": "Room"}],
		"condition": {"attrs": ["temperature"], "expression": {"q": "temperature>25"}}
	},
	"notification": {
		"attrs": ["temperature"],
		"attrsFormat": "normalized",
		"httpCustom": {
			"url": "http://adapter:3000/notify",
			"headers": {"target": "http://subscriber:8080/hook"}
		},
		"timesSent": 4
	},
	"expires": "2040-01-01T00:00:00.000Z",
	"status": "active"
}`

func TestSubscription_Translate(t *testing.T) {
	tr := newTestTranslator()

	var sub v2.Subscription
	require.NoError(t, json.Unmarshal([]byte(v2Subscription), &sub))

	got := tr.Subscription(sub, true)
	data, err := json.Marshal(got)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"@context": "`+DefaultContextURL+`",
		"id": "urn:ngsi-ld:Subscription:5f3a",
		"type": "Subscription",
		"description": "rooms over 25",
		"entities": [{"idPattern": ".*", "type": "Room"}],
		"watchedAttributes": ["temperature"],
		"q": "temperature>25",
		"notification": {
			"attributes": ["temperature"],
			"format": "normalized",
			"endpoint": {"uri": "http://subscriber:8080/hook", "accept": "application/json"},
			"timesSent": 4
		},
		"expiresAt": "2040-01-01T00:00:00.000Z",
		"status": "active",
		"isActive": true
	}`, string(data))
}

func TestSubscription_EndpointFallbacks(t *testing.T) {
	tests := []struct {
		name string
		n    v2.SubscriptionNotification
		want string
	}{
		{"custom url without target", v2.SubscriptionNotification{HTTPCustom: &v2.HTTPCustom{URL: "http://a"}}, "http://a"},
		{"plain http", v2.SubscriptionNotification{HTTP: &v2.HTTP{URL: "http://b"}}, "http://b"},
		{"nothing", v2.SubscriptionNotification{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, endpointURI(tt.n))
		})
	}

	got := newTestTranslator().Subscription(v2.Subscription{ID: "1"}, false)
	assert.Nil(t, got.Notification.Endpoint)
	assert.Empty(t, got.Q)
	assert.Nil(t, got.IsActive)
}

func TestSubscription_Status(t *testing.T) {
	got := newTestTranslator().Subscription(v2.Subscription{ID: "1", Status: "inactive"}, false)
	assert.Equal(t, "paused", got.Status)
	require.NotNil(t, got.IsActive)
	assert.False(t, *got.IsActive)
}

func TestSubscriptionURN(t *testing.T) {
	assert.Equal(t, "urn:ngsi-ld:Subscription:abc", SubscriptionURN("abc"))
	assert.Equal(t, "urn:ngsi-ld:Subscription:abc", SubscriptionURN("urn:ngsi-ld:Subscription:abc"))
	assert.Equal(t, "abc", SubscriptionID("urn:ngsi-ld:Subscription:abc"))
	assert.Equal(t, "abc", SubscriptionID("abc"))
}
