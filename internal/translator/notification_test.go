package translator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
)

func TestNotification(t *testing.T) {
	var n v2.Notification
	require.NoError(t, json.Unmarshal([]byte(`{
		"subscriptionId": "5f3a",
		"data": [{"id": "room1", "type": "Room", "temperature": {"type": "Number", "value": 30}}]
	}`), &n))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	got := newTestTranslator().Notification(n, at, true)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"@context": "`+DefaultContextURL+`",
		"id": "urn:ngsi-ld:Notification:fixed",
		"type": "Notification",
		"subscriptionId": "urn:ngsi-ld:Subscription:5f3a",
		"notifiedAt": "2024-05-01T10:00:00.000Z",
		"data": [{"id": "urn:ngsi-ld:Room:room1", "type": "Room", "temperature": {"type": "Property", "value": 30}}]
	}`, string(data))
}

func TestNotification_EmptyData(t *testing.T) {
	got := newTestTranslator().Notification(v2.Notification{SubscriptionID: "x"}, time.Unix(0, 0), false)
	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data":[]`)
	assert.NotContains(t, string(data), "@context")
}
