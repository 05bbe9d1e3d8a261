package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/ldadapter/internal/messaging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, nats.DefaultURL, cfg.URL)
	assert.Equal(t, "ldadapter", cfg.Name)
	assert.Equal(t, -1, cfg.MaxReconnects)
	assert.Equal(t, 2*time.Second, cfg.ReconnectWait)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "nats://127.0.0.1:1"
	cfg.Timeout = 200 * time.Millisecond

	_, err := NewClient(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestMessageConversion(t *testing.T) {
	msg := &messaging.Message{
		Subject:  "ngsild.notifications.abc",
		Data:     []byte(`{"id":"x"}`),
		Metadata: map[string]string{messaging.HeaderSubscriptionID: "abc"},
	}

	natsMsg := toNATS(msg)
	assert.Equal(t, msg.Subject, natsMsg.Subject)
	assert.Equal(t, msg.Data, natsMsg.Data)
	assert.Equal(t, "abc", natsMsg.Header.Get(messaging.HeaderSubscriptionID))

	back := fromNATS(natsMsg)
	assert.Equal(t, msg.Subject, back.Subject)
	assert.Equal(t, msg.Data, back.Data)
	assert.Equal(t, "abc", back.Metadata[messaging.HeaderSubscriptionID])
	assert.False(t, back.Timestamp.IsZero())
}

func TestMessageConversion_NoHeaders(t *testing.T) {
	natsMsg := toNATS(&messaging.Message{Subject: "s"})
	assert.Nil(t, natsMsg.Header)
	assert.Nil(t, fromNATS(natsMsg).Metadata)
}
