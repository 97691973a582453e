//go:build integration

package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests against a running MQTT broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

func TestIntegration_ConnectAndClose(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "masterdata-int-connect"

	client, err := Connect(cfg)
	require.NoError(t, err)

	assert.True(t, client.IsConnected())
	assert.NoError(t, client.HealthCheck(context.Background()))

	assert.NoError(t, client.Close())
	assert.False(t, client.IsConnected(), "after Close()")
}

func TestIntegration_ConnectRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19999

	_, err := Connect(cfg)
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

// TestIntegration_CreatedEventRoundtrip publishes a record event and reads it
// back with a plain paho subscriber.
func TestIntegration_CreatedEventRoundtrip(t *testing.T) {
	cfg := testConfig()
	cfg.TopicPrefix = "md-int"
	cfg.Broker.ClientID = "masterdata-int-pub"

	client, err := Connect(cfg)
	require.NoError(t, err)
	defer client.Close()

	subOpts := pahomqtt.NewClientOptions().AddBroker("tcp://127.0.0.1:1883").SetClientID("masterdata-int-sub")
	sub := pahomqtt.NewClient(subOpts)
	connectToken := sub.Connect()
	require.True(t, connectToken.WaitTimeout(5*time.Second), "subscriber connect timed out")
	require.NoError(t, connectToken.Error())
	defer sub.Disconnect(250)

	received := make(chan []byte, 1)
	token := sub.Subscribe(client.Topics().AllRecordEvents(), 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		select {
		case received <- msg.Payload():
		default:
		}
	})
	require.True(t, token.WaitTimeout(5*time.Second), "subscribe timed out")
	require.NoError(t, token.Error())

	events := NewEventPublisher(client, client.Topics(), client.QoS())
	require.NoError(t, events.PublishCreated(context.Background(), testEvent()))

	select {
	case payload := <-received:
		var msg eventMessage
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, "10001", msg.ID)
		assert.Equal(t, "machine", msg.Entity)
	case <-time.After(5 * time.Second):
		assert.Fail(t, "timeout waiting for event")
	}
}
