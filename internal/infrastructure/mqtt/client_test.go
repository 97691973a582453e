package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/masterdata-core/internal/infrastructure/config"
)

// testConfig returns an MQTT configuration for tests that never dial.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "masterdata-test",
		},
		QoS:         1,
		TopicPrefix: "md",
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// =============================================================================
// Options Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*config.MQTTConfig)
		wantBroker string
		wantUser   string
	}{
		{
			name:       "plain tcp",
			mutate:     func(*config.MQTTConfig) {},
			wantBroker: "tcp://127.0.0.1:1883",
		},
		{
			name: "tls",
			mutate: func(c *config.MQTTConfig) {
				c.Broker.TLS = true
				c.Broker.Port = 8883
			},
			wantBroker: "ssl://127.0.0.1:8883",
		},
		{
			name: "with credentials",
			mutate: func(c *config.MQTTConfig) {
				c.Auth.Username = "svc"
				c.Auth.Password = "secret"
			},
			wantBroker: "tcp://127.0.0.1:1883",
			wantUser:   "svc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			opts := buildClientOptions(cfg)
			require.Len(t, opts.Servers, 1)
			assert.Equal(t, tt.wantBroker, opts.Servers[0].String())
			assert.Equal(t, "masterdata-test", opts.ClientID)
			assert.Equal(t, tt.wantUser, opts.Username)
			if cfg.Broker.TLS {
				assert.NotNil(t, opts.TLSConfig, "TLSConfig for TLS broker")
			}
			assert.True(t, opts.AutoReconnect)
		})
	}
}

func TestConfigureLWT(t *testing.T) {
	c := newClient(testConfig())

	require.True(t, c.options.WillEnabled)
	assert.Equal(t, "md/system/status", c.options.WillTopic)
	assert.True(t, c.options.WillRetained)

	var payload statusPayload
	require.NoError(t, json.Unmarshal(c.options.WillPayload, &payload))
	assert.Equal(t, "offline", payload.Status)
	assert.Equal(t, "unexpected_disconnect", payload.Reason)
	assert.Equal(t, "masterdata-test", payload.ClientID)
}

func TestStatusPayloads(t *testing.T) {
	var online statusPayload
	require.NoError(t, json.Unmarshal(buildOnlinePayload("svc-1"), &online))
	assert.Equal(t, "online", online.Status)
	assert.Empty(t, online.Reason)
	assert.NotEmpty(t, online.Timestamp)
	assert.NotContains(t, string(buildOnlinePayload("svc-1")), "reason")

	var offline statusPayload
	require.NoError(t, json.Unmarshal(buildOfflinePayload("svc-1"), &offline))
	assert.Equal(t, "offline", offline.Status)
	assert.Equal(t, "graceful_shutdown", offline.Reason)
}

// =============================================================================
// Client State Tests
// =============================================================================

func TestCloseNil(t *testing.T) {
	assert.NoError(t, (&Client{}).Close())
}

func TestIsConnected_InitialState(t *testing.T) {
	assert.False(t, (&Client{}).IsConnected(), "uninitialised client")
	assert.False(t, newClient(testConfig()).IsConnected(), "before Connect")
}

func TestHealthCheck(t *testing.T) {
	client := newClient(testConfig())

	assert.ErrorIs(t, client.HealthCheck(context.Background()), ErrNotConnected)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.HealthCheck(ctx), context.Canceled)
}

func TestHandleDisconnectLogs(t *testing.T) {
	client := newClient(testConfig())
	logger := &mockLogger{}
	client.SetLogger(logger)

	client.handleDisconnect(errors.New("broker went away"))

	assert.False(t, client.IsConnected())
	assert.Len(t, logger.warns, 1)
}

func TestSetLogger(t *testing.T) {
	client := newClient(testConfig())
	assert.Nil(t, client.getLogger(), "default")

	client.SetLogger(&mockLogger{})
	assert.NotNil(t, client.getLogger())

	client.SetLogger(nil)
	assert.Nil(t, client.getLogger(), "after SetLogger(nil)")
}

// =============================================================================
// Publish Tests
// =============================================================================

func TestPublish_Rejects(t *testing.T) {
	client := newClient(testConfig())

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{name: "empty topic", topic: "", payload: []byte("x"), qos: 1, wantErr: ErrRejected},
		{name: "QoS above 2", topic: "md/t", payload: []byte("x"), qos: 3, wantErr: ErrRejected},
		{name: "payload too large", topic: "md/t", payload: make([]byte, maxPayloadSize+1), qos: 1, wantErr: ErrRejected},
		{name: "payload at limit reaches connection check", topic: "md/t", payload: make([]byte, maxPayloadSize), qos: 2, wantErr: ErrNotConnected},
		{name: "not connected", topic: "md/t", payload: []byte("x"), qos: 0, wantErr: ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPublish_RejectionIsNotPublishFailure(t *testing.T) {
	err := newClient(testConfig()).Publish("", []byte("x"), 1, false)

	require.ErrorIs(t, err, ErrRejected)
	assert.NotErrorIs(t, err, ErrPublishFailed)
	assert.Contains(t, err.Error(), "empty topic")
}

func TestClientAccessors(t *testing.T) {
	cfg := testConfig()
	cfg.QoS = 2
	client := newClient(cfg)

	assert.Equal(t, byte(2), client.QoS())
	assert.Equal(t, "md", client.Topics().Prefix)
}

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "ServiceStatus", got: NewTopics("md").ServiceStatus(), expected: "md/system/status"},
		{name: "RecordCreated", got: NewTopics("md").RecordCreated("machine"), expected: "md/events/machine/created"},
		{name: "AllRecordEvents", got: NewTopics("md").AllRecordEvents(), expected: "md/events/#"},
		{name: "default prefix", got: NewTopics("").ServiceStatus(), expected: "masterdata/system/status"},
		{name: "zero value", got: Topics{}.RecordCreated("machine"), expected: "masterdata/events/machine/created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

// mockLogger implements Logger for testing.
type mockLogger struct {
	errors []string
	warns  []string
	mu     sync.Mutex
}

func (l *mockLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

func (l *mockLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}
