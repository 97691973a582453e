package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

type recordedPublish struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

type fakePublisher struct {
	published []recordedPublish
	err       error
}

func (f *fakePublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, recordedPublish{topic, payload, qos, retained})
	return nil
}

func testEvent() masterdata.CreatedEvent {
	return masterdata.CreatedEvent{
		Entity:    "machine",
		ID:        "10001",
		LangCode:  "eng",
		CreatedBy: "admin",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestEventPublisher_PublishCreated(t *testing.T) {
	pub := &fakePublisher{}
	events := NewEventPublisher(pub, NewTopics("md"), 1)

	require.NoError(t, events.PublishCreated(context.Background(), testEvent()))

	require.Len(t, pub.published, 1)
	got := pub.published[0]
	assert.Equal(t, "md/events/machine/created", got.topic)
	assert.Equal(t, byte(1), got.qos)
	assert.False(t, got.retained)

	var msg eventMessage
	require.NoError(t, json.Unmarshal(got.payload, &msg))
	assert.NotEmpty(t, msg.EventID)
	assert.Equal(t, "created", msg.Type)
	assert.Equal(t, "machine", msg.Entity)
	assert.Equal(t, "10001", msg.ID)
	assert.Equal(t, "eng", msg.LangCode)
	assert.Equal(t, "admin", msg.CreatedBy)
	assert.True(t, msg.CreatedAt.Equal(testEvent().CreatedAt), "CreatedAt = %v", msg.CreatedAt)
}

func TestEventPublisher_UniqueEventIDs(t *testing.T) {
	pub := &fakePublisher{}
	events := NewEventPublisher(pub, NewTopics("md"), 0)

	for range 3 {
		require.NoError(t, events.PublishCreated(context.Background(), testEvent()))
	}

	seen := make(map[string]bool)
	for _, p := range pub.published {
		var msg eventMessage
		require.NoError(t, json.Unmarshal(p.payload, &msg))
		assert.False(t, seen[msg.EventID], "duplicate EventID %q", msg.EventID)
		seen[msg.EventID] = true
	}
}

func TestEventPublisher_Errors(t *testing.T) {
	t.Run("publish failure is wrapped", func(t *testing.T) {
		events := NewEventPublisher(&fakePublisher{err: ErrNotConnected}, NewTopics("md"), 1)
		err := events.PublishCreated(context.Background(), testEvent())
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("cancelled context publishes nothing", func(t *testing.T) {
		pub := &fakePublisher{}
		events := NewEventPublisher(pub, NewTopics("md"), 1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, events.PublishCreated(ctx, testEvent()), context.Canceled)
		assert.Empty(t, pub.published)
	})

	t.Run("client without broker", func(t *testing.T) {
		client := newClient(testConfig())
		events := NewEventPublisher(client, client.Topics(), client.QoS())
		assert.ErrorIs(t, events.PublishCreated(context.Background(), testEvent()), ErrNotConnected)
	})

	t.Run("out of range QoS is rejected", func(t *testing.T) {
		client := newClient(testConfig())
		events := NewEventPublisher(client, client.Topics(), 5)
		assert.ErrorIs(t, events.PublishCreated(context.Background(), testEvent()), ErrRejected)
	})
}
