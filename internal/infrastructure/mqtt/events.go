package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// Publisher is the part of Client the EventPublisher needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// EventPublisher announces created master records on MQTT.
//
// Events are published to <prefix>/events/<entity>/created, not retained.
type EventPublisher struct {
	pub    Publisher
	topics Topics
	qos    byte
	newID  func() string
}

// eventMessage is the wire payload of a record event.
type eventMessage struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	LangCode  string    `json:"lang_code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEventPublisher creates an EventPublisher.
//
// Parameters:
//   - pub: Connected publisher (usually *Client)
//   - topics: Topic builders for the configured prefix
//   - qos: QoS level for event messages
//
// Returns:
//   - *EventPublisher: Ready to be handed to a service
func NewEventPublisher(pub Publisher, topics Topics, qos byte) *EventPublisher {
	return &EventPublisher{
		pub:    pub,
		topics: topics,
		qos:    qos,
		newID:  func() string { return uuid.NewString() },
	}
}

// PublishCreated publishes a record-created event.
func (p *EventPublisher) PublishCreated(ctx context.Context, event masterdata.CreatedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(eventMessage{
		EventID:   p.newID(),
		Type:      "created",
		Entity:    event.Entity,
		ID:        event.ID,
		LangCode:  event.LangCode,
		CreatedBy: event.CreatedBy,
		CreatedAt: event.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", event.Entity, err)
	}

	if err := p.pub.Publish(p.topics.RecordCreated(event.Entity), payload, p.qos, false); err != nil {
		return fmt.Errorf("publishing %s event: %w", event.Entity, err)
	}
	return nil
}

var _ masterdata.EventPublisher = (*EventPublisher)(nil)
