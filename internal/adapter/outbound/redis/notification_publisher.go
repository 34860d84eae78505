package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/collabhub/server/internal/infra/events"
	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
)

const publishTimeout = 2 * time.Second

// NotificationMessage is the JSON payload published for each collaboration event.
type NotificationMessage struct {
	EventID      uuid.UUID                  `json:"event_id"`
	Event        outbound.NotificationEvent `json:"event"`
	OccurredAt   time.Time                  `json:"occurred_at"`
	ID           uuid.UUID                  `json:"id"`
	CollabID     string                     `json:"collab_id"`
	Kind         model.CollaborationKind    `json:"kind"`
	Status       model.CollaborationStatus  `json:"status"`
	Title        string                     `json:"title"`
	Recipients   []uuid.UUID                `json:"recipients"`
	RequesterID  uuid.UUID                  `json:"requester_id"`
	FulfillerID  uuid.UUID                  `json:"fulfiller_id"`
	PaymentState model.PaymentStatus        `json:"payment_status,omitempty"`
}

// NotificationPublisher publishes collaboration events to a Redis pub/sub channel.
// It is registered on the event bus as a wildcard handler.
type NotificationPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewNotificationPublisher creates a publisher for the given channel.
func NewNotificationPublisher(client redis.UniversalClient, channel string) *NotificationPublisher {
	return &NotificationPublisher{client: client, channel: channel}
}

// Handles subscribes to every event type.
func (p *NotificationPublisher) Handles() []string {
	return []string{events.Wildcard}
}

// Handle publishes collaboration events and ignores everything else.
func (p *NotificationPublisher) Handle(event events.Event) error {
	ce, ok := event.(*events.CollaborationEvent)
	if !ok || ce.Collaboration == nil {
		return nil
	}

	payload, err := json.Marshal(messageFor(ce))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func messageFor(ce *events.CollaborationEvent) NotificationMessage {
	c := ce.Collaboration
	return NotificationMessage{
		EventID:      ce.EventID(),
		Event:        ce.Notification,
		OccurredAt:   ce.OccurredAt(),
		ID:           c.ID,
		CollabID:     c.CollabID,
		Kind:         c.Kind,
		Status:       c.Status,
		Title:        c.Title,
		Recipients:   []uuid.UUID{c.Requester.ID, c.Fulfiller.ID},
		RequesterID:  c.Requester.ID,
		FulfillerID:  c.Fulfiller.ID,
		PaymentState: c.PaymentStatus,
	}
}

var _ events.Handler = (*NotificationPublisher)(nil)
