package events

import (
	"context"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
)

// AggregateCollaboration is the aggregate type of collaboration events.
const AggregateCollaboration = "Collaboration"

// CollaborationEvent is published after a successful collaboration transition.
type CollaborationEvent struct {
	BaseEvent
	Notification  outbound.NotificationEvent `json:"notification"`
	Collaboration *model.Collaboration       `json:"collaboration"`
}

// NewCollaborationEvent creates a collaboration event for the given notification.
func NewCollaborationEvent(n outbound.NotificationEvent, collab *model.Collaboration) *CollaborationEvent {
	return &CollaborationEvent{
		BaseEvent:     NewBaseEvent(EventTypeFor(n), collab.ID, AggregateCollaboration),
		Notification:  n,
		Collaboration: collab,
	}
}

// EventTypeFor returns the bus event type of a notification, e.g. "collaboration.offer_made".
func EventTypeFor(n outbound.NotificationEvent) string {
	return "collaboration." + string(n)
}

// BusNotifier implements outbound.NotifierPort by publishing on the bus.
type BusNotifier struct {
	bus *Bus
}

// NewBusNotifier creates a notifier backed by the event bus.
func NewBusNotifier(bus *Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

// Notify publishes the notification. Handler failures are logged by the bus.
func (n *BusNotifier) Notify(ctx context.Context, event outbound.NotificationEvent, collab *model.Collaboration) {
	if collab == nil {
		return
	}
	n.bus.Publish(NewCollaborationEvent(event, collab))
}

var _ outbound.NotifierPort = (*BusNotifier)(nil)
