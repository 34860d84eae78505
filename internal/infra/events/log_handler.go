package events

import (
	"go.uber.org/zap"
)

// LogHandler writes one structured log line per collaboration notification.
// It is the default delivery channel when nothing else is configured.
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a log handler.
func NewLogHandler(logger *zap.Logger) *LogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogHandler{logger: logger.Named("notify")}
}

// Handles subscribes to every event type.
func (h *LogHandler) Handles() []string {
	return []string{Wildcard}
}

// Handle logs collaboration events and ignores everything else.
func (h *LogHandler) Handle(event Event) error {
	ce, ok := event.(*CollaborationEvent)
	if !ok || ce.Collaboration == nil {
		return nil
	}
	c := ce.Collaboration
	h.logger.Info("collaboration notification",
		zap.String("event", string(ce.Notification)),
		zap.String("event_id", ce.EventID().String()),
		zap.String("collab_id", c.CollabID),
		zap.String("kind", c.Kind.String()),
		zap.String("status", c.Status.String()),
		zap.String("requester_id", c.Requester.ID.String()),
		zap.String("fulfiller_id", c.Fulfiller.ID.String()),
	)
	return nil
}
