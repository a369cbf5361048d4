package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/user-management-service/internal/events"
)

var auditedEvents = []events.EventType{
	events.EventUserRegistered,
	events.EventUserUpdated,
	events.EventUserDeleted,
	events.EventLoginSucceeded,
	events.EventLoginFailed,
	events.EventTokenRejected,
}

// StartAuditWorker subscribes the audit trail to the dispatcher. Every
// security-relevant event ends up as a structured log line.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	for _, eventType := range auditedEvents {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			audit.Info(string(event.Type),
				zap.String("event_id", event.ID),
				zap.String("subject", event.Subject),
				zap.Time("at", event.Timestamp),
				zap.Any("payload", event.Payload))
			return nil
		})
	}
}
