package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/scubafy-dev/scubafy-backend/internal/events"
)

// AuditService writes a structured audit line for every access-relevant
// domain event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventStaffCodeVerified, a.handle)
	a.dispatcher.Subscribe(events.EventStaffCodeRejected, a.handle)
	a.dispatcher.Subscribe(events.EventCenterResolved, a.handle)
	a.dispatcher.Subscribe(events.EventStaffUpdated, a.handle)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
