package event

import (
	"context"

	"github.com/boothledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler is a wildcard subscriber that writes one structured log
// line per domain event. It gives operators a flat activity feed across all
// tenants without touching the per-tenant history tables.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger.Named("activity")}
}

// Handle logs the event
func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice: the handler receives every event
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// Ensure ActivityLogHandler implements EventHandler
var _ shared.EventHandler = (*ActivityLogHandler)(nil)
