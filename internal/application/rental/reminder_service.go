package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReminderResult is the outcome of a reminder transition
type ReminderResult struct {
	Status   rental.Status       `json:"status"`
	Warnings []SideEffectWarning `json:"warnings,omitempty"`
}

// ReminderService handles the owner-driven status transitions: sending rent
// reminders and flagging renters past due. These are metadata writes layered
// over the derived status; they never touch the balance or the ledger, so
// they run outside the balance transaction protocol.
type ReminderService struct {
	renters  rental.RenterRepository
	ledger   rental.LedgerEntryRepository
	tenants  tenant.Repository
	history  rental.HistoryEventRepository
	renderer TemplateRenderer
	outbox   MailOutbox
	events   shared.EventPublisher
	logger   *zap.Logger
	nowFunc  func() time.Time
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	renters rental.RenterRepository,
	ledger rental.LedgerEntryRepository,
	tenants tenant.Repository,
	history rental.HistoryEventRepository,
	renderer TemplateRenderer,
	outbox MailOutbox,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		renters:  renters,
		ledger:   ledger,
		tenants:  tenants,
		history:  history,
		renderer: renderer,
		outbox:   outbox,
		events:   events,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// WithClock replaces the service clock for tests
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.nowFunc = now
	return s
}

// SendReminder marks the renter as reminded and queues the reminder email.
// The marker is display-only and persisted through UpdateMarker, which writes
// only the marker columns: a reminder racing a payment may lose the marker
// (re-derivable) but can never touch the balance.
func (s *ReminderService) SendReminder(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor) (*ReminderResult, error) {
	renter, err := s.renters.FindByIDForTenant(ctx, tenantID, renterID)
	if err != nil {
		return nil, err
	}
	if renter.Deleted {
		return nil, shared.NewDomainError("RENTER_DELETED", "Cannot remind a deleted renter")
	}

	now := s.nowFunc()
	renter.MarkReminded(now)
	if err := s.renters.UpdateMarker(ctx, renter); err != nil {
		return nil, fmt.Errorf("failed to save renter: %w", err)
	}
	s.recordHistory(ctx, tenantID, renterID, rental.ActionReminderSent, actor, renter)
	s.publish(ctx, rental.NewReminderSentEvent(renter))

	result := &ReminderResult{Status: s.deriveStatus(ctx, renter, now)}
	if err := s.enqueueReminderMail(ctx, tenantID, renter); err != nil {
		s.logger.Warn("reminder email enqueue failed",
			zap.String("renter_id", renterID.String()), zap.Error(err))
		result.Warnings = append(result.Warnings, SideEffectWarning{
			Effect:  "mail",
			Message: "reminder recorded but email could not be queued",
		})
	}
	return result, nil
}

// MarkPastDue flags the renter past due for display and filtering
func (s *ReminderService) MarkPastDue(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor) (*ReminderResult, error) {
	renter, err := s.renters.FindByIDForTenant(ctx, tenantID, renterID)
	if err != nil {
		return nil, err
	}
	if renter.Deleted {
		return nil, shared.NewDomainError("RENTER_DELETED", "Cannot flag a deleted renter")
	}

	renter.MarkPastDue()
	if err := s.renters.UpdateMarker(ctx, renter); err != nil {
		return nil, fmt.Errorf("failed to save renter: %w", err)
	}
	s.recordHistory(ctx, tenantID, renterID, rental.ActionMarkedPastDue, actor, renter)

	return &ReminderResult{Status: s.deriveStatus(ctx, renter, s.nowFunc())}, nil
}

// ClearReminder resets the reminder marker back to the derived status
func (s *ReminderService) ClearReminder(ctx context.Context, tenantID, renterID uuid.UUID) (*ReminderResult, error) {
	renter, err := s.renters.FindByIDForTenant(ctx, tenantID, renterID)
	if err != nil {
		return nil, err
	}
	renter.ClearMarker()
	if err := s.renters.UpdateMarker(ctx, renter); err != nil {
		return nil, fmt.Errorf("failed to save renter: %w", err)
	}
	return &ReminderResult{Status: s.deriveStatus(ctx, renter, s.nowFunc())}, nil
}

func (s *ReminderService) enqueueReminderMail(ctx context.Context, tenantID uuid.UUID, renter *rental.Renter) error {
	if renter.Email == "" {
		return nil
	}
	shop, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load tenant: %w", err)
	}
	msg, err := s.renderer.RenderReminder(ReminderEmailData{
		BusinessName: shop.Name,
		RenterName:   renter.Name,
		RenterEmail:  renter.Email,
		AmountDue:    renter.Balance,
		DueDate:      renter.NextDueAt,
		ChargeLabel:  string(renter.Plan.Cadence) + " booth rent",
		Station:      renter.Station,
	})
	if err != nil {
		return fmt.Errorf("failed to render reminder email: %w", err)
	}
	return s.outbox.Enqueue(ctx, tenantID, msg)
}

// recordHistory appends the audit event. Reminder transitions are metadata
// writes, so a failed audit append is logged rather than failing the call.
func (s *ReminderService) recordHistory(ctx context.Context, tenantID, renterID uuid.UUID, action rental.ActionType, actor shared.Actor, renter *rental.Renter) {
	event := rental.NewHistoryEvent(tenantID, renterID, action, actor.UID, actor.Email).
		WithAmount(renter.Balance)
	if err := s.history.Create(ctx, event); err != nil {
		s.logger.Warn("failed to record history event",
			zap.String("action", string(action)), zap.Error(err))
	}
}

func (s *ReminderService) deriveStatus(ctx context.Context, renter *rental.Renter, now time.Time) rental.Status {
	recent, err := s.ledger.FindRecentPayments(ctx, renter.TenantID, renter.ID, now, rental.RecentPaymentWindow)
	if err != nil {
		s.logger.Warn("recent payment lookup failed",
			zap.String("renter_id", renter.ID.String()), zap.Error(err))
		recent = nil
	}
	return rental.DisplayStatus(renter, recent, now)
}

func (s *ReminderService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish domain event",
			zap.String("event_type", event.EventType()), zap.Error(err))
	}
}
