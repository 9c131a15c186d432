package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateRenterInput carries a new renter registration
type CreateRenterInput struct {
	Name      string
	Email     string
	Phone     string
	Station   string
	Cadence   string
	RentCents int64
	DueDay    string
	NextDueAt time.Time
	Notes     string
}

// UpdateRenterInput carries a partial renter update; nil fields are untouched
type UpdateRenterInput struct {
	Name      *string
	Email     *string
	Phone     *string
	Station   *string
	Cadence   *string
	RentCents *int64
	DueDay    *string
	NextDueAt *time.Time
	Notes     *string
	OnHold    *bool
}

// RenterService handles renter lifecycle and read operations. Status labels
// on responses are always derived live from balance and ledger; nothing here
// stores a status.
type RenterService struct {
	scope   TransactionScope
	renters rental.RenterRepository
	ledger  rental.LedgerEntryRepository
	history rental.HistoryEventRepository
	events  shared.EventPublisher
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewRenterService creates a new RenterService
func NewRenterService(
	scope TransactionScope,
	renters rental.RenterRepository,
	ledger rental.LedgerEntryRepository,
	history rental.HistoryEventRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *RenterService {
	return &RenterService{
		scope:   scope,
		renters: renters,
		ledger:  ledger,
		history: history,
		events:  events,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// WithClock replaces the service clock for tests
func (s *RenterService) WithClock(now func() time.Time) *RenterService {
	s.nowFunc = now
	return s
}

// CreateRenter registers a new renter with a zero balance
func (s *RenterService) CreateRenter(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, input CreateRenterInput) (*RenterResponse, error) {
	cadence := rental.Cadence(input.Cadence)
	if !cadence.IsValid() {
		return nil, shared.NewDomainError("INVALID_CADENCE", "Rent cadence must be weekly or monthly")
	}
	plan := rental.RentPlan{
		Cadence: cadence,
		Amount:  valueobject.NewMoney(input.RentCents),
		DueDay:  input.DueDay,
	}
	nextDue := input.NextDueAt
	if nextDue.IsZero() {
		nextDue = s.nowFunc()
	}

	renter, err := rental.NewRenter(tenantID, input.Name, input.Email, plan, nextDue)
	if err != nil {
		return nil, err
	}
	renter.Phone = input.Phone
	renter.Station = input.Station
	renter.Notes = input.Notes

	if err := s.renters.Save(ctx, renter); err != nil {
		return nil, fmt.Errorf("failed to save renter: %w", err)
	}
	s.recordHistory(ctx, tenantID, renter.ID, rental.ActionRenterCreated, actor)
	s.publishEvents(ctx, renter)

	resp := ToRenterResponse(renter, rental.StatusPaid)
	return &resp, nil
}

// GetRenter returns one renter with its live derived status
func (s *RenterService) GetRenter(ctx context.Context, tenantID, renterID uuid.UUID) (*RenterResponse, error) {
	renter, err := s.renters.FindByIDForTenant(ctx, tenantID, renterID)
	if err != nil {
		return nil, err
	}
	resp := ToRenterResponse(renter, s.deriveStatus(ctx, renter))
	return &resp, nil
}

// ListRenters returns the tenant's renters with derived statuses. A status
// filter is applied after derivation because status is never stored.
func (s *RenterService) ListRenters(ctx context.Context, tenantID uuid.UUID, filter rental.RenterFilter) ([]RenterResponse, int64, error) {
	renters, total, err := s.renters.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]RenterResponse, 0, len(renters))
	for _, renter := range renters {
		status := s.deriveStatus(ctx, renter)
		if filter.Status != nil && status != *filter.Status {
			continue
		}
		out = append(out, ToRenterResponse(renter, status))
	}
	if filter.Status != nil {
		total = int64(len(out))
	}
	return out, total, nil
}

// UpdateRenter applies a partial profile update
func (s *RenterService) UpdateRenter(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor, input UpdateRenterInput) (*RenterResponse, error) {
	renter, err := s.renters.FindByIDForTenant(ctx, tenantID, renterID)
	if err != nil {
		return nil, err
	}

	update := rental.ProfileUpdate{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Station:   input.Station,
		NextDueAt: input.NextDueAt,
		Notes:     input.Notes,
	}
	if input.Cadence != nil || input.RentCents != nil || input.DueDay != nil {
		plan := renter.Plan
		if input.Cadence != nil {
			plan.Cadence = rental.Cadence(*input.Cadence)
		}
		if input.RentCents != nil {
			plan.Amount = valueobject.NewMoney(*input.RentCents)
		}
		if input.DueDay != nil {
			plan.DueDay = *input.DueDay
		}
		update.Plan = &plan
	}
	if err := renter.UpdateProfile(update); err != nil {
		return nil, err
	}
	if input.OnHold != nil {
		if *input.OnHold {
			renter.PlaceOnHold()
		} else {
			renter.ReleaseHold()
		}
	}

	// Column-scoped so a profile edit cannot revert a payment committed
	// between the read above and this write.
	if err := s.renters.UpdateProfile(ctx, renter); err != nil {
		return nil, fmt.Errorf("failed to save renter: %w", err)
	}
	s.recordHistory(ctx, tenantID, renterID, rental.ActionRenterUpdated, actor)
	s.publish(ctx, rental.NewRenterUpdatedEvent(renter))

	resp := ToRenterResponse(renter, s.deriveStatus(ctx, renter))
	return &resp, nil
}

// SoftDeleteRenter hides the renter while keeping its financial history
func (s *RenterService) SoftDeleteRenter(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor) error {
	renter, err := s.renters.FindByIDForTenant(ctx, tenantID, renterID)
	if err != nil {
		return err
	}
	renter.SoftDelete()
	if err := s.renters.UpdateProfile(ctx, renter); err != nil {
		return fmt.Errorf("failed to save renter: %w", err)
	}
	s.recordHistory(ctx, tenantID, renterID, rental.ActionRenterDeleted, actor)
	s.publishEvents(ctx, renter)
	return nil
}

// HardDeleteRenter removes the renter and all of its owned records in one
// transaction: ledger entries, receipts and per-renter history go with it.
func (s *RenterService) HardDeleteRenter(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor) error {
	var deleted *rental.Renter
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		renter, err := repos.Renters().FindByIDForTenant(ctx, tenantID, renterID)
		if err != nil {
			return err
		}
		if err := repos.Ledger().DeleteAllForRenter(ctx, tenantID, renterID); err != nil {
			return fmt.Errorf("failed to delete ledger entries: %w", err)
		}
		if err := repos.Receipts().DeleteAllForRenter(ctx, tenantID, renterID); err != nil {
			return fmt.Errorf("failed to delete receipts: %w", err)
		}
		if err := repos.History().DeleteAllForRenter(ctx, tenantID, renterID); err != nil {
			return fmt.Errorf("failed to delete history: %w", err)
		}
		if err := repos.Renters().HardDelete(ctx, tenantID, renterID); err != nil {
			return fmt.Errorf("failed to delete renter: %w", err)
		}
		deleted = renter
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("renter hard-deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("renter_id", renterID.String()),
		zap.String("actor", actor.UID))
	s.publish(ctx, rental.NewRenterDeletedEvent(deleted, true))
	return nil
}

// ListLedger returns a renter's ledger entries, newest first
func (s *RenterService) ListLedger(ctx context.Context, tenantID, renterID uuid.UUID, filter rental.LedgerEntryFilter) ([]LedgerEntryResponse, int64, error) {
	if _, err := s.renters.FindByIDForTenant(ctx, tenantID, renterID); err != nil {
		return nil, 0, err
	}
	entries, total, err := s.ledger.FindByRenter(ctx, tenantID, renterID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToLedgerEntryResponses(entries), total, nil
}

// ListHistory returns the tenant's audit log, optionally scoped to one renter
func (s *RenterService) ListHistory(ctx context.Context, tenantID uuid.UUID, renterID *uuid.UUID, filter shared.Filter) ([]HistoryEventResponse, int64, error) {
	var (
		events []*rental.HistoryEvent
		total  int64
		err    error
	)
	if renterID != nil {
		events, total, err = s.history.FindByRenter(ctx, tenantID, *renterID, filter)
	} else {
		events, total, err = s.history.FindByTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, 0, err
	}
	return ToHistoryEventResponses(events), total, nil
}

// GetSummary aggregates the dashboard counters across all active renters
func (s *RenterService) GetSummary(ctx context.Context, tenantID uuid.UUID) (*SummaryResponse, error) {
	renters, _, err := s.renters.FindAllForTenant(ctx, tenantID, rental.RenterFilter{
		Filter: shared.Filter{Page: 1, PageSize: 1000},
	})
	if err != nil {
		return nil, err
	}

	summary := &SummaryResponse{}
	for _, renter := range renters {
		summary.RenterCount++
		if renter.Balance.IsPositive() {
			summary.OutstandingCents += renter.Balance.Cents()
		}
		switch s.deriveStatus(ctx, renter) {
		case rental.StatusPaid:
			summary.PaidCount++
		case rental.StatusPartial:
			summary.PartialCount++
		case rental.StatusOnHold:
			summary.OnHoldCount++
		case rental.StatusOverdue, rental.StatusPastDue, rental.StatusReminded:
			summary.OverdueCount++
		}
	}
	return summary, nil
}

func (s *RenterService) deriveStatus(ctx context.Context, renter *rental.Renter) rental.Status {
	now := s.nowFunc()
	recent, err := s.ledger.FindRecentPayments(ctx, renter.TenantID, renter.ID, now, rental.RecentPaymentWindow)
	if err != nil {
		s.logger.Warn("recent payment lookup failed",
			zap.String("renter_id", renter.ID.String()), zap.Error(err))
		recent = nil
	}
	return rental.DisplayStatus(renter, recent, now)
}

func (s *RenterService) recordHistory(ctx context.Context, tenantID, renterID uuid.UUID, action rental.ActionType, actor shared.Actor) {
	event := rental.NewHistoryEvent(tenantID, renterID, action, actor.UID, actor.Email)
	if err := s.history.Create(ctx, event); err != nil {
		s.logger.Warn("failed to record history event",
			zap.String("action", string(action)), zap.Error(err))
	}
}

func (s *RenterService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish domain event",
			zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

// publishEvents drains and publishes the aggregate's collected domain events
func (s *RenterService) publishEvents(ctx context.Context, renter *rental.Renter) {
	if s.events == nil {
		return
	}
	events := renter.GetDomainEvents()
	renter.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
