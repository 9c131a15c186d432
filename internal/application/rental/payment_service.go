package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/boothledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RetryPolicy bounds the retry loop around serialization conflicts. Conflicts
// surface as shared.ErrTransactionConflict from the persistence layer.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy returns the standard retry policy for balance mutations
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: 50 * time.Millisecond}
}

// PaymentService handles all balance-mutating operations: payments, charges,
// fees, credits and batch billing. Every mutation appends a ledger entry and
// updates the renter's running balance in the same transaction. Receipts,
// audit events, notifications and event publication run after commit and
// never roll back a recorded payment.
type PaymentService struct {
	scope       TransactionScope
	renters     rental.RenterRepository
	ledger      rental.LedgerEntryRepository
	tenants     tenant.Repository
	renderer    TemplateRenderer
	outbox      MailOutbox
	events      shared.EventPublisher
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	retry       RetryPolicy
	logger      *zap.Logger
	nowFunc     func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	scope TransactionScope,
	renters rental.RenterRepository,
	ledger rental.LedgerEntryRepository,
	tenants tenant.Repository,
	renderer TemplateRenderer,
	outbox MailOutbox,
	events shared.EventPublisher,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		scope:       scope,
		renters:     renters,
		ledger:      ledger,
		tenants:     tenants,
		renderer:    renderer,
		outbox:      outbox,
		events:      events,
		idempotency: idempotency,
		idemConfig:  shared.DefaultIdempotencyConfig(),
		retry:       DefaultRetryPolicy(),
		logger:      logger,
		nowFunc:     time.Now,
	}
}

// WithClock replaces the service clock. Tests use it to pin derivations.
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.nowFunc = now
	return s
}

// WithRetryPolicy replaces the conflict retry policy
func (s *PaymentService) WithRetryPolicy(policy RetryPolicy) *PaymentService {
	s.retry = policy
	return s
}

// RecordPayment appends a payment entry and decrements the renter's balance
// atomically, then issues a receipt, writes the audit event and queues the
// receipt email. The financial write is the transaction; everything after
// commit is best effort and reported through Warnings.
func (s *PaymentService) RecordPayment(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor, input RecordPaymentInput) (*PaymentResult, error) {
	amount := valueobject.NewMoney(input.AmountCents)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	if dup, err := s.checkIdempotency(ctx, input.IdempotencyKey); err == nil && dup {
		return nil, shared.NewDomainError("DUPLICATE_REQUEST", "This payment was already recorded")
	}

	now := s.nowFunc()
	var (
		renter *rental.Renter
		entry  *rental.LedgerEntry
	)
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Renters().FindByIDForUpdate(ctx, tenantID, renterID)
		if err != nil {
			return err
		}

		e, err := rental.NewLedgerEntry(tenantID, renterID, rental.EntryTypePayment, amount, input.Note)
		if err != nil {
			return err
		}
		e.WithMethod(input.Method).WithActor(actor.UID, actor.Email)
		if input.EffectiveAt != nil {
			e.WithEffectiveAt(*input.EffectiveAt)
		}

		if err := r.ApplyEntry(e); err != nil {
			return err
		}
		r.ClearMarker()

		if err := repos.Ledger().Create(ctx, e); err != nil {
			return fmt.Errorf("failed to create ledger entry: %w", err)
		}
		if err := repos.Renters().Save(ctx, r); err != nil {
			return fmt.Errorf("failed to save renter: %w", err)
		}

		event := rental.NewHistoryEvent(tenantID, renterID, rental.ActionPaymentRecorded, actor.UID, actor.Email).
			WithAmount(amount).
			WithMetadata("method", input.Method)
		if err := repos.History().Create(ctx, event); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}

		renter, entry = r, e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.markProcessed(ctx, input.IdempotencyKey)
	s.publish(ctx, rental.NewLedgerEntryRecordedEvent(entry, renter.Balance))

	result := &PaymentResult{
		Entry:           ToLedgerEntryResponse(entry),
		NewBalanceCents: renter.Balance.Cents(),
		Status:          s.deriveStatus(ctx, renter, entry, now),
	}

	receipt, shop, err := s.issueReceipt(ctx, tenantID, renterID, actor, entry, now)
	if err != nil {
		s.logger.Warn("receipt issuance failed after payment commit",
			zap.String("renter_id", renterID.String()), zap.Error(err))
		result.Warnings = append(result.Warnings, SideEffectWarning{
			Effect:  "receipt",
			Message: "payment recorded but receipt could not be issued",
		})
		return result, nil
	}
	resp := ToReceiptResponse(receipt)
	result.Receipt = &resp
	s.publish(ctx, rental.NewReceiptIssuedEvent(receipt))

	if err := s.enqueueReceiptMail(ctx, shop, renter, entry, receipt); err != nil {
		s.logger.Warn("receipt email enqueue failed",
			zap.String("renter_id", renterID.String()), zap.Error(err))
		result.Warnings = append(result.Warnings, SideEffectWarning{
			Effect:  "mail",
			Message: "payment recorded but receipt email could not be queued",
		})
	}

	return result, nil
}

// AdjustBalance appends a charge, fee or credit entry and moves the renter's
// balance in the same transaction. Payments must go through RecordPayment.
func (s *PaymentService) AdjustBalance(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor, input AdjustmentInput) (*AdjustmentResult, error) {
	if !input.Type.IsValid() || input.Type == rental.EntryTypePayment {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Adjustment type must be charge, fee or credit")
	}
	amount := valueobject.NewMoney(input.AmountCents)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount must be positive")
	}

	now := s.nowFunc()
	var (
		renter *rental.Renter
		entry  *rental.LedgerEntry
	)
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Renters().FindByIDForUpdate(ctx, tenantID, renterID)
		if err != nil {
			return err
		}

		e, err := rental.NewLedgerEntry(tenantID, renterID, input.Type, amount, input.Note)
		if err != nil {
			return err
		}
		e.WithActor(actor.UID, actor.Email)
		if input.Method != "" {
			e.WithMethod(input.Method)
		}
		if input.EffectiveAt != nil {
			e.WithEffectiveAt(*input.EffectiveAt)
		}

		if err := r.ApplyEntry(e); err != nil {
			return err
		}
		if err := repos.Ledger().Create(ctx, e); err != nil {
			return fmt.Errorf("failed to create ledger entry: %w", err)
		}
		if err := repos.Renters().Save(ctx, r); err != nil {
			return fmt.Errorf("failed to save renter: %w", err)
		}

		event := rental.NewHistoryEvent(tenantID, renterID, historyActionFor(input.Type), actor.UID, actor.Email).
			WithAmount(amount)
		if err := repos.History().Create(ctx, event); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}

		renter, entry = r, e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, rental.NewLedgerEntryRecordedEvent(entry, renter.Balance))

	return &AdjustmentResult{
		Entry:           ToLedgerEntryResponse(entry),
		NewBalanceCents: renter.Balance.Cents(),
		Status:          s.deriveStatus(ctx, renter, entry, now),
	}, nil
}

// CreateBatchCharge bills each selected renter in its own independent
// transaction. One renter failing never rolls back the others; the result
// reports how many succeeded and how many failed, with per-renter reasons.
func (s *PaymentService) CreateBatchCharge(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, input BatchChargeInput) (*BatchChargeResult, error) {
	if len(input.RenterIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_BATCH", "Batch charge requires at least one renter")
	}

	result := &BatchChargeResult{}
	for _, renterID := range input.RenterIDs {
		billed, err := s.chargeOne(ctx, tenantID, renterID, actor, input)
		if err != nil {
			s.logger.Warn("batch charge failed for renter",
				zap.String("renter_id", renterID.String()), zap.Error(err))
			result.Failed++
			result.Failures = append(result.Failures, BatchChargeFailure{
				RenterID: renterID,
				Error:    err.Error(),
			})
			continue
		}
		result.Succeeded++
		result.TotalBilledCents += billed.Cents()
	}

	s.logger.Info("batch charge completed",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int64("total_billed_cents", result.TotalBilledCents))
	return result, nil
}

// chargeOne bills a single renter inside its own transaction. When no
// explicit amount is given the renter's plan amount is billed and the due
// date rolls forward one period.
func (s *PaymentService) chargeOne(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor, input BatchChargeInput) (valueobject.Money, error) {
	var (
		billed valueobject.Money
		entry  *rental.LedgerEntry
		renter *rental.Renter
	)
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Renters().FindByIDForUpdate(ctx, tenantID, renterID)
		if err != nil {
			return err
		}

		recurring := input.AmountCents == nil
		amount := r.Plan.Amount
		if !recurring {
			amount = valueobject.NewMoney(*input.AmountCents)
		}
		if !amount.IsPositive() {
			return shared.NewDomainError("INVALID_AMOUNT", "Charge amount must be positive")
		}

		note := input.Note
		if note == "" {
			note = "Booth rent"
		}
		e, err := rental.NewLedgerEntry(tenantID, renterID, rental.EntryTypeCharge, amount, note)
		if err != nil {
			return err
		}
		e.WithActor(actor.UID, actor.Email)

		if err := r.ApplyEntry(e); err != nil {
			return err
		}
		if recurring {
			r.AdvanceNextDue()
		}

		if err := repos.Ledger().Create(ctx, e); err != nil {
			return fmt.Errorf("failed to create ledger entry: %w", err)
		}
		if err := repos.Renters().Save(ctx, r); err != nil {
			return fmt.Errorf("failed to save renter: %w", err)
		}

		event := rental.NewHistoryEvent(tenantID, renterID, rental.ActionChargeCreated, actor.UID, actor.Email).
			WithAmount(amount).
			WithMetadata("batch", "true")
		if err := repos.History().Create(ctx, event); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}

		billed, entry, renter = amount, e, r
		return nil
	})
	if err != nil {
		return valueobject.Zero(), err
	}

	s.publish(ctx, rental.NewLedgerEntryRecordedEvent(entry, renter.Balance))
	return billed, nil
}

// EmailReceipt issues a fresh receipt for the renter's most recent payment
// and queues the receipt email. Used when the owner re-sends a receipt.
func (s *PaymentService) EmailReceipt(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor) (*ReceiptResponse, error) {
	renter, err := s.renters.FindByIDForTenant(ctx, tenantID, renterID)
	if err != nil {
		return nil, err
	}
	if renter.Email == "" {
		return nil, shared.NewDomainError("NO_EMAIL", "Renter has no email address on file")
	}

	payments, _, err := s.ledger.FindByRenter(ctx, tenantID, renterID, rental.LedgerEntryFilter{
		PageSize: 1,
		Type:     entryTypePtr(rental.EntryTypePayment),
	})
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, shared.NewDomainError("NO_PAYMENTS", "Renter has no payments to receipt")
	}
	latest := payments[0]

	now := s.nowFunc()
	receipt, shop, err := s.issueReceipt(ctx, tenantID, renterID, actor, latest, now)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, rental.NewReceiptIssuedEvent(receipt))

	if err := s.enqueueReceiptMail(ctx, shop, renter, latest, receipt); err != nil {
		return nil, shared.NewSideEffectError("mail", err)
	}

	resp := ToReceiptResponse(receipt)
	return &resp, nil
}

// issueReceipt allocates the next receipt number off the tenant row and
// persists the receipt, all in one transaction. The tenant row lock
// serializes concurrent allocations so numbers stay strictly monotonic.
func (s *PaymentService) issueReceipt(ctx context.Context, tenantID, renterID uuid.UUID, actor shared.Actor, entry *rental.LedgerEntry, now time.Time) (*rental.Receipt, *tenant.Tenant, error) {
	var (
		receipt *rental.Receipt
		shop    *tenant.Tenant
	)
	err := s.executeWithRetry(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Tenants().FindByIDForUpdate(ctx, tenantID)
		if err != nil {
			return err
		}
		number := t.AllocateReceiptNumber(now)
		if err := repos.Tenants().Save(ctx, t); err != nil {
			return fmt.Errorf("failed to persist receipt sequence: %w", err)
		}

		items := []rental.ReceiptLineItem{{
			Method:     entry.Method,
			Amount:     entry.Amount,
			Note:       entry.Note,
			RecordedAt: entry.CreatedAt,
		}}
		rc, err := rental.NewReceipt(tenantID, renterID, number, items)
		if err != nil {
			return err
		}
		if err := repos.Receipts().Create(ctx, rc); err != nil {
			return fmt.Errorf("failed to create receipt: %w", err)
		}

		event := rental.NewHistoryEvent(tenantID, renterID, rental.ActionReceiptIssued, actor.UID, actor.Email).
			WithAmount(rc.Total).
			WithMetadata("receipt_number", number)
		if err := repos.History().Create(ctx, event); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}

		receipt, shop = rc, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return receipt, shop, nil
}

func (s *PaymentService) enqueueReceiptMail(ctx context.Context, shop *tenant.Tenant, renter *rental.Renter, entry *rental.LedgerEntry, receipt *rental.Receipt) error {
	if renter.Email == "" {
		return nil
	}
	msg, err := s.renderer.RenderReceipt(ReceiptEmailData{
		BusinessName:  shop.Name,
		FooterNote:    shop.ReceiptFooterNote,
		RenterName:    renter.Name,
		RenterEmail:   renter.Email,
		ReceiptNumber: receipt.ReceiptNumber,
		Methods:       entry.Method,
		AmountPaid:    receipt.Total,
		Balance:       renter.Balance,
		IssuedAt:      receipt.IssuedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to render receipt email: %w", err)
	}
	return s.outbox.Enqueue(ctx, shop.ID, msg)
}

// deriveStatus computes the live status from the committed ledger. When the
// recent-payment read fails the just-written entry still feeds the rule, so
// a successful payment is never reported as OVERDUE.
func (s *PaymentService) deriveStatus(ctx context.Context, renter *rental.Renter, entry *rental.LedgerEntry, now time.Time) rental.Status {
	recent, err := s.ledger.FindRecentPayments(ctx, renter.TenantID, renter.ID, now, rental.RecentPaymentWindow)
	if err != nil {
		s.logger.Warn("recent payment lookup failed, deriving from current entry",
			zap.String("renter_id", renter.ID.String()), zap.Error(err))
		recent = []*rental.LedgerEntry{entry}
	}
	return rental.DisplayStatus(renter, recent, now)
}

// executeWithRetry retries the transaction on serialization conflicts with a
// linear backoff. Anything other than a conflict fails immediately.
func (s *PaymentService) executeWithRetry(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	var err error
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		err = s.scope.Execute(ctx, fn)
		if err == nil || !errors.Is(err, shared.ErrTransactionConflict) {
			return err
		}
		if attempt < s.retry.MaxAttempts {
			s.logger.Debug("transaction conflict, retrying",
				zap.Int("attempt", attempt), zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retry.Backoff * time.Duration(attempt)):
			}
		}
	}
	return err
}

// checkIdempotency reports whether the key was already processed. Store
// failures are logged and treated as not-processed so an unavailable store
// never blocks payments.
func (s *PaymentService) checkIdempotency(ctx context.Context, key string) (bool, error) {
	if key == "" || s.idempotency == nil || !s.idemConfig.Enabled {
		return false, nil
	}
	processed, err := s.idempotency.IsProcessed(ctx, key)
	if err != nil {
		s.logger.Warn("idempotency check failed, proceeding", zap.Error(err))
		return false, nil
	}
	return processed, nil
}

func (s *PaymentService) markProcessed(ctx context.Context, key string) {
	if key == "" || s.idempotency == nil || !s.idemConfig.Enabled {
		return
	}
	if _, err := s.idempotency.MarkProcessed(ctx, key, s.idemConfig.TTL); err != nil {
		s.logger.Warn("failed to mark idempotency key", zap.Error(err))
	}
}

func (s *PaymentService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish domain event",
			zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

func historyActionFor(entryType rental.EntryType) rental.ActionType {
	switch entryType {
	case rental.EntryTypeFee:
		return rental.ActionFeeCreated
	case rental.EntryTypeCredit:
		return rental.ActionCreditApplied
	default:
		return rental.ActionChargeCreated
	}
}

func entryTypePtr(t rental.EntryType) *rental.EntryType { return &t }
