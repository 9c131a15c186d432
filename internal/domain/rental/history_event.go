package rental

import (
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ActionType identifies the owner action recorded in the audit log
type ActionType string

const (
	ActionPaymentRecorded ActionType = "payment_recorded"
	ActionChargeCreated   ActionType = "charge_created"
	ActionFeeCreated      ActionType = "fee_created"
	ActionCreditApplied   ActionType = "credit_applied"
	ActionReceiptIssued   ActionType = "receipt_issued"
	ActionReminderSent    ActionType = "reminder_sent"
	ActionMarkedPastDue   ActionType = "marked_past_due"
	ActionRenterCreated   ActionType = "renter_created"
	ActionRenterUpdated   ActionType = "renter_updated"
	ActionRenterDeleted   ActionType = "renter_deleted"
)

// HistoryEvent is an append-only audit record of a state-changing action.
// Events are never mutated or deleted except on full tenant purge.
type HistoryEvent struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	RenterID   uuid.UUID
	Action     ActionType
	Amount     valueobject.Money
	ActorUID   string
	ActorEmail string
	Metadata   map[string]string
}

// NewHistoryEvent creates a new audit log entry
func NewHistoryEvent(tenantID, renterID uuid.UUID, action ActionType, actorUID, actorEmail string) *HistoryEvent {
	return &HistoryEvent{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		RenterID:   renterID,
		Action:     action,
		ActorUID:   actorUID,
		ActorEmail: actorEmail,
		Metadata:   make(map[string]string),
	}
}

// WithAmount attaches the monetary amount involved in the action
func (h *HistoryEvent) WithAmount(amount valueobject.Money) *HistoryEvent {
	h.Amount = amount
	return h
}

// WithMetadata attaches a metadata key/value pair
func (h *HistoryEvent) WithMetadata(key, value string) *HistoryEvent {
	h.Metadata[key] = value
	return h
}
