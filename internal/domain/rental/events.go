package rental

import (
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
)

// Event types for the rental domain
const (
	EventTypeRenterCreated       = "rental.renter.created"
	EventTypeRenterUpdated       = "rental.renter.updated"
	EventTypeRenterDeleted       = "rental.renter.deleted"
	EventTypeLedgerEntryRecorded = "rental.ledger_entry.recorded"
	EventTypeReceiptIssued       = "rental.receipt.issued"
	EventTypeReminderSent        = "rental.reminder.sent"
)

// RenterCreatedEvent is published when a renter is added to a shop
type RenterCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewRenterCreatedEvent creates a new RenterCreatedEvent
func NewRenterCreatedEvent(r *Renter) *RenterCreatedEvent {
	return &RenterCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRenterCreated, r.ID, "Renter", r.TenantID),
		Name:            r.Name,
	}
}

// RenterUpdatedEvent is published when a renter's profile changes
type RenterUpdatedEvent struct {
	shared.BaseDomainEvent
}

// NewRenterUpdatedEvent creates a new RenterUpdatedEvent
func NewRenterUpdatedEvent(r *Renter) *RenterUpdatedEvent {
	return &RenterUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRenterUpdated, r.ID, "Renter", r.TenantID),
	}
}

// RenterDeletedEvent is published on soft or hard delete
type RenterDeletedEvent struct {
	shared.BaseDomainEvent
	Hard bool `json:"hard"`
}

// NewRenterDeletedEvent creates a new RenterDeletedEvent
func NewRenterDeletedEvent(r *Renter, hard bool) *RenterDeletedEvent {
	return &RenterDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRenterDeleted, r.ID, "Renter", r.TenantID),
		Hard:            hard,
	}
}

// LedgerEntryRecordedEvent is published after a ledger entry and the matching
// balance update commit. Subscribers re-derive the renter's status label from
// the new snapshot, mirroring the dashboard's re-render-on-notification model.
type LedgerEntryRecordedEvent struct {
	shared.BaseDomainEvent
	RenterID   string            `json:"renter_id"`
	EntryType  EntryType         `json:"entry_type"`
	Amount     valueobject.Money `json:"amount_cents"`
	NewBalance valueobject.Money `json:"new_balance_cents"`
}

// NewLedgerEntryRecordedEvent creates a new LedgerEntryRecordedEvent
func NewLedgerEntryRecordedEvent(entry *LedgerEntry, newBalance valueobject.Money) *LedgerEntryRecordedEvent {
	return &LedgerEntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryRecorded, entry.ID, "LedgerEntry", entry.TenantID),
		RenterID:        entry.RenterID.String(),
		EntryType:       entry.Type,
		Amount:          entry.Amount,
		NewBalance:      newBalance,
	}
}

// ReceiptIssuedEvent is published after a receipt is persisted
type ReceiptIssuedEvent struct {
	shared.BaseDomainEvent
	RenterID      string            `json:"renter_id"`
	ReceiptNumber string            `json:"receipt_number"`
	Total         valueobject.Money `json:"total_cents"`
}

// NewReceiptIssuedEvent creates a new ReceiptIssuedEvent
func NewReceiptIssuedEvent(r *Receipt) *ReceiptIssuedEvent {
	return &ReceiptIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptIssued, r.ID, "Receipt", r.TenantID),
		RenterID:        r.RenterID.String(),
		ReceiptNumber:   r.ReceiptNumber,
		Total:           r.Total,
	}
}

// ReminderSentEvent is published after a reminder transition
type ReminderSentEvent struct {
	shared.BaseDomainEvent
}

// NewReminderSentEvent creates a new ReminderSentEvent
func NewReminderSentEvent(r *Renter) *ReminderSentEvent {
	return &ReminderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReminderSent, r.ID, "Renter", r.TenantID),
	}
}
