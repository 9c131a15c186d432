package rental

import (
	"time"

	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceiptLineItem is a snapshot of a payment captured on a receipt
type ReceiptLineItem struct {
	Method     string            `json:"method"`
	Amount     valueobject.Money `json:"amount_cents"`
	Note       string            `json:"note"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// Receipt is issued at most once per triggering payment action. The receipt
// number comes from the tenant's sequence counter and never repeats within a
// tenant.
type Receipt struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	RenterID      uuid.UUID
	ReceiptNumber string
	Total         valueobject.Money
	LineItems     []ReceiptLineItem
	IssuedAt      time.Time
}

// NewReceipt creates a new receipt from the triggering payment line items
func NewReceipt(tenantID, renterID uuid.UUID, receiptNumber string, lineItems []ReceiptLineItem) (*Receipt, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if renterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RENTER", "Renter ID cannot be empty")
	}
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if len(lineItems) == 0 {
		return nil, shared.NewDomainError("INVALID_LINE_ITEMS", "Receipt requires at least one line item")
	}

	total := valueobject.Zero()
	for _, item := range lineItems {
		if !item.Amount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Line item amount must be positive")
		}
		total = total.Add(item.Amount)
	}

	return &Receipt{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		RenterID:      renterID,
		ReceiptNumber: receiptNumber,
		Total:         total,
		LineItems:     lineItems,
		IssuedAt:      time.Now(),
	}, nil
}
