package rental

import (
	"time"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/google/uuid"
)

// RecordPaymentInput carries a payment submission
type RecordPaymentInput struct {
	AmountCents    int64
	Method         string
	Note           string
	EffectiveAt    *time.Time
	IdempotencyKey string // optional client-supplied double-submit guard
}

// AdjustmentInput carries a charge/fee/credit submission
type AdjustmentInput struct {
	Type        rental.EntryType
	AmountCents int64
	Note        string
	Method      string
	EffectiveAt *time.Time
}

// BatchChargeInput bills a group of renters, one independent transaction per
// renter. A nil AmountCents bills each renter's plan amount.
type BatchChargeInput struct {
	RenterIDs   []uuid.UUID
	AmountCents *int64
	Note        string
}

// BatchChargeFailure identifies a renter whose charge failed
type BatchChargeFailure struct {
	RenterID uuid.UUID `json:"renter_id"`
	Error    string    `json:"error"`
}

// BatchChargeResult aggregates per-renter outcomes of a batch charge
type BatchChargeResult struct {
	Succeeded        int                  `json:"succeeded"`
	Failed           int                  `json:"failed"`
	TotalBilledCents int64                `json:"total_billed_cents"`
	Failures         []BatchChargeFailure `json:"failures,omitempty"`
}

// LedgerEntryResponse is the API shape of a ledger entry
type LedgerEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	RenterID    uuid.UUID `json:"renter_id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	SignedCents int64     `json:"signed_cents"`
	Note        string    `json:"note,omitempty"`
	Method      string    `json:"method,omitempty"`
	ActorEmail  string    `json:"actor_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	EffectiveAt time.Time `json:"effective_at"`
}

// ToLedgerEntryResponse maps a domain ledger entry to its API shape
func ToLedgerEntryResponse(e *rental.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          e.ID,
		RenterID:    e.RenterID,
		Type:        e.Type.String(),
		AmountCents: e.Amount.Cents(),
		SignedCents: e.SignedAmount().Cents(),
		Note:        e.Note,
		Method:      e.Method,
		ActorEmail:  e.ActorEmail,
		CreatedAt:   e.CreatedAt,
		EffectiveAt: e.EffectiveAt,
	}
}

// ToLedgerEntryResponses maps a slice of domain ledger entries
func ToLedgerEntryResponses(entries []*rental.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToLedgerEntryResponse(e)
	}
	return out
}

// ReceiptResponse is the API shape of a receipt
type ReceiptResponse struct {
	ID            uuid.UUID                `json:"id"`
	RenterID      uuid.UUID                `json:"renter_id"`
	ReceiptNumber string                   `json:"receipt_number"`
	TotalCents    int64                    `json:"total_cents"`
	LineItems     []rental.ReceiptLineItem `json:"line_items"`
	IssuedAt      time.Time                `json:"issued_at"`
}

// ToReceiptResponse maps a domain receipt to its API shape
func ToReceiptResponse(r *rental.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            r.ID,
		RenterID:      r.RenterID,
		ReceiptNumber: r.ReceiptNumber,
		TotalCents:    r.Total.Cents(),
		LineItems:     r.LineItems,
		IssuedAt:      r.IssuedAt,
	}
}

// SideEffectWarning reports a failed post-commit side effect to the caller.
// The financial write already committed; the user may need to retry the
// receipt or notification manually.
type SideEffectWarning struct {
	Effect  string `json:"effect"`
	Message string `json:"message"`
}

// PaymentResult is the outcome of a payment recording
type PaymentResult struct {
	Entry           LedgerEntryResponse `json:"entry"`
	NewBalanceCents int64               `json:"new_balance_cents"`
	Status          rental.Status       `json:"status"`
	Receipt         *ReceiptResponse    `json:"receipt,omitempty"`
	Warnings        []SideEffectWarning `json:"warnings,omitempty"`
}

// AdjustmentResult is the outcome of a charge/fee/credit recording
type AdjustmentResult struct {
	Entry           LedgerEntryResponse `json:"entry"`
	NewBalanceCents int64               `json:"new_balance_cents"`
	Status          rental.Status       `json:"status"`
	Warnings        []SideEffectWarning `json:"warnings,omitempty"`
}

// RenterResponse is the API shape of a renter with its derived status
type RenterResponse struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email,omitempty"`
	Phone          string        `json:"phone,omitempty"`
	Station        string        `json:"station,omitempty"`
	Cadence        string        `json:"cadence"`
	RentCents      int64         `json:"rent_cents"`
	DueDay         string        `json:"due_day,omitempty"`
	BalanceCents   int64         `json:"balance_cents"`
	NextDueAt      time.Time     `json:"next_due_at"`
	Status         rental.Status `json:"status"`
	OnHold         bool          `json:"on_hold"`
	Active         bool          `json:"active"`
	LastRemindedAt *time.Time    `json:"last_reminded_at,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ToRenterResponse maps a domain renter plus its derived status
func ToRenterResponse(r *rental.Renter, status rental.Status) RenterResponse {
	return RenterResponse{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Station:        r.Station,
		Cadence:        r.Plan.Cadence.String(),
		RentCents:      r.Plan.Amount.Cents(),
		DueDay:         r.Plan.DueDay,
		BalanceCents:   r.Balance.Cents(),
		NextDueAt:      r.NextDueAt,
		Status:         status,
		OnHold:         r.OnHold,
		Active:         r.Active,
		LastRemindedAt: r.LastRemindedAt,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// HistoryEventResponse is the API shape of an audit log entry
type HistoryEventResponse struct {
	ID          uuid.UUID         `json:"id"`
	RenterID    uuid.UUID         `json:"renter_id,omitempty"`
	Action      string            `json:"action"`
	AmountCents int64             `json:"amount_cents,omitempty"`
	ActorEmail  string            `json:"actor_email,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ToHistoryEventResponse maps a domain history event to its API shape
func ToHistoryEventResponse(h *rental.HistoryEvent) HistoryEventResponse {
	return HistoryEventResponse{
		ID:          h.ID,
		RenterID:    h.RenterID,
		Action:      string(h.Action),
		AmountCents: h.Amount.Cents(),
		ActorEmail:  h.ActorEmail,
		Metadata:    h.Metadata,
		CreatedAt:   h.CreatedAt,
	}
}

// ToHistoryEventResponses maps a slice of domain history events
func ToHistoryEventResponses(events []*rental.HistoryEvent) []HistoryEventResponse {
	out := make([]HistoryEventResponse, len(events))
	for i, h := range events {
		out[i] = ToHistoryEventResponse(h)
	}
	return out
}

// SummaryResponse aggregates a tenant's dashboard counters
type SummaryResponse struct {
	RenterCount      int   `json:"renter_count"`
	OverdueCount     int   `json:"overdue_count"`
	PartialCount     int   `json:"partial_count"`
	PaidCount        int   `json:"paid_count"`
	OnHoldCount      int   `json:"on_hold_count"`
	OutstandingCents int64 `json:"outstanding_cents"`
}
