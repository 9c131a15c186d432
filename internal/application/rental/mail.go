package rental

import (
	"context"
	"time"

	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceiptSummary is the structured receipt block attached to a receipt mail
type ReceiptSummary struct {
	ReceiptNumber string `json:"receipt_number"`
	Methods       string `json:"methods"`
	TotalPaid     string `json:"total_paid"`
	Balance       string `json:"balance"`
	IssuedAt      string `json:"issued_at"`
}

// MailMessage is a fully-rendered outbound message payload. The core renders
// it and hands it off; delivery, bounces and retries belong to the external
// mail collaborator.
type MailMessage struct {
	To             string          `json:"to"`
	Subject        string          `json:"subject"`
	Body           string          `json:"body"`
	ReceiptSummary *ReceiptSummary `json:"receipt_summary,omitempty"`
}

// MailOutbox queues rendered messages for the external mail collaborator.
// The queued "mail document" pattern: enqueue writes a message row, a
// separate processor drains it.
type MailOutbox interface {
	Enqueue(ctx context.Context, tenantID uuid.UUID, msg MailMessage) error
}

// ReceiptEmailData feeds the receipt template
type ReceiptEmailData struct {
	BusinessName  string
	FooterNote    string
	RenterName    string
	RenterEmail   string
	ReceiptNumber string
	Methods       string
	AmountPaid    valueobject.Money
	Balance       valueobject.Money
	IssuedAt      time.Time
}

// ReminderEmailData feeds the reminder template
type ReminderEmailData struct {
	BusinessName string
	RenterName   string
	RenterEmail  string
	AmountDue    valueobject.Money
	DueDate      time.Time
	ChargeLabel  string
	Station      string
}

// TemplateRenderer renders outbound email payloads from template data
type TemplateRenderer interface {
	RenderReceipt(data ReceiptEmailData) (MailMessage, error)
	RenderReminder(data ReminderEmailData) (MailMessage, error)
}
