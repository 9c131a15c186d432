package models

import (
	"time"

	rental "github.com/boothledger/backend/internal/application/rental"
	"github.com/google/uuid"
)

// Mail message delivery states.
const (
	MailStatusQueued = "queued"
	MailStatusSent   = "sent"
	MailStatusFailed = "failed"
)

// MailMessageModel is the persistence model for queued outbound mail.
// Messages are written fully rendered; the drain worker only moves them
// through the status lifecycle.
type MailMessageModel struct {
	BaseModel
	TenantID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_mail_tenant"`
	ToAddress      string                 `gorm:"type:varchar(255);not null"`
	Subject        string                 `gorm:"type:varchar(500);not null"`
	Body           string                 `gorm:"type:text;not null"`
	ReceiptSummary *rental.ReceiptSummary `gorm:"type:jsonb;serializer:json"`
	Status         string                 `gorm:"type:varchar(10);not null;default:'queued';index:idx_mail_status"`
	Attempts       int                    `gorm:"not null;default:0"`
	LastError      string                 `gorm:"type:varchar(1000)"`
	SentAt         *time.Time             `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (MailMessageModel) TableName() string {
	return "mail_messages"
}

// ToMessage converts the persistence model to the rendered message payload.
func (m *MailMessageModel) ToMessage() rental.MailMessage {
	return rental.MailMessage{
		To:             m.ToAddress,
		Subject:        m.Subject,
		Body:           m.Body,
		ReceiptSummary: m.ReceiptSummary,
	}
}

// MailMessageModelFromMessage creates a queued persistence model from a rendered message.
func MailMessageModelFromMessage(tenantID uuid.UUID, msg rental.MailMessage) *MailMessageModel {
	now := time.Now()
	return &MailMessageModel{
		BaseModel: BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:       tenantID,
		ToAddress:      msg.To,
		Subject:        msg.Subject,
		Body:           msg.Body,
		ReceiptSummary: msg.ReceiptSummary,
		Status:         MailStatusQueued,
	}
}
