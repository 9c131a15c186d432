package notification

import (
	"context"
	"time"

	"github.com/boothledger/backend/internal/application/rental"
	"github.com/boothledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMailOutbox implements MailOutbox backed by the mail_messages table.
// Enqueue writes a fully-rendered row; this service never sends mail itself.
// Delivery belongs to an out-of-process drain worker that polls FindQueued,
// hands each message to the mail provider, and settles the row with MarkSent
// or MarkFailed. Those three methods are the worker's contract and have no
// in-process caller.
type GormMailOutbox struct {
	db *gorm.DB
}

// NewGormMailOutbox creates a new GormMailOutbox
func NewGormMailOutbox(db *gorm.DB) *GormMailOutbox {
	return &GormMailOutbox{db: db}
}

// Enqueue queues a rendered message for delivery
func (o *GormMailOutbox) Enqueue(ctx context.Context, tenantID uuid.UUID, msg rental.MailMessage) error {
	model := models.MailMessageModelFromMessage(tenantID, msg)
	return o.db.WithContext(ctx).Create(model).Error
}

// FindQueued returns up to limit queued messages, oldest first
func (o *GormMailOutbox) FindQueued(ctx context.Context, limit int) ([]*models.MailMessageModel, error) {
	var mailModels []*models.MailMessageModel
	if err := o.db.WithContext(ctx).
		Where("status = ?", models.MailStatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&mailModels).Error; err != nil {
		return nil, err
	}
	return mailModels, nil
}

// MarkSent records a successful handoff to the mail collaborator
func (o *GormMailOutbox) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return o.db.WithContext(ctx).
		Model(&models.MailMessageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     models.MailStatusSent,
			"sent_at":    now,
			"updated_at": now,
		}).Error
}

// MarkFailed records a failed handoff attempt
func (o *GormMailOutbox) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return o.db.WithContext(ctx).
		Model(&models.MailMessageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     models.MailStatusFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
			"updated_at": time.Now(),
		}).Error
}

// DeleteAllForTenant removes every queued and sent message for a tenant.
// Part of the full tenant purge.
func (o *GormMailOutbox) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return o.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.MailMessageModel{}).Error
}

// Ensure GormMailOutbox implements MailOutbox
var _ rental.MailOutbox = (*GormMailOutbox)(nil)
