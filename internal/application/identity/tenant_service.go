package identity

import (
	"context"
	"fmt"
	"time"

	rentalapp "github.com/boothledger/backend/internal/application/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantResponse is the API shape of a shop account
type TenantResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ContactEmail      string    `json:"contact_email,omitempty"`
	ContactPhone      string    `json:"contact_phone,omitempty"`
	ReceiptPrefix     string    `json:"receipt_prefix"`
	ReceiptFooterNote string    `json:"receipt_footer_note,omitempty"`
	ThemeColor        string    `json:"theme_color,omitempty"`
	WeekStart         string    `json:"week_start"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToTenantResponse maps a tenant aggregate to its API shape. The receipt
// sequence counter is deliberately not exposed.
func ToTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:                t.ID,
		Name:              t.Name,
		ContactEmail:      t.ContactEmail,
		ContactPhone:      t.ContactPhone,
		ReceiptPrefix:     t.ReceiptPrefix,
		ReceiptFooterNote: t.ReceiptFooterNote,
		ThemeColor:        t.ThemeColor,
		WeekStart:         t.WeekStart.String(),
		Active:            t.Active,
		CreatedAt:         t.CreatedAt,
	}
}

// UpdateSettingsInput carries a partial settings update; nil fields are untouched
type UpdateSettingsInput struct {
	Name              *string
	ContactEmail      *string
	ContactPhone      *string
	ReceiptPrefix     *string
	ReceiptFooterNote *string
	ThemeColor        *string
	WeekStart         *string
}

// MailPurger removes a tenant's queued mail during a full purge
type MailPurger interface {
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}

// TenantService handles shop account lifecycle: creation, settings and the
// full data purge. One owner identity maps to at most one shop.
type TenantService struct {
	tenants tenant.Repository
	scope   rentalapp.TransactionScope
	mail    MailPurger
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenants tenant.Repository,
	scope rentalapp.TransactionScope,
	mail MailPurger,
	events shared.EventPublisher,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenants: tenants,
		scope:   scope,
		mail:    mail,
		events:  events,
		logger:  logger,
	}
}

// CreateShop creates a new shop account owned by the acting identity
func (s *TenantService) CreateShop(ctx context.Context, actor shared.Actor, name string) (*TenantResponse, error) {
	if existing, err := s.tenants.FindByOwnerUID(ctx, actor.UID); err == nil && existing != nil {
		return nil, shared.NewDomainError("SHOP_EXISTS", "This account already owns a shop")
	}

	shop, err := tenant.NewTenant(name, actor.UID, actor.Email)
	if err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}
	s.publishEvents(ctx, shop)

	s.logger.Info("shop created",
		zap.String("tenant_id", shop.ID.String()),
		zap.String("owner_uid", actor.UID))
	resp := ToTenantResponse(shop)
	return &resp, nil
}

// GetShop returns a shop by ID
func (s *TenantService) GetShop(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	shop, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(shop)
	return &resp, nil
}

// GetShopByOwner returns the shop owned by the acting identity
func (s *TenantService) GetShopByOwner(ctx context.Context, ownerUID string) (*TenantResponse, error) {
	shop, err := s.tenants.FindByOwnerUID(ctx, ownerUID)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(shop)
	return &resp, nil
}

// UpdateSettings applies a partial settings update to the shop. It takes the
// tenant row lock because the same row carries the receipt sequence counter:
// an unlocked read-modify-write here could revert a counter bump committed by
// a concurrent payment.
func (s *TenantService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, input UpdateSettingsInput) (*TenantResponse, error) {
	update := tenant.SettingsUpdate{
		Name:              input.Name,
		ContactEmail:      input.ContactEmail,
		ContactPhone:      input.ContactPhone,
		ReceiptPrefix:     input.ReceiptPrefix,
		ReceiptFooterNote: input.ReceiptFooterNote,
		ThemeColor:        input.ThemeColor,
	}
	if input.WeekStart != nil {
		ws := tenant.WeekStart(*input.WeekStart)
		update.WeekStart = &ws
	}

	var shop *tenant.Tenant
	err := s.scope.Execute(ctx, func(repos rentalapp.TransactionalRepositories) error {
		loaded, err := repos.Tenants().FindByIDForUpdate(ctx, tenantID)
		if err != nil {
			return err
		}
		if err := loaded.UpdateSettings(update); err != nil {
			return err
		}
		if err := repos.Tenants().Save(ctx, loaded); err != nil {
			return fmt.Errorf("failed to save tenant: %w", err)
		}
		shop = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToTenantResponse(shop)
	return &resp, nil
}

// PurgeShop hard-deletes the shop and every record it owns: renters, ledger
// entries, receipts, history and queued mail. The owned collections and the
// tenant row go in one transaction; the mail queue is drained afterwards and
// a failure there is logged, not surfaced, since the account is already gone.
func (s *TenantService) PurgeShop(ctx context.Context, tenantID uuid.UUID, actor shared.Actor) error {
	err := s.scope.Execute(ctx, func(repos rentalapp.TransactionalRepositories) error {
		if _, err := repos.Tenants().FindByIDForUpdate(ctx, tenantID); err != nil {
			return err
		}
		if err := repos.Ledger().DeleteAllForTenant(ctx, tenantID); err != nil {
			return fmt.Errorf("failed to delete ledger entries: %w", err)
		}
		if err := repos.Receipts().DeleteAllForTenant(ctx, tenantID); err != nil {
			return fmt.Errorf("failed to delete receipts: %w", err)
		}
		if err := repos.History().DeleteAllForTenant(ctx, tenantID); err != nil {
			return fmt.Errorf("failed to delete history: %w", err)
		}
		if err := repos.Renters().DeleteAllForTenant(ctx, tenantID); err != nil {
			return fmt.Errorf("failed to delete renters: %w", err)
		}
		if err := repos.Tenants().Delete(ctx, tenantID); err != nil {
			return fmt.Errorf("failed to delete tenant: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.mail != nil {
		if err := s.mail.DeleteAllForTenant(ctx, tenantID); err != nil {
			s.logger.Warn("failed to purge queued mail",
				zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}

	s.logger.Info("shop purged",
		zap.String("tenant_id", tenantID.String()),
		zap.String("actor", actor.UID))
	s.publish(ctx, tenant.NewTenantPurgedEvent(tenantID, actor.UID))
	return nil
}

func (s *TenantService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish domain event",
			zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

func (s *TenantService) publishEvents(ctx context.Context, shop *tenant.Tenant) {
	if s.events == nil {
		return
	}
	events := shop.GetDomainEvents()
	shop.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
