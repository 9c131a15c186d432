package tenant

import (
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the tenant aggregate
const (
	EventTypeTenantCreated = "tenant.created"
	EventTypeTenantPurged  = "tenant.purged"
)

// TenantCreatedEvent is published when a new shop account is created
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	OwnerUID string `json:"owner_uid"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, t.ID, "Tenant", t.ID),
		Name:            t.Name,
		OwnerUID:        t.OwnerUID,
	}
}

// TenantPurgedEvent is published after a tenant and all owned records were
// hard-deleted
type TenantPurgedEvent struct {
	shared.BaseDomainEvent
	ActorUID string `json:"actor_uid"`
}

// NewTenantPurgedEvent creates a new TenantPurgedEvent
func NewTenantPurgedEvent(tenantID uuid.UUID, actorUID string) *TenantPurgedEvent {
	return &TenantPurgedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantPurged, tenantID, "Tenant", tenantID),
		ActorUID:        actorUID,
	}
}
