package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides persistence for the Tenant aggregate
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	// FindByIDForUpdate loads the tenant with a row lock; only valid inside a
	// transaction scope. Receipt sequence allocation depends on it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByOwnerUID(ctx context.Context, ownerUID string) (*Tenant, error)
	Save(ctx context.Context, t *Tenant) error
	// Delete hard-deletes the tenant row. Owned collections are purged by the
	// tenant service inside the same transaction scope.
	Delete(ctx context.Context, id uuid.UUID) error
}
