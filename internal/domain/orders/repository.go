package orders

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for orders
type Repository interface {
	shared.TenantRepository[Order]

	// FindExpiredPending returns pending orders whose reservation deadline
	// is before the given instant, across all tenants, for the sweep.
	FindExpiredPending(ctx context.Context, before time.Time, limit int) ([]*Order, error)

	// FindByPreferenceID resolves an order from a gateway preference id
	FindByPreferenceID(ctx context.Context, preferenceID string) (*Order, error)

	// FindByStatusForTenant lists a tenant's orders in one status
	FindByStatusForTenant(ctx context.Context, tenantID uuid.UUID, status Status, filter shared.Filter) ([]*Order, error)

	// SaveWithLock persists the order with an optimistic version check
	SaveWithLock(ctx context.Context, o *Order) error
}
