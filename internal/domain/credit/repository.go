package credit

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for client credits
type Repository interface {
	shared.TenantRepository[ClientCredit]

	// FindActiveByClient returns the client's active credits ordered by
	// CreatedAt ascending, matching by document number or phone.
	FindActiveByClient(ctx context.Context, tenantID uuid.UUID, documentNumber, phone string) ([]*ClientCredit, error)

	// FindByClient returns every credit for the client regardless of status
	FindByClient(ctx context.Context, tenantID uuid.UUID, documentNumber, phone string, filter shared.Filter) ([]*ClientCredit, error)

	// FindByExchangeForTenant returns credits granted by a given exchange
	FindByExchangeForTenant(ctx context.Context, tenantID, exchangeID uuid.UUID) ([]*ClientCredit, error)

	// SaveWithLock persists the credit with an optimistic version check
	SaveWithLock(ctx context.Context, c *ClientCredit) error
}
