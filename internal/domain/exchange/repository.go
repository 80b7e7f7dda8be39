package exchange

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExchangeRepository persists Exchange aggregates
type ExchangeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Exchange, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Exchange, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Exchange, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, e *Exchange) error
	SaveWithLock(ctx context.Context, e *Exchange) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
