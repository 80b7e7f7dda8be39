package catalog

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository persists Product aggregates
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	// FindByNameForTenant resolves a product by its exact name. Historical
	// sales carry a denormalized name snapshot; voiding paths prefer the
	// stable ProductID and fall back to this lookup for legacy rows.
	FindByNameForTenant(ctx context.Context, tenantID uuid.UUID, name string) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// AdjustStock applies a signed delta to one size's quantity as a single
	// conditional write: the update only matches when the size row exists and
	// the resulting quantity stays non-negative. Zero rows matched is
	// translated to ErrSizeNotFound or ErrInsufficientStock.
	AdjustStock(ctx context.Context, tenantID, productID, sizeID uuid.UUID, delta int) error
}
