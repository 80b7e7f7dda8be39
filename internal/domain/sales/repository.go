package sales

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository persists Sale aggregates
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	// FindByIDsForTenant resolves a batch of sales. Missing IDs make the
	// whole lookup fail with ErrNotFound; massive exchanges must not run on
	// a partial set.
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, error)
	FindByTransactionID(ctx context.Context, tenantID, transactionID uuid.UUID) ([]Sale, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, sale *Sale) error
	// SaveWithLock persists the sale with a version-keyed conditional update.
	// A version mismatch surfaces as ErrConcurrencyConflict; this is what
	// turns two concurrent exchanges on one sale into a detectable conflict
	// instead of last-write-wins.
	SaveWithLock(ctx context.Context, sale *Sale) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
