package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
)

func seedProduct(t *testing.T, repo *GormProductRepository, tenantID uuid.UUID, name string, quantity int) (*catalog.Product, uuid.UUID) {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, "SKU-"+name, name, valueobject.NewMoneyARSFromFloat(100), valueobject.NewMoneyARSFromFloat(60))
	require.NoError(t, err)
	sizeID := uuid.New()
	_, err = p.AddSize(sizeID, "M", quantity)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p, sizeID
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	p, sizeID := seedProduct(t, repo, tenantID, "Remera", 5)

	found, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Remera", found.Name)
	require.Len(t, found.Sizes, 1)
	assert.Equal(t, sizeID, found.Sizes[0].SizeID)
	assert.Equal(t, 5, found.Sizes[0].Quantity)

	byName, err := repo.FindByNameForTenant(ctx, tenantID, "Remera")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	_, err = repo.FindByIDForTenant(ctx, uuid.New(), p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "other tenants must not see the product")
}

func TestGormProductRepository_AdjustStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	p, sizeID := seedProduct(t, repo, tenantID, "Remera", 2)

	t.Run("applies signed deltas", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, tenantID, p.ID, sizeID, -2))
		require.NoError(t, repo.AdjustStock(ctx, tenantID, p.ID, sizeID, +1))

		found, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Sizes[0].Quantity)
	})

	t.Run("refuses to go negative", func(t *testing.T) {
		err := repo.AdjustStock(ctx, tenantID, p.ID, sizeID, -5)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		found, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Sizes[0].Quantity, "a failed adjustment must not move the counter")
	})

	t.Run("unknown size", func(t *testing.T) {
		err := repo.AdjustStock(ctx, tenantID, p.ID, uuid.New(), -1)
		assert.ErrorIs(t, err, shared.ErrSizeNotFound)
	})

	t.Run("wrong tenant cannot touch stock", func(t *testing.T) {
		err := repo.AdjustStock(ctx, uuid.New(), p.ID, sizeID, -1)
		assert.Error(t, err)
	})
}

func TestGormProductRepository_ListAndCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	seedProduct(t, repo, tenantID, "Remera", 5)
	seedProduct(t, repo, tenantID, "Pantalon", 3)
	seedProduct(t, repo, uuid.New(), "Ajena", 1)

	filter := shared.DefaultFilter()
	found, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	count, err := repo.CountForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormProductRepository_DeleteForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	p, _ := seedProduct(t, repo, tenantID, "Remera", 5)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, p.ID))

	_, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var orphanSizes int64
	require.NoError(t, db.Model(&catalog.SizeStock{}).Where("product_id = ?", p.ID).Count(&orphanSizes).Error)
	assert.Zero(t, orphanSizes)

	err = repo.DeleteForTenant(ctx, tenantID, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
