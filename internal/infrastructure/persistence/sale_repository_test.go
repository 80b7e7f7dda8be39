package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/sales"
	"github.com/backoffice/backend/internal/domain/shared"
)

func seedSale(t *testing.T, repo *GormSaleRepository, tenantID uuid.UUID, transactionID *uuid.UUID) *sales.Sale {
	t.Helper()
	s, err := sales.NewSale(
		tenantID, time.Now(),
		uuid.New(), "Remera", uuid.New(), "M",
		decimal.NewFromInt(100), decimal.NewFromInt(60),
		sales.PaymentMethodCash, transactionID,
	)
	require.NoError(t, err)
	s.ClearDomainEvents()
	require.NoError(t, repo.Save(context.Background(), s))
	return s
}

func TestGormSaleRepository_FindByIDsForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first := seedSale(t, repo, tenantID, nil)
	second := seedSale(t, repo, tenantID, nil)

	t.Run("resolves the full batch", func(t *testing.T) {
		found, err := repo.FindByIDsForTenant(ctx, tenantID, []uuid.UUID{first.ID, second.ID})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("partial batch fails whole lookup", func(t *testing.T) {
		_, err := repo.FindByIDsForTenant(ctx, tenantID, []uuid.UUID{first.ID, uuid.New()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		_, err := repo.FindByIDsForTenant(ctx, uuid.New(), []uuid.UUID{first.ID})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSaleRepository_SaveWithLock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	s := seedSale(t, repo, tenantID, nil)
	exchangeID := uuid.New()

	require.NoError(t, s.VoidForExchange(exchangeID, nil))
	require.NoError(t, repo.SaveWithLock(ctx, s))

	found, err := repo.FindByIDForTenant(ctx, tenantID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.ExchangeStateVoided, found.ExchangeState)
	assert.True(t, found.Cost.Equal(found.Price), "voiding zeroes the line's profit")
	assert.Equal(t, 2, found.Version)

	// a writer working from the pre-void copy must conflict
	stale := *s
	stale.Version = 2 // claims the row was still at version 1
	err = repo.SaveWithLock(ctx, &stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormSaleRepository_FindByTransactionID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	transactionID := uuid.New()
	seedSale(t, repo, tenantID, &transactionID)
	seedSale(t, repo, tenantID, &transactionID)
	seedSale(t, repo, tenantID, nil)

	grouped, err := repo.FindByTransactionID(ctx, tenantID, transactionID)
	require.NoError(t, err)
	assert.Len(t, grouped, 2)
}

func TestGormSaleRepository_FilterByExchangeState(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	voided := seedSale(t, repo, tenantID, nil)
	require.NoError(t, voided.VoidForExchange(uuid.New(), nil))
	require.NoError(t, repo.SaveWithLock(ctx, voided))
	seedSale(t, repo, tenantID, nil)

	filter := shared.DefaultFilter()
	filter.Filters["exchange_state"] = string(sales.ExchangeStateVoided)

	found, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, voided.ID, found[0].ID)

	count, err := repo.CountForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormSaleRepository_DeleteForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	s := seedSale(t, repo, tenantID, nil)

	assert.ErrorIs(t, repo.DeleteForTenant(ctx, uuid.New(), s.ID), shared.ErrNotFound)
	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, s.ID))

	_, err := repo.FindByIDForTenant(ctx, tenantID, s.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
