package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/orders"
	"github.com/backoffice/backend/internal/domain/shared"
)

func seedOrder(t *testing.T, repo *GormOrderRepository, tenantID uuid.UUID, reservedUntil time.Time) *orders.Order {
	t.Helper()
	o, err := orders.NewOrder(tenantID, []orders.OrderItem{{
		ProductID:   uuid.New(),
		ProductName: "Remera",
		SizeID:      uuid.New(),
		SizeName:    "M",
		Quantity:    1,
		Price:       decimal.NewFromInt(100),
		Cost:        decimal.NewFromInt(60),
	}}, "cash", "30123456", "", "Ana", reservedUntil)
	require.NoError(t, err)
	o.ClearDomainEvents()
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

func TestGormOrderRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	o := seedOrder(t, repo, tenantID, time.Now().Add(30*time.Minute))

	found, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Remera", found.Items[0].ProductName)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(100)))
}

func TestGormOrderRepository_FindExpiredPending(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	now := time.Now()

	tenantA := uuid.New()
	tenantB := uuid.New()
	expiredA := seedOrder(t, repo, tenantA, now.Add(-10*time.Minute))
	expiredB := seedOrder(t, repo, tenantB, now.Add(-5*time.Minute))
	seedOrder(t, repo, tenantA, now.Add(30*time.Minute))

	paid := seedOrder(t, repo, tenantA, now.Add(-time.Hour))
	require.NoError(t, paid.MarkPaid(uuid.New(), now))
	require.NoError(t, repo.SaveWithLock(ctx, paid))

	expired, err := repo.FindExpiredPending(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, expired, 2, "only pending orders past their deadline, across tenants")
	assert.Equal(t, expiredA.ID, expired[0].ID, "oldest deadline first")
	assert.Equal(t, expiredB.ID, expired[1].ID)

	limited, err := repo.FindExpiredPending(ctx, now, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	o := seedOrder(t, repo, tenantID, time.Now().Add(30*time.Minute))
	require.NoError(t, o.MarkPaid(uuid.New(), time.Now()))
	require.NoError(t, repo.SaveWithLock(ctx, o))

	found, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPaid, found.Status)
	require.NotNil(t, found.TransactionID)

	stale := *o
	stale.Version = 2 // row already moved past version 1
	err = repo.SaveWithLock(ctx, &stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormOrderRepository_FindByStatusForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	pending := seedOrder(t, repo, tenantID, time.Now().Add(30*time.Minute))
	cancelled := seedOrder(t, repo, tenantID, time.Now().Add(30*time.Minute))
	require.NoError(t, cancelled.Cancel("cliente arrepentido", time.Now()))
	require.NoError(t, repo.SaveWithLock(ctx, cancelled))

	found, err := repo.FindByStatusForTenant(ctx, tenantID, orders.StatusPending, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pending.ID, found[0].ID)
}
