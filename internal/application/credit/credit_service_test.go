package credit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/shared"
)

// MockCreditRepository is a mock implementation of credit.Repository
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*credit.ClientCredit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credit.ClientCredit), args.Error(1)
}

func (m *MockCreditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]credit.ClientCredit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]credit.ClientCredit), args.Error(1)
}

func (m *MockCreditRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*credit.ClientCredit, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credit.ClientCredit), args.Error(1)
}

func (m *MockCreditRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]credit.ClientCredit, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]credit.ClientCredit), args.Error(1)
}

func (m *MockCreditRepository) FindActiveByClient(ctx context.Context, tenantID uuid.UUID, documentNumber, phone string) ([]*credit.ClientCredit, error) {
	args := m.Called(ctx, tenantID, documentNumber, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credit.ClientCredit), args.Error(1)
}

func (m *MockCreditRepository) FindByClient(ctx context.Context, tenantID uuid.UUID, documentNumber, phone string, filter shared.Filter) ([]*credit.ClientCredit, error) {
	args := m.Called(ctx, tenantID, documentNumber, phone, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credit.ClientCredit), args.Error(1)
}

func (m *MockCreditRepository) FindByExchangeForTenant(ctx context.Context, tenantID, exchangeID uuid.UUID) ([]*credit.ClientCredit, error) {
	args := m.Called(ctx, tenantID, exchangeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credit.ClientCredit), args.Error(1)
}

func (m *MockCreditRepository) Save(ctx context.Context, c *credit.ClientCredit) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCreditRepository) SaveWithLock(ctx context.Context, c *credit.ClientCredit) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCreditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCreditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func activeCredit(t *testing.T, tenantID uuid.UUID, amount int64) *credit.ClientCredit {
	t.Helper()
	c, err := credit.NewClientCredit(tenantID, "30123456", "", "Ana Gomez", decimal.NewFromInt(amount), "Saldo a favor", nil)
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestUseCreditsFIFO(t *testing.T) {
	// active credits [30, 50], use 40: the 30 goes in full, the 50 splits
	// into 10 used and 40 active, remaining balance is 40.
	tenantID := uuid.New()
	saleID := uuid.New()
	ctx := context.Background()

	repo := new(MockCreditRepository)
	service := NewService(NewNoOpTransactionScope(repo), repo)
	service.SetClock(func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) })

	first := activeCredit(t, tenantID, 30)
	second := activeCredit(t, tenantID, 50)

	repo.On("FindActiveByClient", ctx, tenantID, "30123456", "").
		Return([]*credit.ClientCredit{first, second}, nil)
	repo.On("SaveWithLock", ctx, first).Return(nil)
	repo.On("SaveWithLock", ctx, second).Return(nil)
	repo.On("Save", ctx, mock.AnythingOfType("*credit.ClientCredit")).Return(nil)

	resp, err := service.UseCredits(ctx, tenantID, UseCreditsRequest{
		DocumentNumber: "30123456",
		Amount:         decimal.NewFromInt(40),
		SaleID:         saleID,
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalUsed.Equal(decimal.NewFromInt(40)))
	require.Len(t, resp.UsedCredits, 2)
	assert.Equal(t, first.ID, resp.UsedCredits[0].CreditID)
	assert.True(t, resp.UsedCredits[0].AmountUsed.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.UsedCredits[1].AmountUsed.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.RemainingCredits.Equal(decimal.NewFromInt(40)))

	assert.Equal(t, credit.StatusUsed, first.Status)
	assert.Equal(t, credit.StatusActive, second.Status)
	assert.True(t, second.Amount.Equal(decimal.NewFromInt(40)))

	repo.AssertExpectations(t)
}

func TestUseCreditsInsufficientBalance(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	repo := new(MockCreditRepository)
	service := NewService(NewNoOpTransactionScope(repo), repo)

	first := activeCredit(t, tenantID, 30)

	repo.On("FindActiveByClient", ctx, tenantID, "30123456", "").
		Return([]*credit.ClientCredit{first}, nil)

	_, err := service.UseCredits(ctx, tenantID, UseCreditsRequest{
		DocumentNumber: "30123456",
		Amount:         decimal.NewFromInt(100),
		SaleID:         uuid.New(),
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientCredit)

	assert.Equal(t, credit.StatusActive, first.Status)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(30)))
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGrant(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	repo := new(MockCreditRepository)
	service := NewService(NewNoOpTransactionScope(repo), repo)

	repo.On("Save", ctx, mock.AnythingOfType("*credit.ClientCredit")).Return(nil)

	resp, err := service.Grant(ctx, tenantID, GrantCreditRequest{
		DocumentNumber: "30123456",
		ClientName:     "Ana Gomez",
		Amount:         decimal.NewFromInt(75),
		Reason:         "Compensacion por demora",
	})
	require.NoError(t, err)

	assert.Equal(t, "active", resp.Status)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(75)))
	repo.AssertExpectations(t)
}

func TestBalance(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	repo := new(MockCreditRepository)
	service := NewService(NewNoOpTransactionScope(repo), repo)

	repo.On("FindActiveByClient", ctx, tenantID, "30123456", "").
		Return([]*credit.ClientCredit{activeCredit(t, tenantID, 30), activeCredit(t, tenantID, 50)}, nil)

	resp, err := service.Balance(ctx, tenantID, "30123456", "")
	require.NoError(t, err)

	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 2, resp.ActiveCredits)

	_, err = service.Balance(ctx, tenantID, "", "")
	assert.Error(t, err)
}
