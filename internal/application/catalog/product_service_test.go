package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByNameForTenant(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, tenantID, productID, sizeID uuid.UUID, delta int) error {
	args := m.Called(ctx, tenantID, productID, sizeID, delta)
	return args.Error(0)
}

func TestProductCreate(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	repo := new(MockProductRepository)
	service := NewProductService(repo)

	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.Create(ctx, tenantID, CreateProductRequest{
		Code:  "rem-001",
		Name:  "Remera Basica",
		Brand: "Acme",
		Price: decimal.NewFromInt(100),
		Cost:  decimal.NewFromInt(60),
		Sizes: []SizeInput{
			{SizeName: "M", Quantity: 5},
			{SizeName: "L", Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "REM-001", resp.Code, "codes are stored uppercase")
	assert.True(t, resp.Margin.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 8, resp.TotalStock)
	require.Len(t, resp.Sizes, 2)
	repo.AssertExpectations(t)
}

func TestProductCreateRejectsDuplicateSize(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	service := NewProductService(new(MockProductRepository))

	_, err := service.Create(ctx, tenantID, CreateProductRequest{
		Code:  "REM-001",
		Name:  "Remera Basica",
		Price: decimal.NewFromInt(100),
		Cost:  decimal.NewFromInt(60),
		Sizes: []SizeInput{
			{SizeName: "M", Quantity: 5},
			{SizeName: "M", Quantity: 3},
		},
	})
	assert.Error(t, err)
}

func TestProductUpdatePrices(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	repo := new(MockProductRepository)
	service := NewProductService(repo)

	product, err := catalog.NewProduct(tenantID, "REM-001", "Remera Basica",
		valueobject.NewMoneyARSFromFloat(100), valueobject.NewMoneyARSFromFloat(60))
	require.NoError(t, err)

	repo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)

	newPrice := decimal.NewFromInt(120)
	resp, err := service.Update(ctx, tenantID, product.ID, UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.True(t, resp.Price.Equal(decimal.NewFromInt(120)))
	assert.True(t, resp.Cost.Equal(decimal.NewFromInt(60)), "cost untouched by a price-only update")
}

func TestProductAdjustStock(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	repo := new(MockProductRepository)
	service := NewProductService(repo)

	product, err := catalog.NewProduct(tenantID, "REM-001", "Remera Basica",
		valueobject.NewMoneyARSFromFloat(100), valueobject.NewMoneyARSFromFloat(60))
	require.NoError(t, err)
	sizeID := uuid.New()
	_, err = product.AddSize(sizeID, "M", 4)
	require.NoError(t, err)

	t.Run("delegates to the conditional write", func(t *testing.T) {
		repo.On("AdjustStock", ctx, tenantID, product.ID, sizeID, -2).Return(nil).Once()
		repo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil).Once()

		_, err := service.AdjustStock(ctx, tenantID, product.ID, AdjustStockRequest{SizeID: sizeID, Delta: -2})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("surfaces insufficient stock", func(t *testing.T) {
		repo.On("AdjustStock", ctx, tenantID, product.ID, sizeID, -10).Return(shared.ErrInsufficientStock).Once()

		_, err := service.AdjustStock(ctx, tenantID, product.ID, AdjustStockRequest{SizeID: sizeID, Delta: -10})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("surfaces missing size", func(t *testing.T) {
		ghost := uuid.New()
		repo.On("AdjustStock", ctx, tenantID, product.ID, ghost, 1).Return(shared.ErrSizeNotFound).Once()

		_, err := service.AdjustStock(ctx, tenantID, product.ID, AdjustStockRequest{SizeID: ghost, Delta: 1})
		assert.ErrorIs(t, err, shared.ErrSizeNotFound)
	})
}
