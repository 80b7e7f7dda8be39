package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/sales"
	"github.com/backoffice/backend/internal/domain/shared"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDForTenant finds a sale by ID within a tenant
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDsForTenant resolves a batch of sales. A partial result set fails the
// whole lookup: batch operations must never run on a subset of what the
// caller asked for.
func (r *GormSaleRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]sales.Sale, error) {
	if len(ids) == 0 {
		return []sales.Sale{}, nil
	}
	var found []sales.Sale
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, shared.ErrNotFound
	}
	return found, nil
}

// FindAllForTenant finds all sales for a tenant matching the filter
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var ledger []sales.Sale
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&ledger).Error; err != nil {
		return nil, err
	}
	return ledger, nil
}

// FindByTransactionID finds the sibling sales of one grouped operation
func (r *GormSaleRepository) FindByTransactionID(ctx context.Context, tenantID, transactionID uuid.UUID) ([]sales.Sale, error) {
	var ledger []sales.Sale
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND transaction_id = ?", tenantID, transactionID).
		Order("created_at ASC").
		Find(&ledger).Error; err != nil {
		return nil, err
	}
	return ledger, nil
}

// CountForTenant counts sales for a tenant matching the filter
func (r *GormSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	result := r.db.WithContext(ctx).
		Model(sale).
		Where("id = ? AND version = ?", sale.ID, sale.Version-1).
		Updates(map[string]interface{}{
			"price":               sale.Price,
			"cost":                sale.Cost,
			"size_id":             sale.SizeID,
			"size_name":           sale.SizeName,
			"exchange_state":      sale.ExchangeState,
			"related_exchange_id": sale.RelatedExchangeID,
			"size_change":         sale.SizeChange,
			"swap_info":           sale.SwapInfo,
			"exchange_count":      sale.ExchangeCount,
			"version":             sale.Version,
			"updated_at":          sale.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes a sale within a tenant
func (r *GormSaleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&sales.Sale{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("product_name ILIKE ?", keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "exchange_state":
			query = query.Where("exchange_state = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "related_exchange_id":
			query = query.Where("related_exchange_id = ?", value)
		case "transaction_id":
			query = query.Where("transaction_id = ?", value)
		case "sale_date_from":
			query = query.Where("sale_date >= ?", value)
		case "sale_date_to":
			query = query.Where("sale_date <= ?", value)
		}
	}

	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
