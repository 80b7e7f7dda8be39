package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/exchange"
	"github.com/backoffice/backend/internal/domain/shared"
)

// GormExchangeRepository implements ExchangeRepository using GORM
type GormExchangeRepository struct {
	db *gorm.DB
}

// NewGormExchangeRepository creates a new GormExchangeRepository
func NewGormExchangeRepository(db *gorm.DB) *GormExchangeRepository {
	return &GormExchangeRepository{db: db}
}

// FindByID finds an exchange by its ID
func (r *GormExchangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*exchange.Exchange, error) {
	var e exchange.Exchange
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByIDForTenant finds an exchange by ID within a tenant
func (r *GormExchangeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*exchange.Exchange, error) {
	var e exchange.Exchange
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAllForTenant finds all exchanges for a tenant matching the filter
func (r *GormExchangeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]exchange.Exchange, error) {
	var exchanges []exchange.Exchange
	query := r.db.WithContext(ctx).Model(&exchange.Exchange{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ExchangeSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&exchanges).Error; err != nil {
		return nil, err
	}
	return exchanges, nil
}

// CountForTenant counts exchanges for a tenant matching the filter
func (r *GormExchangeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&exchange.Exchange{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an exchange
func (r *GormExchangeRepository) Save(ctx context.Context, e *exchange.Exchange) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormExchangeRepository) SaveWithLock(ctx context.Context, e *exchange.Exchange) error {
	result := r.db.WithContext(ctx).
		Model(e).
		Where("id = ? AND version = ?", e.ID, e.Version-1).
		Updates(map[string]interface{}{
			"status":        e.Status,
			"cancel_reason": e.CancelReason,
			"version":       e.Version,
			"updated_at":    e.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes an exchange within a tenant
func (r *GormExchangeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&exchange.Exchange{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormExchangeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("notes ILIKE ?", keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "exchange_date_from":
			query = query.Where("exchange_date >= ?", value)
		case "exchange_date_to":
			query = query.Where("exchange_date <= ?", value)
		}
	}

	return query
}

// Ensure GormExchangeRepository implements ExchangeRepository
var _ exchange.ExchangeRepository = (*GormExchangeRepository)(nil)
