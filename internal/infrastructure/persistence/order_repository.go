package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/orders"
	"github.com/backoffice/backend/internal/domain/shared"
)

// GormOrderRepository implements orders.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	var o orders.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*orders.Order, error) {
	var o orders.Order
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll finds orders matching the filter, across tenants
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]orders.Order, error) {
	var found []orders.Order
	query := r.applyFilter(r.db.WithContext(ctx).Model(&orders.Order{}), filter)
	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// FindAllForTenant finds all orders for a tenant matching the filter
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]orders.Order, error) {
	var found []orders.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&orders.Order{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// FindExpiredPending returns pending orders whose reservation deadline has
// passed, across all tenants. The sweep runs without a tenant context.
func (r *GormOrderRepository) FindExpiredPending(ctx context.Context, before time.Time, limit int) ([]*orders.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var found []*orders.Order
	if err := r.db.WithContext(ctx).
		Where("status = ? AND reserved_until < ?", orders.StatusPending, before).
		Order("reserved_until ASC").
		Limit(limit).
		Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// FindByPreferenceID resolves an order from a gateway preference id
func (r *GormOrderRepository) FindByPreferenceID(ctx context.Context, preferenceID string) (*orders.Order, error) {
	if preferenceID == "" {
		return nil, shared.ErrNotFound
	}
	var o orders.Order
	if err := r.db.WithContext(ctx).
		Where("preference_id = ?", preferenceID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByStatusForTenant lists a tenant's orders in one status
func (r *GormOrderRepository) FindByStatusForTenant(ctx context.Context, tenantID uuid.UUID, status orders.Status, filter shared.Filter) ([]*orders.Order, error) {
	var found []*orders.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&orders.Order{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, o *orders.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *orders.Order) error {
	result := r.db.WithContext(ctx).
		Model(o).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]interface{}{
			"status":         o.Status,
			"credit_applied": o.CreditApplied,
			"transaction_id": o.TransactionID,
			"preference_id":  o.PreferenceID,
			"paid_at":        o.PaidAt,
			"cancelled_at":   o.CancelledAt,
			"cancel_reason":  o.CancelReason,
			"version":        o.Version,
			"updated_at":     o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes an order
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&orders.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&orders.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	return query
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("client_name ILIKE ? OR document_number ILIKE ?", keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "document_number":
			query = query.Where("document_number = ?", value)
		}
	}

	return query
}

// Ensure GormOrderRepository implements orders.Repository
var _ orders.Repository = (*GormOrderRepository)(nil)
