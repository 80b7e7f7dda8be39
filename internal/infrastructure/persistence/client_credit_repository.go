package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/shared"
)

// GormClientCreditRepository implements credit.Repository using GORM
type GormClientCreditRepository struct {
	db *gorm.DB
}

// NewGormClientCreditRepository creates a new GormClientCreditRepository
func NewGormClientCreditRepository(db *gorm.DB) *GormClientCreditRepository {
	return &GormClientCreditRepository{db: db}
}

// FindByID finds a credit by its ID
func (r *GormClientCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*credit.ClientCredit, error) {
	var c credit.ClientCredit
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByIDForTenant finds a credit by ID within a tenant
func (r *GormClientCreditRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*credit.ClientCredit, error) {
	var c credit.ClientCredit
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds credits matching the filter, across tenants
func (r *GormClientCreditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]credit.ClientCredit, error) {
	var credits []credit.ClientCredit
	query := r.applyFilter(r.db.WithContext(ctx).Model(&credit.ClientCredit{}), filter)
	if err := query.Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// FindAllForTenant finds all credits for a tenant matching the filter
func (r *GormClientCreditRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]credit.ClientCredit, error) {
	var credits []credit.ClientCredit
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&credit.ClientCredit{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// FindActiveByClient returns the client's active credits ordered oldest first.
// The ordering is what makes consumption first-in first-out.
func (r *GormClientCreditRepository) FindActiveByClient(ctx context.Context, tenantID uuid.UUID, documentNumber, phone string) ([]*credit.ClientCredit, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, credit.StatusActive)
	query = applyClientMatch(query, documentNumber, phone)

	var credits []*credit.ClientCredit
	if err := query.Order("created_at ASC").Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// FindByClient returns every credit for the client regardless of status
func (r *GormClientCreditRepository) FindByClient(ctx context.Context, tenantID uuid.UUID, documentNumber, phone string, filter shared.Filter) ([]*credit.ClientCredit, error) {
	query := r.db.WithContext(ctx).Model(&credit.ClientCredit{}).
		Where("tenant_id = ?", tenantID)
	query = applyClientMatch(query, documentNumber, phone)
	query = r.applyFilter(query, filter)

	var credits []*credit.ClientCredit
	if err := query.Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// FindByExchangeForTenant returns credits granted by a given exchange
func (r *GormClientCreditRepository) FindByExchangeForTenant(ctx context.Context, tenantID, exchangeID uuid.UUID) ([]*credit.ClientCredit, error) {
	var credits []*credit.ClientCredit
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND related_exchange_id = ?", tenantID, exchangeID).
		Order("created_at ASC").
		Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// Save creates or updates a credit
func (r *GormClientCreditRepository) Save(ctx context.Context, c *credit.ClientCredit) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormClientCreditRepository) SaveWithLock(ctx context.Context, c *credit.ClientCredit) error {
	result := r.db.WithContext(ctx).
		Model(c).
		Where("id = ? AND version = ?", c.ID, c.Version-1).
		Updates(map[string]interface{}{
			"amount":          c.Amount,
			"status":          c.Status,
			"used_in_sale_id": c.UsedInSaleID,
			"used_at":         c.UsedAt,
			"expires_at":      c.ExpiresAt,
			"version":         c.Version,
			"updated_at":      c.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a credit
func (r *GormClientCreditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&credit.ClientCredit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts credits matching the filter
func (r *GormClientCreditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&credit.ClientCredit{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormClientCreditRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, CreditSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	return query
}

func (r *GormClientCreditRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("client_name ILIKE ? OR document_number ILIKE ?", keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "document_number":
			query = query.Where("document_number = ?", value)
		case "related_exchange_id":
			query = query.Where("related_exchange_id = ?", value)
		}
	}

	return query
}

// applyClientMatch narrows a query to one client, matching by document number
// when present and falling back to phone.
func applyClientMatch(query *gorm.DB, documentNumber, phone string) *gorm.DB {
	switch {
	case documentNumber != "" && phone != "":
		return query.Where("document_number = ? OR phone = ?", documentNumber, phone)
	case documentNumber != "":
		return query.Where("document_number = ?", documentNumber)
	default:
		return query.Where("phone = ?", phone)
	}
}

// Ensure GormClientCreditRepository implements credit.Repository
var _ credit.Repository = (*GormClientCreditRepository)(nil)
