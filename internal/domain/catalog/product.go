package catalog

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// SizeStock is a per-size stock counter belonging to a product.
// Quantity is kept in whole units; the conditional decrement in the
// repository is the authoritative guard against going negative.
type SizeStock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_size_stock_product_size,priority:1"`
	SizeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_size_stock_product_size,priority:2"`
	SizeName  string    `gorm:"type:varchar(50);not null"`
	Quantity  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (SizeStock) TableName() string {
	return "product_size_stocks"
}

// Product represents a sellable product with per-size stock.
// It is the aggregate root for catalog and inventory operations.
type Product struct {
	shared.TenantAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_code,priority:2"`
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Description string          `gorm:"type:text"`
	Brand       string          `gorm:"type:varchar(100);index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Selling price
	Cost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Purchase cost
	Images      string          `gorm:"type:jsonb"`                            // JSON array of image URLs
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`

	Sizes []SizeStock `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, code, name string, price, cost valueobject.Money) (*Product, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if price.IsNegative() || cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price and cost cannot be negative")
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Price:               price.Amount(),
		Cost:                cost.Amount(),
		Images:              "[]",
		Status:              ProductStatusActive,
		Sizes:               make([]SizeStock, 0),
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// SetPrices updates price and cost
func (p *Product) SetPrices(price, cost valueobject.Money) error {
	if price.IsNegative() || cost.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price and cost cannot be negative")
	}
	p.Price = price.Amount()
	p.Cost = cost.Amount()
	p.UpdatedAt = time.Now()
	return nil
}

// Margin returns the catalog margin (price - cost)
func (p *Product) Margin() decimal.Decimal {
	return p.Price.Sub(p.Cost)
}

// AddSize registers a size entry with an initial quantity
func (p *Product) AddSize(sizeID uuid.UUID, sizeName string, quantity int) (*SizeStock, error) {
	if sizeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size ID cannot be empty")
	}
	if sizeName == "" {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size name cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity cannot be negative")
	}
	for _, s := range p.Sizes {
		if s.SizeID == sizeID {
			return nil, shared.NewDomainError("DUPLICATE_SIZE", "Size already exists on product")
		}
	}

	now := time.Now()
	entry := SizeStock{
		ID:        uuid.New(),
		ProductID: p.ID,
		SizeID:    sizeID,
		SizeName:  sizeName,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Sizes = append(p.Sizes, entry)
	p.UpdatedAt = now
	return &p.Sizes[len(p.Sizes)-1], nil
}

// SizeByID returns the stock entry for a size, or nil
func (p *Product) SizeByID(sizeID uuid.UUID) *SizeStock {
	for idx := range p.Sizes {
		if p.Sizes[idx].SizeID == sizeID {
			return &p.Sizes[idx]
		}
	}
	return nil
}

// SizeByName returns the stock entry matching a size name, or nil
func (p *Product) SizeByName(sizeName string) *SizeStock {
	for idx := range p.Sizes {
		if p.Sizes[idx].SizeName == sizeName {
			return &p.Sizes[idx]
		}
	}
	return nil
}

// HasStock reports whether a size has at least one unit available
func (p *Product) HasStock(sizeID uuid.UUID) bool {
	s := p.SizeByID(sizeID)
	return s != nil && s.Quantity > 0
}

// AdjustStock applies a signed delta to a size's quantity.
// The in-memory guard mirrors the repository's conditional write so domain
// tests can exercise the same failure modes without a database.
func (p *Product) AdjustStock(sizeID uuid.UUID, delta int) error {
	s := p.SizeByID(sizeID)
	if s == nil {
		return shared.ErrSizeNotFound
	}
	if s.Quantity+delta < 0 {
		return shared.ErrInsufficientStock
	}
	s.Quantity += delta
	s.UpdatedAt = time.Now()
	p.UpdatedAt = s.UpdatedAt
	p.IncrementVersion()
	p.AddDomainEvent(NewProductStockAdjustedEvent(p, sizeID, delta, s.Quantity))
	return nil
}

// TotalStock returns the sum of all size quantities
func (p *Product) TotalStock() int {
	total := 0
	for _, s := range p.Sizes {
		total += s.Quantity
	}
	return total
}

// Deactivate marks the product inactive
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
}

// IsActive reports whether the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
