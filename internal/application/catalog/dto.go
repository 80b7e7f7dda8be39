package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/catalog"
)

// SizeInput declares one size entry with its initial stock
type SizeInput struct {
	SizeID   uuid.UUID `json:"size_id"`
	SizeName string    `json:"size_name" binding:"required,min=1,max=50"`
	Quantity int       `json:"quantity" binding:"min=0"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code        string          `json:"code" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description"`
	Brand       string          `json:"brand" binding:"max=100"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Cost        decimal.Decimal `json:"cost" binding:"required"`
	Sizes       []SizeInput     `json:"sizes"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand" binding:"omitempty,max=100"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
}

// AdjustStockRequest applies a signed delta to one size's stock
type AdjustStockRequest struct {
	SizeID uuid.UUID `json:"size_id" binding:"required"`
	Delta  int       `json:"delta" binding:"required"`
}

// AddSizeRequest registers a new size entry on a product
type AddSizeRequest struct {
	SizeName string `json:"size_name" binding:"required,min=1,max=50"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Brand    string `form:"brand"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SizeStockResponse represents one size entry of a product
type SizeStockResponse struct {
	SizeID   uuid.UUID `json:"size_id"`
	SizeName string    `json:"size_name"`
	Quantity int       `json:"quantity"`
}

// ProductResponse represents a product
type ProductResponse struct {
	ID          uuid.UUID           `json:"id"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Brand       string              `json:"brand,omitempty"`
	CategoryID  *uuid.UUID          `json:"category_id,omitempty"`
	Price       decimal.Decimal     `json:"price"`
	Cost        decimal.Decimal     `json:"cost"`
	Margin      decimal.Decimal     `json:"margin"`
	Status      string              `json:"status"`
	Sizes       []SizeStockResponse `json:"sizes"`
	TotalStock  int                 `json:"total_stock"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToProductResponse converts a Product to its response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	sizes := make([]SizeStockResponse, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = SizeStockResponse{
			SizeID:   s.SizeID,
			SizeName: s.SizeName,
			Quantity: s.Quantity,
		}
	}
	return ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
		Cost:        p.Cost,
		Margin:      p.Margin(),
		Status:      string(p.Status),
		Sizes:       sizes,
		TotalStock:  p.TotalStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
