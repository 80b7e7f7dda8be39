package exchange

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/exchange"
	"github.com/backoffice/backend/internal/domain/sales"
)

// ==================== Requests ====================

// CreateExchangeRequest represents a single-item exchange request
type CreateExchangeRequest struct {
	OriginalSaleID          uuid.UUID `json:"original_sale_id" binding:"required"`
	NewProductID            uuid.UUID `json:"new_product_id" binding:"required"`
	NewSizeID               uuid.UUID `json:"new_size_id" binding:"required"`
	PaymentMethodDifference string    `json:"payment_method_difference" binding:"omitempty,oneof=cash transfer qr card not_applicable"`
	Notes                   string    `json:"notes" binding:"max=1000"`
	CreditAction            string    `json:"credit_action" binding:"omitempty,oneof=create_credit cash_return additional_product"`
	ClientDocument          string    `json:"client_document" binding:"omitempty,docnum"`
	ClientPhone             string    `json:"client_phone" binding:"max=30"`
	ClientName              string    `json:"client_name" binding:"max=200"`
}

// MassiveOriginalSaleInput references one original sale of a massive exchange
type MassiveOriginalSaleInput struct {
	SaleID uuid.UUID `json:"sale_id" binding:"required"`
}

// MassiveNewProductInput is one replacement item of a massive exchange
type MassiveNewProductInput struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	SizeID        uuid.UUID `json:"size_id" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"omitempty,oneof=cash transfer qr card not_applicable"`
}

// CreateMassiveExchangeRequest represents a batch exchange request
type CreateMassiveExchangeRequest struct {
	OriginalSales           []MassiveOriginalSaleInput `json:"original_sales" binding:"required,min=1"`
	NewProducts             []MassiveNewProductInput   `json:"new_products" binding:"required,min=1"`
	PaymentMethodDifference string                     `json:"payment_method_difference" binding:"omitempty,oneof=cash transfer qr card not_applicable"`
	Notes                   string                     `json:"notes" binding:"max=1000"`
	CreditAction            string                     `json:"credit_action" binding:"omitempty,oneof=create_credit cash_return additional_product"`
	ClientDocument          string                     `json:"client_document" binding:"omitempty,docnum"`
	ClientPhone             string                     `json:"client_phone" binding:"max=30"`
	ClientName              string                     `json:"client_name" binding:"max=200"`
}

// RemoveExchangeRequest represents an exchange removal request
type RemoveExchangeRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ExchangeListFilter represents filter options for the exchange list
type ExchangeListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Type     string `form:"type" binding:"omitempty,oneof=individual massive"`
	Status   string `form:"status" binding:"omitempty,oneof=completed pending cancelled"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Responses ====================

// ProductSnapshotResponse mirrors a stored product snapshot
type ProductSnapshotResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SizeName  string          `json:"size_name"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
}

// ExchangeResponse represents an exchange record
type ExchangeResponse struct {
	ID                      uuid.UUID                 `json:"id"`
	Type                    string                    `json:"type"`
	Status                  string                    `json:"status"`
	OriginalSaleIDs         []uuid.UUID               `json:"original_sale_ids"`
	OriginalItems           []ProductSnapshotResponse `json:"original_items"`
	NewItems                []ProductSnapshotResponse `json:"new_items"`
	OriginalTotal           decimal.Decimal           `json:"original_total"`
	NewTotal                decimal.Decimal           `json:"new_total"`
	PriceDifference         decimal.Decimal           `json:"price_difference"`
	PaymentMethodDifference string                    `json:"payment_method_difference"`
	ExchangeDate            time.Time                 `json:"exchange_date"`
	Notes                   string                    `json:"notes,omitempty"`
	CancelledAt             *time.Time                `json:"cancelled_at,omitempty"`
	CancelReason            string                    `json:"cancel_reason,omitempty"`
	CreatedAt               time.Time                 `json:"created_at"`
}

// SaleResponse represents a sale line touched or created by an exchange
type SaleResponse struct {
	ID                uuid.UUID       `json:"id"`
	SaleDate          time.Time       `json:"sale_date"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SizeName          string          `json:"size_name"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	Profit            decimal.Decimal `json:"profit"`
	PaymentMethod     string          `json:"payment_method"`
	ExchangeState     string          `json:"exchange_state"`
	RelatedExchangeID *uuid.UUID      `json:"related_exchange_id,omitempty"`
	TransactionID     *uuid.UUID      `json:"transaction_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CreditResponse represents a store credit created by an exchange
type CreditResponse struct {
	ID             uuid.UUID       `json:"id"`
	DocumentNumber string          `json:"document_number"`
	Phone          string          `json:"phone,omitempty"`
	ClientName     string          `json:"client_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateExchangeResponse is the composite result of a single-item exchange
type CreateExchangeResponse struct {
	Message            string           `json:"message"`
	Exchange           ExchangeResponse `json:"exchange"`
	NewSale            *SaleResponse    `json:"new_sale"`
	PriceDifference    decimal.Decimal  `json:"price_difference"`
	RequiresPayment    bool             `json:"requires_payment"`
	ClientCreditAmount decimal.Decimal  `json:"client_credit_amount"`
	CreditCreated      *CreditResponse  `json:"credit_created"`
}

// CreateMassiveExchangeResponse is the composite result of a massive exchange
type CreateMassiveExchangeResponse struct {
	Message            string           `json:"message"`
	Exchange           ExchangeResponse `json:"exchange"`
	NewSales           []SaleResponse   `json:"new_sales"`
	OriginalSalesCount int              `json:"original_sales_count"`
	NewSalesCount      int              `json:"new_sales_count"`
	PriceDifference    decimal.Decimal  `json:"price_difference"`
	CreditCreated      *CreditResponse  `json:"credit_created"`
}

// ==================== Converters ====================

func toSnapshotResponses(snapshots []sales.ProductSnapshot) []ProductSnapshotResponse {
	out := make([]ProductSnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		out[i] = ProductSnapshotResponse{
			ProductID: s.ProductID,
			Name:      s.Name,
			SizeName:  s.SizeName,
			Price:     s.Price,
			Cost:      s.Cost,
		}
	}
	return out
}

// ToExchangeResponse converts an Exchange to its response DTO
func ToExchangeResponse(e *exchange.Exchange) ExchangeResponse {
	return ExchangeResponse{
		ID:                      e.ID,
		Type:                    string(e.Type),
		Status:                  e.Status.String(),
		OriginalSaleIDs:         e.OriginalSaleIDs,
		OriginalItems:           toSnapshotResponses(e.OriginalItems),
		NewItems:                toSnapshotResponses(e.NewItems),
		OriginalTotal:           e.OriginalTotal,
		NewTotal:                e.NewTotal,
		PriceDifference:         e.PriceDifference,
		PaymentMethodDifference: e.PaymentMethodDifference.String(),
		ExchangeDate:            e.ExchangeDate,
		Notes:                   e.Notes,
		CancelledAt:             e.CancelledAt,
		CancelReason:            e.CancelReason,
		CreatedAt:               e.CreatedAt,
	}
}

// ToSaleResponse converts a Sale to its response DTO
func ToSaleResponse(s *sales.Sale) SaleResponse {
	return SaleResponse{
		ID:                s.ID,
		SaleDate:          s.SaleDate,
		ProductID:         s.ProductID,
		ProductName:       s.ProductName,
		SizeName:          s.SizeName,
		Price:             s.Price,
		Cost:              s.Cost,
		Profit:            s.Profit(),
		PaymentMethod:     s.PaymentMethod.String(),
		ExchangeState:     s.ExchangeState.String(),
		RelatedExchangeID: s.RelatedExchangeID,
		TransactionID:     s.TransactionID,
		CreatedAt:         s.CreatedAt,
	}
}

// ToCreditResponse converts a ClientCredit to its response DTO
func ToCreditResponse(c *credit.ClientCredit) CreditResponse {
	return CreditResponse{
		ID:             c.ID,
		DocumentNumber: c.DocumentNumber,
		Phone:          c.Phone,
		ClientName:     c.ClientName,
		Amount:         c.Amount,
		Reason:         c.Reason,
		Status:         c.Status.String(),
		CreatedAt:      c.CreatedAt,
	}
}
