package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/orders"
	"github.com/backoffice/backend/internal/domain/sales"
)

// OrderItemInput is one line of a checkout request
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	SizeID    uuid.UUID `json:"size_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest represents a checkout request
type PlaceOrderRequest struct {
	Items          []OrderItemInput `json:"items" binding:"required,min=1"`
	PaymentMethod  string           `json:"payment_method" binding:"required,oneof=cash transfer qr card"`
	DocumentNumber string           `json:"document_number" binding:"omitempty,docnum"`
	Phone          string           `json:"phone" binding:"max=30"`
	ClientName     string           `json:"client_name" binding:"max=200"`
	PayerEmail     string           `json:"payer_email" binding:"omitempty,email"`
	UseCredit      bool             `json:"use_credit"`
}

// OrderItemResponse is one reserved line of an order
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SizeID      uuid.UUID       `json:"size_id"`
	SizeName    string          `json:"size_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderResponse represents an order
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	Items          []OrderItemResponse `json:"items"`
	Status         string              `json:"status"`
	Total          decimal.Decimal     `json:"total"`
	CreditApplied  decimal.Decimal     `json:"credit_applied"`
	AmountDue      decimal.Decimal     `json:"amount_due"`
	PaymentMethod  string              `json:"payment_method"`
	DocumentNumber string              `json:"document_number,omitempty"`
	ClientName     string              `json:"client_name,omitempty"`
	TransactionID  *uuid.UUID          `json:"transaction_id,omitempty"`
	PreferenceID   string              `json:"preference_id,omitempty"`
	InitPoint      string              `json:"init_point,omitempty"`
	ReservedUntil  time.Time           `json:"reserved_until"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// SaleListFilter represents filter options for the sales ledger
type SaleListFilter struct {
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
	Search        string `form:"search"`
	ExchangeState string `form:"exchange_state" binding:"omitempty,oneof=normal voided_by_exchange created_by_exchange"`
	PaymentMethod string `form:"payment_method" binding:"omitempty,oneof=cash transfer qr card not_applicable"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleResponse represents one sales ledger line
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

// ToOrderResponse converts an Order to its response DTO
func ToOrderResponse(o *orders.Order, initPoint string) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SizeID:      item.SizeID,
			SizeName:    item.SizeName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		Items:          items,
		Status:         o.Status.String(),
		Total:          o.Total,
		CreditApplied:  o.CreditApplied,
		AmountDue:      o.AmountDue(),
		PaymentMethod:  o.PaymentMethod,
		DocumentNumber: o.DocumentNumber,
		ClientName:     o.ClientName,
		TransactionID:  o.TransactionID,
		PreferenceID:   o.PreferenceID,
		InitPoint:      initPoint,
		ReservedUntil:  o.ReservedUntil,
		PaidAt:         o.PaidAt,
		CancelledAt:    o.CancelledAt,
		CreatedAt:      o.CreatedAt,
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
