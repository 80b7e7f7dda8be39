package sales

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated     = "SaleCreated"
	EventTypeSaleVoided      = "SaleVoidedByExchange"
	EventTypeSaleSizeChanged = "SaleSizeChanged"
)

// SaleCreatedEvent is published when a sale line is recorded
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Method      PaymentMethod   `json:"payment_method"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, sale.ID, sale.TenantID),
		SaleID:          sale.ID,
		ProductID:       sale.ProductID,
		ProductName:     sale.ProductName,
		Price:           sale.Price,
		Method:          sale.PaymentMethod,
	}
}

// SaleVoidedEvent is published when an exchange voids a sale's profit
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	ExchangeID uuid.UUID `json:"exchange_id"`
}

// NewSaleVoidedEvent creates a new SaleVoidedEvent
func NewSaleVoidedEvent(sale *Sale, exchangeID uuid.UUID) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, AggregateTypeSale, sale.ID, sale.TenantID),
		SaleID:          sale.ID,
		ExchangeID:      exchangeID,
	}
}

// SaleSizeChangedEvent is published when an exchange swaps a sale's size
type SaleSizeChangedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	ExchangeID uuid.UUID `json:"exchange_id"`
	FromSize   string    `json:"from_size"`
	ToSize     string    `json:"to_size"`
}

// NewSaleSizeChangedEvent creates a new SaleSizeChangedEvent
func NewSaleSizeChangedEvent(sale *Sale, exchangeID uuid.UUID) *SaleSizeChangedEvent {
	e := &SaleSizeChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleSizeChanged, AggregateTypeSale, sale.ID, sale.TenantID),
		SaleID:          sale.ID,
		ExchangeID:      exchangeID,
	}
	if sale.SizeChange != nil {
		e.FromSize = sale.SizeChange.OriginalSize
		e.ToSize = sale.SizeChange.NewSize
	}
	return e
}
