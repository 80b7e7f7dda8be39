package exchange

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeExchange = "Exchange"

// Event type constants
const (
	EventTypeExchangeCreated   = "ExchangeCreated"
	EventTypeExchangeCancelled = "ExchangeCancelled"
)

// ExchangeCreatedEvent is published when an exchange completes
type ExchangeCreatedEvent struct {
	shared.BaseDomainEvent
	ExchangeID      uuid.UUID       `json:"exchange_id"`
	ExchangeType    Type            `json:"exchange_type"`
	OriginalSaleIDs []uuid.UUID     `json:"original_sale_ids"`
	PriceDifference decimal.Decimal `json:"price_difference"`
}

// NewExchangeCreatedEvent creates a new ExchangeCreatedEvent
func NewExchangeCreatedEvent(e *Exchange) *ExchangeCreatedEvent {
	return &ExchangeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExchangeCreated, AggregateTypeExchange, e.ID, e.TenantID),
		ExchangeID:      e.ID,
		ExchangeType:    e.Type,
		OriginalSaleIDs: e.OriginalSaleIDs,
		PriceDifference: e.PriceDifference,
	}
}

// ExchangeCancelledEvent is published when an exchange is removed/cancelled
type ExchangeCancelledEvent struct {
	shared.BaseDomainEvent
	ExchangeID uuid.UUID `json:"exchange_id"`
	Reason     string    `json:"reason"`
}

// NewExchangeCancelledEvent creates a new ExchangeCancelledEvent
func NewExchangeCancelledEvent(e *Exchange) *ExchangeCancelledEvent {
	return &ExchangeCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExchangeCancelled, AggregateTypeExchange, e.ID, e.TenantID),
		ExchangeID:      e.ID,
		Reason:          e.CancelReason,
	}
}
