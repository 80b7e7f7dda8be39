package orders

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeOrderPlaced    = "order.placed"
	EventTypeOrderPaid      = "order.paid"
	EventTypeOrderCancelled = "order.cancelled"
)

// OrderPlacedEvent is raised when a checkout reservation is created
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// NewOrderPlacedEvent creates an order placed event
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, "Order", o.ID, o.TenantID),
		Total:           o.Total,
		ItemCount:       len(o.Items),
	}
}

// OrderPaidEvent is raised when payment for an order is confirmed
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	Total         decimal.Decimal `json:"total"`
	CreditApplied decimal.Decimal `json:"creditApplied"`
}

// NewOrderPaidEvent creates an order paid event
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, "Order", o.ID, o.TenantID),
		Total:           o.Total,
		CreditApplied:   o.CreditApplied,
	}
}

// OrderCancelledEvent is raised when a pending order is cancelled or swept
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

// NewOrderCancelledEvent creates an order cancelled event
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, "Order", o.ID, o.TenantID),
		Reason:          reason,
	}
}
