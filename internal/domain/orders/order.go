package orders

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the order lifecycle
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the value is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// OrderItem is one reserved line of an order. Price and cost are
// snapshotted at placement so later catalog edits do not move totals.
type OrderItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	SizeID      uuid.UUID       `json:"sizeId"`
	SizeName    string          `json:"sizeName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
}

// Order is a checkout reservation. Stock is decremented at placement and
// must be restored if the order is cancelled or swept after the
// reservation TTL elapses.
type Order struct {
	shared.TenantAggregateRoot
	Items          []OrderItem     `gorm:"type:jsonb;serializer:json;not null"`
	Status         Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreditApplied  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod  string          `gorm:"type:varchar(30);not null"`
	DocumentNumber string          `gorm:"type:varchar(20);index"`
	Phone          string          `gorm:"type:varchar(30)"`
	ClientName     string          `gorm:"type:varchar(200)"`
	TransactionID  *uuid.UUID      `gorm:"type:uuid;index"` // stamped on the sales created at payment
	PreferenceID   string          `gorm:"type:varchar(100)"`
	ReservedUntil  time.Time       `gorm:"not null;index"`
	PaidAt         *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order with the given reservation deadline
func NewOrder(
	tenantID uuid.UUID,
	items []OrderItem,
	paymentMethod string,
	documentNumber, phone, clientName string,
	reservedUntil time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Items:               items,
		Status:              StatusPending,
		Total:               total,
		CreditApplied:       decimal.Zero,
		PaymentMethod:       paymentMethod,
		DocumentNumber:      documentNumber,
		Phone:               phone,
		ClientName:          clientName,
		ReservedUntil:       reservedUntil,
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// ApplyCredit records store credit consumed against this order
func (o *Order) ApplyCredit(amount decimal.Decimal) error {
	if o.Status != StatusPending {
		return shared.ErrInvalidState
	}
	if amount.IsNegative() || amount.GreaterThan(o.AmountDue()) {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit applied cannot exceed the amount due")
	}
	o.CreditApplied = o.CreditApplied.Add(amount)
	return nil
}

// AmountDue is the total minus any credit already applied
func (o *Order) AmountDue() decimal.Decimal {
	return o.Total.Sub(o.CreditApplied)
}

// MarkPaid transitions a pending order to paid and stamps the sale group id
func (o *Order) MarkPaid(transactionID uuid.UUID, now time.Time) error {
	if o.Status != StatusPending {
		return shared.ErrInvalidState
	}
	o.Status = StatusPaid
	o.TransactionID = &transactionID
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// Cancel transitions a pending order to cancelled; callers restore stock
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.Status != StatusPending {
		return shared.ErrInvalidState
	}
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))
	return nil
}

// IsExpired reports whether the reservation deadline has passed
func (o *Order) IsExpired(now time.Time) bool {
	return o.Status == StatusPending && now.After(o.ReservedUntil)
}
