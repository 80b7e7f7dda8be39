package exchange

import (
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/domain/sales"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type distinguishes single-item from massive exchanges
type Type string

const (
	TypeIndividual Type = "individual"
	TypeMassive    Type = "massive"
)

// Status represents the lifecycle state of an exchange
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Exchange is one return-and-replace record. Immutable once completed
// except for status; PriceDifference is computed exactly once at creation
// and never recomputed.
type Exchange struct {
	shared.TenantAggregateRoot
	Type            Type                  `gorm:"type:varchar(20);not null"`
	Status          Status                `gorm:"type:varchar(20);not null;default:'completed';index"`
	OriginalSaleIDs []uuid.UUID           `gorm:"type:jsonb;serializer:json"`
	OriginalItems   []sales.ProductSnapshot `gorm:"type:jsonb;serializer:json"`
	NewItems        []sales.ProductSnapshot `gorm:"type:jsonb;serializer:json"`
	OriginalTotal   decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	NewTotal        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PriceDifference decimal.Decimal       `gorm:"type:decimal(18,4);not null"` // NewTotal - OriginalTotal
	PaymentMethodDifference sales.PaymentMethod `gorm:"type:varchar(20);not null;default:'not_applicable'"`
	ExchangeDate    time.Time             `gorm:"not null;index"`
	Notes           string                `gorm:"type:text"`
	// AppliedStockMoves records the stock effects this exchange caused, so
	// removal can compensate them exactly.
	AppliedStockMoves []StockMove `gorm:"type:jsonb;serializer:json"`
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Exchange) TableName() string {
	return "exchanges"
}

// NewIndividualExchange creates the record for a single-item exchange
func NewIndividualExchange(
	tenantID uuid.UUID,
	originalSale *sales.Sale,
	newItem sales.ProductSnapshot,
	paymentMethodDifference sales.PaymentMethod,
	notes string,
) (*Exchange, error) {
	if originalSale == nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Original sale cannot be nil")
	}
	if !paymentMethodDifference.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+paymentMethodDifference.String())
	}

	original := originalSale.Snapshot()
	e := &Exchange{
		TenantAggregateRoot:     shared.NewTenantAggregateRoot(tenantID),
		Type:                    TypeIndividual,
		Status:                  StatusCompleted,
		OriginalSaleIDs:         []uuid.UUID{originalSale.ID},
		OriginalItems:           []sales.ProductSnapshot{original},
		NewItems:                []sales.ProductSnapshot{newItem},
		OriginalTotal:           original.Price,
		NewTotal:                newItem.Price,
		PriceDifference:         newItem.Price.Sub(original.Price),
		PaymentMethodDifference: paymentMethodDifference,
		ExchangeDate:            time.Now(),
		Notes:                   notes,
	}

	e.AddDomainEvent(NewExchangeCreatedEvent(e))

	return e, nil
}

// NewMassiveExchange creates the record summarizing a whole batch. Per-item
// detail lives only in the new sale records; the exchange itself carries
// placeholder names.
func NewMassiveExchange(
	tenantID uuid.UUID,
	originals []sales.Sale,
	newItems []sales.ProductSnapshot,
	paymentMethodDifference sales.PaymentMethod,
	notes string,
) (*Exchange, error) {
	if len(originals) == 0 {
		return nil, shared.NewDomainError("INVALID_SALES", "Massive exchange requires at least one original sale")
	}
	if len(newItems) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Massive exchange requires at least one replacement item")
	}
	if !paymentMethodDifference.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+paymentMethodDifference.String())
	}

	originalTotal := decimal.Zero
	saleIDs := make([]uuid.UUID, 0, len(originals))
	for idx := range originals {
		originalTotal = originalTotal.Add(originals[idx].Price)
		saleIDs = append(saleIDs, originals[idx].ID)
	}

	newTotal := decimal.Zero
	for _, item := range newItems {
		newTotal = newTotal.Add(item.Price)
	}

	e := &Exchange{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                TypeMassive,
		Status:              StatusCompleted,
		OriginalSaleIDs:     saleIDs,
		OriginalItems: []sales.ProductSnapshot{{
			Name:  fmt.Sprintf("Cambio Masivo (%d productos)", len(originals)),
			Price: originalTotal,
		}},
		NewItems: []sales.ProductSnapshot{{
			Name:  fmt.Sprintf("Cambio Masivo (%d productos)", len(newItems)),
			Price: newTotal,
		}},
		OriginalTotal:           originalTotal,
		NewTotal:                newTotal,
		PriceDifference:         newTotal.Sub(originalTotal),
		PaymentMethodDifference: paymentMethodDifference,
		ExchangeDate:            time.Now(),
		Notes:                   notes,
	}

	e.AddDomainEvent(NewExchangeCreatedEvent(e))

	return e, nil
}

// RequiresPayment reports whether the customer owes the difference
func (e *Exchange) RequiresPayment() bool {
	return e.PriceDifference.IsPositive()
}

// ClientCreditAmount returns max(0, -PriceDifference): what the store owes
// the customer.
func (e *Exchange) ClientCreditAmount() decimal.Decimal {
	if e.PriceDifference.IsNegative() {
		return e.PriceDifference.Neg()
	}
	return decimal.Zero
}

// IsMassive reports whether the exchange covers a batch of sales
func (e *Exchange) IsMassive() bool {
	return e.Type == TypeMassive
}

// Cancel marks the exchange cancelled. Stock compensation is orchestrated by
// the application layer; the record itself only transitions status.
func (e *Exchange) Cancel(reason string) error {
	if e.Status == StatusCancelled {
		return shared.ErrInvalidState
	}
	now := time.Now()
	e.Status = StatusCancelled
	e.CancelledAt = &now
	e.CancelReason = reason
	e.UpdatedAt = now
	e.IncrementVersion()
	e.AddDomainEvent(NewExchangeCancelledEvent(e))
	return nil
}
