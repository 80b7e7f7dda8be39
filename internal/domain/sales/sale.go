package sales

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeState tags how a sale line relates to exchanges
type ExchangeState string

const (
	// ExchangeStateNormal is a plain sale untouched by exchanges
	ExchangeStateNormal ExchangeState = "normal"
	// ExchangeStateVoided marks a sale whose revenue was reassigned to a
	// replacement line; its cost equals its price so derived profit is zero
	ExchangeStateVoided ExchangeState = "voided_by_exchange"
	// ExchangeStateCreated marks a sale line created by an exchange
	ExchangeStateCreated ExchangeState = "created_by_exchange"
)

// IsValid checks if the value is a known ExchangeState
func (s ExchangeState) IsValid() bool {
	switch s {
	case ExchangeStateNormal, ExchangeStateVoided, ExchangeStateCreated:
		return true
	}
	return false
}

// String returns the string representation of ExchangeState
func (s ExchangeState) String() string {
	return string(s)
}

// SizeChangeInfo records a same-product size swap applied to a sale
type SizeChangeInfo struct {
	OriginalSize string    `json:"original_size"`
	NewSize      string    `json:"new_size"`
	ChangedAt    time.Time `json:"changed_at"`
}

// ProductSnapshot is a point-in-time capture of a product's commercial data
type ProductSnapshot struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SizeName  string          `json:"size_name"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
}

// SwapInfo captures the before/after products of a product-swap exchange
type SwapInfo struct {
	Original ProductSnapshot `json:"original"`
	New      ProductSnapshot `json:"new"`
}

// Sale is one realized transaction line in the sales ledger.
// Product and size are denormalized snapshots; ProductID is the stable
// reference used by exchange paths so a later product rename cannot break
// the original-product lookup.
type Sale struct {
	shared.TenantAggregateRoot
	SaleDate          time.Time       `gorm:"not null;index"` // date bucket of the sale
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName       string          `gorm:"type:varchar(200);not null"`
	SizeID            uuid.UUID       `gorm:"type:uuid;not null"`
	SizeName          string          `gorm:"type:varchar(50);not null"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Cost              decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(20);not null;default:'cash'"`
	ExchangeState     ExchangeState   `gorm:"type:varchar(30);not null;default:'normal';index"`
	RelatedExchangeID *uuid.UUID      `gorm:"type:uuid;index"`
	SizeChange        *SizeChangeInfo `gorm:"type:jsonb;serializer:json"`
	SwapInfo          *SwapInfo       `gorm:"type:jsonb;serializer:json"`
	ExchangeCount     int             `gorm:"not null;default:0"`
	TransactionID     *uuid.UUID      `gorm:"type:uuid;index"` // groups sibling sales of one checkout or massive exchange
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a normal sale line
func NewSale(
	tenantID uuid.UUID,
	saleDate time.Time,
	productID uuid.UUID,
	productName string,
	sizeID uuid.UUID,
	sizeName string,
	price, cost decimal.Decimal,
	paymentMethod PaymentMethod,
	transactionID *uuid.UUID,
) (*Sale, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if sizeName == "" {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+paymentMethod.String())
	}

	s := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleDate:            saleDate,
		ProductID:           productID,
		ProductName:         productName,
		SizeID:              sizeID,
		SizeName:            sizeName,
		Price:               price,
		Cost:                cost,
		PaymentMethod:       paymentMethod,
		ExchangeState:       ExchangeStateNormal,
		TransactionID:       transactionID,
	}

	s.AddDomainEvent(NewSaleCreatedEvent(s))

	return s, nil
}

// NewExchangeReplacementSale creates the sale line that carries a voided
// sale's revenue after a product swap. It is dated today and its creation
// timestamp is shifted slightly forward so it sorts above its siblings in
// descending-time listings.
func NewExchangeReplacementSale(
	tenantID uuid.UUID,
	exchangeID uuid.UUID,
	productID uuid.UUID,
	productName string,
	sizeID uuid.UUID,
	sizeName string,
	price, cost decimal.Decimal,
	paymentMethod PaymentMethod,
	transactionID *uuid.UUID,
	swap *SwapInfo,
) (*Sale, error) {
	s, err := NewSale(tenantID, time.Now(), productID, productName, sizeID, sizeName, price, cost, paymentMethod, transactionID)
	if err != nil {
		return nil, err
	}
	s.ExchangeState = ExchangeStateCreated
	s.RelatedExchangeID = &exchangeID
	s.SwapInfo = swap
	s.CreatedAt = s.CreatedAt.Add(time.Second)
	s.UpdatedAt = s.CreatedAt
	return s, nil
}

// Profit returns the derived profit of the line. Never stored.
func (s *Sale) Profit() decimal.Decimal {
	return s.Price.Sub(s.Cost)
}

// IsVoided reports whether the line's revenue was reassigned by an exchange
func (s *Sale) IsVoided() bool {
	return s.ExchangeState == ExchangeStateVoided
}

// WasCreatedByExchange reports whether the line was created by an exchange
func (s *Sale) WasCreatedByExchange() bool {
	return s.ExchangeState == ExchangeStateCreated
}

// VoidForExchange reassigns the sale's profit to a replacement line: the cost
// is set equal to the price so the derived profit becomes exactly zero.
// A sale can only be voided once; a second attempt is a conflict, which is
// how a concurrent exchange on the same sale surfaces.
func (s *Sale) VoidForExchange(exchangeID uuid.UUID, swap *SwapInfo) error {
	if s.IsVoided() {
		return shared.ErrConcurrencyConflict
	}
	s.ExchangeState = ExchangeStateVoided
	s.Cost = s.Price
	s.RelatedExchangeID = &exchangeID
	s.SwapInfo = swap
	s.ExchangeCount++
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleVoidedEvent(s, exchangeID))
	return nil
}

// AnnotateSizeChange records a same-product size swap. Price and cost are
// untouched: a pure resize neither creates nor destroys profit.
func (s *Sale) AnnotateSizeChange(exchangeID uuid.UUID, newSizeID uuid.UUID, newSizeName string) error {
	if s.IsVoided() {
		return shared.ErrConcurrencyConflict
	}
	now := time.Now()
	s.SizeChange = &SizeChangeInfo{
		OriginalSize: s.SizeName,
		NewSize:      newSizeName,
		ChangedAt:    now,
	}
	s.SizeID = newSizeID
	s.SizeName = newSizeName
	s.RelatedExchangeID = &exchangeID
	s.ExchangeCount++
	s.UpdatedAt = now
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleSizeChangedEvent(s, exchangeID))
	return nil
}

// RestoreVoidedCost reverses a void by putting the original cost back.
// Only used by exchange removal when full reversal is allowed by policy.
func (s *Sale) RestoreVoidedCost(originalCost decimal.Decimal) error {
	if !s.IsVoided() {
		return shared.ErrInvalidState
	}
	s.ExchangeState = ExchangeStateNormal
	s.Cost = originalCost
	s.RelatedExchangeID = nil
	s.SwapInfo = nil
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Snapshot captures the sale's commercial data for exchange records
func (s *Sale) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: s.ProductID,
		Name:      s.ProductName,
		SizeName:  s.SizeName,
		Price:     s.Price,
		Cost:      s.Cost,
	}
}
