package credit

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a store-credit grant
type Status string

const (
	StatusActive  Status = "active"
	StatusUsed    Status = "used"
	StatusExpired Status = "expired"
)

// IsValid checks if the value is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusExpired:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// ClientCredit is one store-credit grant owed to a client, identified by
// document number or phone. Credits do not time-expire while active:
// ExpiresAt is only stamped when the credit is consumed.
type ClientCredit struct {
	shared.TenantAggregateRoot
	DocumentNumber     string          `gorm:"type:varchar(20);not null;index"`
	Phone              string          `gorm:"type:varchar(30);index"`
	ClientName         string          `gorm:"type:varchar(200)"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,4);not null"` // remaining
	OriginalSaleAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason             string          `gorm:"type:text"`
	RelatedExchangeID  *uuid.UUID      `gorm:"type:uuid;index"`
	Status             Status          `gorm:"type:varchar(20);not null;default:'active';index"`
	UsedInSaleID       *uuid.UUID      `gorm:"type:uuid"`
	UsedAt             *time.Time
	ExpiresAt          *time.Time
}

// TableName returns the table name for GORM
func (ClientCredit) TableName() string {
	return "client_credits"
}

// NewClientCredit creates an active store-credit grant
func NewClientCredit(
	tenantID uuid.UUID,
	documentNumber, phone, clientName string,
	amount decimal.Decimal,
	reason string,
	relatedExchangeID *uuid.UUID,
) (*ClientCredit, error) {
	if documentNumber == "" && phone == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client document number or phone is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}

	c := &ClientCredit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocumentNumber:      documentNumber,
		Phone:               phone,
		ClientName:          clientName,
		Amount:              amount,
		OriginalSaleAmount:  amount,
		Reason:              reason,
		RelatedExchangeID:   relatedExchangeID,
		Status:              StatusActive,
	}

	c.AddDomainEvent(NewCreditGrantedEvent(c))

	return c, nil
}

// IsActive reports whether the credit can still be consumed
func (c *ClientCredit) IsActive() bool {
	return c.Status == StatusActive
}

// MarkUsed consumes the credit in full. Expiry is only meaningful post-use,
// so ExpiresAt is stamped here rather than at creation.
func (c *ClientCredit) MarkUsed(saleID uuid.UUID, now time.Time) error {
	if !c.IsActive() {
		return shared.ErrInvalidState
	}
	c.Status = StatusUsed
	c.UsedInSaleID = &saleID
	c.UsedAt = &now
	c.ExpiresAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewCreditConsumedEvent(c, c.Amount, saleID))
	return nil
}

// Split consumes part of the credit: the receiver keeps the unconsumed
// remainder and a new fully-used record is returned for the consumed part,
// preserving the audit trail of the split.
func (c *ClientCredit) Split(consume decimal.Decimal, saleID uuid.UUID, now time.Time) (*ClientCredit, error) {
	if !c.IsActive() {
		return nil, shared.ErrInvalidState
	}
	if !consume.IsPositive() || consume.GreaterThanOrEqual(c.Amount) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Split amount must be positive and below the remaining credit")
	}

	used := &ClientCredit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(c.TenantID),
		DocumentNumber:      c.DocumentNumber,
		Phone:               c.Phone,
		ClientName:          c.ClientName,
		Amount:              consume,
		OriginalSaleAmount:  c.OriginalSaleAmount,
		Reason:              c.Reason,
		RelatedExchangeID:   c.RelatedExchangeID,
		Status:              StatusUsed,
		UsedInSaleID:        &saleID,
		UsedAt:              &now,
		ExpiresAt:           &now,
	}

	c.Amount = c.Amount.Sub(consume)
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewCreditConsumedEvent(c, consume, saleID))

	return used, nil
}

// Expire transitions an active credit to expired by operator action
func (c *ClientCredit) Expire(now time.Time) error {
	if !c.IsActive() {
		return shared.ErrInvalidState
	}
	c.Status = StatusExpired
	c.ExpiresAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}
