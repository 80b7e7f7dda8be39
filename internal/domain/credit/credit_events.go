package credit

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeCreditGranted  = "credit.granted"
	EventTypeCreditConsumed = "credit.consumed"
)

// CreditGrantedEvent is raised when a new store credit is issued
type CreditGrantedEvent struct {
	shared.BaseDomainEvent
	DocumentNumber    string          `json:"documentNumber"`
	Amount            decimal.Decimal `json:"amount"`
	RelatedExchangeID *uuid.UUID      `json:"relatedExchangeId,omitempty"`
}

// NewCreditGrantedEvent creates a credit granted event
func NewCreditGrantedEvent(c *ClientCredit) *CreditGrantedEvent {
	return &CreditGrantedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeCreditGranted, "ClientCredit", c.ID, c.TenantID),
		DocumentNumber:    c.DocumentNumber,
		Amount:            c.Amount,
		RelatedExchangeID: c.RelatedExchangeID,
	}
}

// CreditConsumedEvent is raised when part or all of a credit is applied to a sale
type CreditConsumedEvent struct {
	shared.BaseDomainEvent
	DocumentNumber string          `json:"documentNumber"`
	AmountUsed     decimal.Decimal `json:"amountUsed"`
	UsedInSaleID   uuid.UUID       `json:"usedInSaleId"`
}

// NewCreditConsumedEvent creates a credit consumed event
func NewCreditConsumedEvent(c *ClientCredit, amountUsed decimal.Decimal, saleID uuid.UUID) *CreditConsumedEvent {
	return &CreditConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditConsumed, "ClientCredit", c.ID, c.TenantID),
		DocumentNumber:  c.DocumentNumber,
		AmountUsed:      amountUsed,
		UsedInSaleID:    saleID,
	}
}
