package credit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/credit"
)

// GrantCreditRequest represents a manual store-credit grant
type GrantCreditRequest struct {
	DocumentNumber string          `json:"document_number" binding:"required_without=Phone,omitempty,docnum"`
	Phone          string          `json:"phone" binding:"max=30"`
	ClientName     string          `json:"client_name" binding:"max=200"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Reason         string          `json:"reason" binding:"max=500"`
}

// UseCreditsRequest represents a credit consumption against a sale
type UseCreditsRequest struct {
	DocumentNumber string          `json:"document_number" binding:"required_without=Phone,omitempty,docnum"`
	Phone          string          `json:"phone" binding:"max=30"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	SaleID         uuid.UUID       `json:"sale_id" binding:"required"`
}

// CreditResponse represents one credit record
type CreditResponse struct {
	ID                 uuid.UUID       `json:"id"`
	DocumentNumber     string          `json:"document_number"`
	Phone              string          `json:"phone,omitempty"`
	ClientName         string          `json:"client_name,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	OriginalSaleAmount decimal.Decimal `json:"original_sale_amount"`
	Reason             string          `json:"reason,omitempty"`
	RelatedExchangeID  *uuid.UUID      `json:"related_exchange_id,omitempty"`
	Status             string          `json:"status"`
	UsedInSaleID       *uuid.UUID      `json:"used_in_sale_id,omitempty"`
	UsedAt             *time.Time      `json:"used_at,omitempty"`
	ExpiresAt          *time.Time      `json:"expires_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// UsedCreditResponse is one entry of the consumption breakdown
type UsedCreditResponse struct {
	CreditID   uuid.UUID       `json:"credit_id"`
	AmountUsed decimal.Decimal `json:"amount_used"`
}

// UseCreditsResponse is the result of a credit consumption
type UseCreditsResponse struct {
	TotalUsed        decimal.Decimal      `json:"total_used"`
	UsedCredits      []UsedCreditResponse `json:"used_credits"`
	RemainingCredits decimal.Decimal      `json:"remaining_credits"`
}

// BalanceResponse is a client's active credit balance
type BalanceResponse struct {
	DocumentNumber string          `json:"document_number,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	ActiveCredits  int             `json:"active_credits"`
}

// ToCreditResponse converts a ClientCredit to its response DTO
func ToCreditResponse(c *credit.ClientCredit) CreditResponse {
	return CreditResponse{
		ID:                 c.ID,
		DocumentNumber:     c.DocumentNumber,
		Phone:              c.Phone,
		ClientName:         c.ClientName,
		Amount:             c.Amount,
		OriginalSaleAmount: c.OriginalSaleAmount,
		Reason:             c.Reason,
		RelatedExchangeID:  c.RelatedExchangeID,
		Status:             c.Status.String(),
		UsedInSaleID:       c.UsedInSaleID,
		UsedAt:             c.UsedAt,
		ExpiresAt:          c.ExpiresAt,
		CreatedAt:          c.CreatedAt,
	}
}
