package credit

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Consumption records how much of a single credit was applied to a sale
type Consumption struct {
	CreditID   uuid.UUID       `json:"creditId"`
	AmountUsed decimal.Decimal `json:"amountUsed"`
}

// ConsumptionResult is the outcome of applying credits to a sale: the
// records to persist plus the audit breakdown per consumed credit.
type ConsumptionResult struct {
	TotalUsed    decimal.Decimal
	Consumptions []Consumption
	Updated      []*ClientCredit // existing records mutated (used in full, or split remainder)
	Created      []*ClientCredit // new used records produced by splits
}

// Consume applies amount against the given credits oldest-first. Credits
// must be the client's active credits already sorted by CreatedAt ascending.
//
// A credit smaller than or equal to the remaining amount is used in full;
// a larger one is split, leaving the remainder active. If the credits do
// not cover the amount nothing is mutated and ErrInsufficientCredit is
// returned.
func Consume(credits []*ClientCredit, amount decimal.Decimal, saleID uuid.UUID, now time.Time) (*ConsumptionResult, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount to consume must be positive")
	}

	available := decimal.Zero
	for _, c := range credits {
		if c.IsActive() {
			available = available.Add(c.Amount)
		}
	}
	if available.LessThan(amount) {
		return nil, shared.ErrInsufficientCredit
	}

	result := &ConsumptionResult{TotalUsed: amount}
	remaining := amount
	for _, c := range credits {
		if !c.IsActive() || !remaining.IsPositive() {
			continue
		}
		if c.Amount.LessThanOrEqual(remaining) {
			used := c.Amount
			if err := c.MarkUsed(saleID, now); err != nil {
				return nil, err
			}
			result.Updated = append(result.Updated, c)
			result.Consumptions = append(result.Consumptions, Consumption{CreditID: c.ID, AmountUsed: used})
			remaining = remaining.Sub(used)
			continue
		}
		usedRecord, err := c.Split(remaining, saleID, now)
		if err != nil {
			return nil, err
		}
		result.Updated = append(result.Updated, c)
		result.Created = append(result.Created, usedRecord)
		result.Consumptions = append(result.Consumptions, Consumption{CreditID: c.ID, AmountUsed: remaining})
		remaining = decimal.Zero
	}

	return result, nil
}

// Balance sums the remaining amount across active credits
func Balance(credits []*ClientCredit) decimal.Decimal {
	total := decimal.Zero
	for _, c := range credits {
		if c.IsActive() {
			total = total.Add(c.Amount)
		}
	}
	return total
}
