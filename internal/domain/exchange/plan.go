package exchange

import (
	"fmt"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/sales"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind selects the exchange branch. Each kind has its own pure plan builder;
// a single executor applies whatever plan comes out.
type Kind string

const (
	// KindSameProductResize swaps sizes on the same product; the original
	// sale is annotated in place and no profit is created or destroyed.
	KindSameProductResize Kind = "same_product_resize"
	// KindProductSwap voids the original sale and creates a replacement
	// line carrying its revenue.
	KindProductSwap Kind = "product_swap"
	// KindMassive voids every original sale and creates one line per
	// replacement item.
	KindMassive Kind = "massive"
)

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// KindFor decides the branch for a single-item exchange. The stable product
// reference is compared first; the name comparison covers legacy rows
// recorded before product IDs were stamped on sales.
func KindFor(originalSale *sales.Sale, newProduct *catalog.Product) Kind {
	if originalSale.ProductID == newProduct.ID || originalSale.ProductName == newProduct.Name {
		return KindSameProductResize
	}
	return KindProductSwap
}

// StockMove is one signed stock adjustment to apply
type StockMove struct {
	ProductID uuid.UUID
	SizeID    uuid.UUID
	Delta     int
}

// SaleVoid voids one sale, optionally attaching swap snapshots
type SaleVoid struct {
	Sale *sales.Sale
	Swap *sales.SwapInfo
}

// Resize annotates one sale with a size change
type Resize struct {
	Sale        *sales.Sale
	NewSizeID   uuid.UUID
	NewSizeName string
}

// CreditIntent is the caller's instruction for a negative price difference
type CreditIntent struct {
	Action         CreditAction
	DocumentNumber string
	Phone          string
	ClientName     string
}

// CreditAction enumerates what to do when the customer is owed money
type CreditAction string

const (
	CreditActionCreateCredit      CreditAction = "create_credit"
	CreditActionCashReturn        CreditAction = "cash_return"
	CreditActionAdditionalProduct CreditAction = "additional_product"
)

// IsValid checks if the value is a known CreditAction
func (a CreditAction) IsValid() bool {
	switch a {
	case CreditActionCreateCredit, CreditActionCashReturn, CreditActionAdditionalProduct:
		return true
	}
	return false
}

// CreditGrant is the credit ledger entry a plan wants written
type CreditGrant struct {
	DocumentNumber string
	Phone          string
	ClientName     string
	Amount         decimal.Decimal
	Reason         string
}

// Plan is the full set of writes one exchange requires. Builders are pure:
// they never touch storage, so each branch is testable against in-memory
// aggregates and the executor applies any plan inside one transaction.
type Plan struct {
	Kind       Kind
	Exchange   *Exchange
	Resize     *Resize
	Voids      []SaleVoid
	NewSales   []*sales.Sale
	StockMoves []StockMove
	Credit     *CreditGrant

	PriceDifference    decimal.Decimal
	RequiresPayment    bool
	ClientCreditAmount decimal.Decimal
}

func (p *Plan) finishTotals() {
	p.PriceDifference = p.Exchange.PriceDifference
	p.RequiresPayment = p.Exchange.RequiresPayment()
	p.ClientCreditAmount = p.Exchange.ClientCreditAmount()
}

// creditGrantFor resolves the optional credit write shared by all branches:
// only a negative difference, an explicit create_credit action, and a client
// document produce a grant.
func creditGrantFor(e *Exchange, intent *CreditIntent, reason string) *CreditGrant {
	if intent == nil || intent.Action != CreditActionCreateCredit {
		return nil
	}
	if intent.DocumentNumber == "" {
		return nil
	}
	if !e.PriceDifference.IsNegative() {
		return nil
	}
	return &CreditGrant{
		DocumentNumber: intent.DocumentNumber,
		Phone:          intent.Phone,
		ClientName:     intent.ClientName,
		Amount:         e.PriceDifference.Neg(),
		Reason:         reason,
	}
}

// BuildResizePlan builds the same-product branch: the sale is annotated in
// place, and stock transfers one unit from the new size back to the old one.
// When original and new size coincide the exchange is a no-op on stock.
func BuildResizePlan(
	e *Exchange,
	originalSale *sales.Sale,
	product *catalog.Product,
	newSizeID uuid.UUID,
	newSizeName string,
	intent *CreditIntent,
) (*Plan, error) {
	if !e.PriceDifference.Equal(e.NewTotal.Sub(e.OriginalTotal)) {
		return nil, shared.NewDomainError("INVALID_EXCHANGE", "Price difference does not match totals")
	}

	plan := &Plan{
		Kind:     KindSameProductResize,
		Exchange: e,
	}

	if originalSale.SizeID != newSizeID {
		plan.Resize = &Resize{
			Sale:        originalSale,
			NewSizeID:   newSizeID,
			NewSizeName: newSizeName,
		}
		plan.StockMoves = []StockMove{
			{ProductID: product.ID, SizeID: originalSale.SizeID, Delta: +1},
			{ProductID: product.ID, SizeID: newSizeID, Delta: -1},
		}
	}

	plan.Credit = creditGrantFor(e, intent, resizeCreditReason(originalSale, newSizeName))
	plan.finishTotals()
	return plan, nil
}

// BuildSwapPlan builds the different-product branch: the original sale is
// voided, and a replacement line is created carrying the original revenue
// with its cost reverse-engineered so the new line's profit equals the
// replacement product's own catalog margin.
func BuildSwapPlan(
	e *Exchange,
	originalSale *sales.Sale,
	originalProduct *catalog.Product,
	newProduct *catalog.Product,
	newSizeID uuid.UUID,
	newSizeName string,
	paymentMethod sales.PaymentMethod,
	intent *CreditIntent,
) (*Plan, error) {
	swap := &sales.SwapInfo{
		Original: originalSale.Snapshot(),
		New: sales.ProductSnapshot{
			ProductID: newProduct.ID,
			Name:      newProduct.Name,
			SizeName:  newSizeName,
			Price:     newProduct.Price,
			Cost:      newProduct.Cost,
		},
	}

	// Revenue continuity: the new line keeps the original sale's price.
	// cost = originalPrice - (newPrice - newCost) makes the new line's
	// profit exactly the replacement product's margin.
	newPrice := originalSale.Price
	newCost := originalSale.Price.Sub(newProduct.Margin())

	replacement, err := sales.NewExchangeReplacementSale(
		e.TenantID,
		e.ID,
		newProduct.ID,
		newProduct.Name,
		newSizeID,
		newSizeName,
		newPrice,
		newCost,
		paymentMethod,
		originalSale.TransactionID,
		swap,
	)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Kind:     KindProductSwap,
		Exchange: e,
		Voids:    []SaleVoid{{Sale: originalSale, Swap: swap}},
		NewSales: []*sales.Sale{replacement},
		StockMoves: []StockMove{
			{ProductID: originalProduct.ID, SizeID: originalSale.SizeID, Delta: +1},
			{ProductID: newProduct.ID, SizeID: newSizeID, Delta: -1},
		},
	}

	plan.Credit = creditGrantFor(e, intent, swapCreditReason(originalSale, newProduct))
	plan.finishTotals()
	return plan, nil
}

// MassiveOriginal pairs an original sale with its resolved product
type MassiveOriginal struct {
	Sale    *sales.Sale
	Product *catalog.Product
}

// MassiveReplacement is one replacement item of a massive exchange
type MassiveReplacement struct {
	Product       *catalog.Product
	SizeID        uuid.UUID
	SizeName      string
	PaymentMethod sales.PaymentMethod
}

// BuildMassivePlan builds the batch branch: every original is voided, every
// replacement becomes a new sale at its own catalog price and cost, and a
// positive difference adds one synthetic full-profit line for the extra cash
// collected. A negative difference never creates a negative sale; it routes
// to the credit grant instead.
func BuildMassivePlan(
	e *Exchange,
	originals []MassiveOriginal,
	replacements []MassiveReplacement,
	intent *CreditIntent,
) (*Plan, error) {
	if len(originals) == 0 || len(replacements) == 0 {
		return nil, shared.NewDomainError("INVALID_EXCHANGE", "Massive plan requires originals and replacements")
	}

	transactionID := uuid.New()
	plan := &Plan{
		Kind:     KindMassive,
		Exchange: e,
	}

	for _, o := range originals {
		// The pre-void snapshot travels with the voided line so removal can
		// restore its original cost when full reversal is allowed.
		plan.Voids = append(plan.Voids, SaleVoid{
			Sale: o.Sale,
			Swap: &sales.SwapInfo{Original: o.Sale.Snapshot()},
		})
		plan.StockMoves = append(plan.StockMoves, StockMove{
			ProductID: o.Product.ID,
			SizeID:    o.Sale.SizeID,
			Delta:     +1,
		})
	}

	for _, r := range replacements {
		method := r.PaymentMethod
		if method == "" {
			method = e.PaymentMethodDifference
		}
		// Each new line carries the replacement's own catalog price and
		// cost, so its stored profit equals the product's own margin
		// independent of the batch difference.
		line, err := sales.NewExchangeReplacementSale(
			e.TenantID,
			e.ID,
			r.Product.ID,
			r.Product.Name,
			r.SizeID,
			r.SizeName,
			r.Product.Price,
			r.Product.Cost,
			method,
			&transactionID,
			nil,
		)
		if err != nil {
			return nil, err
		}
		plan.NewSales = append(plan.NewSales, line)
		plan.StockMoves = append(plan.StockMoves, StockMove{
			ProductID: r.Product.ID,
			SizeID:    r.SizeID,
			Delta:     -1,
		})
	}

	if e.PriceDifference.IsPositive() {
		diffLine, err := sales.NewExchangeReplacementSale(
			e.TenantID,
			e.ID,
			originals[0].Product.ID,
			fmt.Sprintf("Diferencia Cambio Masivo (%d productos)", len(replacements)),
			originals[0].Sale.SizeID,
			"-",
			e.PriceDifference,
			decimal.Zero,
			e.PaymentMethodDifference,
			&transactionID,
			nil,
		)
		if err != nil {
			return nil, err
		}
		// No stock backs the synthetic difference line.
		plan.NewSales = append(plan.NewSales, diffLine)
	}

	plan.Credit = creditGrantFor(e, intent, massiveCreditReason(len(originals), len(replacements)))
	plan.finishTotals()
	return plan, nil
}

func resizeCreditReason(s *sales.Sale, newSize string) string {
	return fmt.Sprintf("Cambio de talle %s: %s -> %s", s.ProductName, s.SizeName, newSize)
}

func swapCreditReason(s *sales.Sale, p *catalog.Product) string {
	return fmt.Sprintf("Cambio de producto: %s por %s", s.ProductName, p.Name)
}

func massiveCreditReason(originals, replacements int) string {
	return fmt.Sprintf("Cambio masivo: %d productos por %d productos", originals, replacements)
}

// InverseStockMoves returns the compensating moves for a completed plan's
// stock effects, used by exchange removal.
func InverseStockMoves(moves []StockMove) []StockMove {
	inverse := make([]StockMove, len(moves))
	for i, m := range moves {
		inverse[i] = StockMove{ProductID: m.ProductID, SizeID: m.SizeID, Delta: -m.Delta}
	}
	return inverse
}
