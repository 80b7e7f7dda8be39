package exchange

import (
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/sales"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productWithSize(t *testing.T, tenantID uuid.UUID, name string, price, cost float64, sizeName string, quantity int) (*catalog.Product, uuid.UUID) {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, "SKU-"+name, name, valueobject.NewMoneyARSFromFloat(price), valueobject.NewMoneyARSFromFloat(cost))
	require.NoError(t, err)
	sizeID := uuid.New()
	_, err = p.AddSize(sizeID, sizeName, quantity)
	require.NoError(t, err)
	return p, sizeID
}

func saleOf(t *testing.T, tenantID uuid.UUID, p *catalog.Product, sizeID uuid.UUID, sizeName string, price, cost int64) *sales.Sale {
	t.Helper()
	s, err := sales.NewSale(
		tenantID, time.Now(),
		p.ID, p.Name,
		sizeID, sizeName,
		decimal.NewFromInt(price), decimal.NewFromInt(cost),
		sales.PaymentMethodCash, nil,
	)
	require.NoError(t, err)
	return s
}

func TestKindFor(t *testing.T) {
	tenantID := uuid.New()
	p, sizeID := productWithSize(t, tenantID, "Remera", 100, 60, "M", 3)
	other, _ := productWithSize(t, tenantID, "Campera", 120, 80, "M", 3)
	s := saleOf(t, tenantID, p, sizeID, "M", 100, 60)

	assert.Equal(t, KindSameProductResize, KindFor(s, p))
	assert.Equal(t, KindProductSwap, KindFor(s, other))
}

func TestKindForLegacyNameMatch(t *testing.T) {
	// Sales recorded before product IDs were stamped fall back to name match.
	tenantID := uuid.New()
	p, _ := productWithSize(t, tenantID, "Remera", 100, 60, "M", 3)
	s := saleOf(t, tenantID, p, uuid.New(), "M", 100, 60)
	s.ProductID = uuid.New() // simulates a stale reference
	s.ProductName = p.Name

	assert.Equal(t, KindSameProductResize, KindFor(s, p))
}

func TestBuildResizePlanTransfersOneUnit(t *testing.T) {
	tenantID := uuid.New()
	p, sizeM := productWithSize(t, tenantID, "Remera", 100, 60, "M", 2)
	sizeL := uuid.New()
	_, err := p.AddSize(sizeL, "L", 5)
	require.NoError(t, err)
	s := saleOf(t, tenantID, p, sizeM, "M", 100, 60)

	e, err := NewIndividualExchange(tenantID, s, sales.ProductSnapshot{
		ProductID: p.ID, Name: p.Name, SizeName: "L", Price: p.Price, Cost: p.Cost,
	}, sales.PaymentMethodNotApplicable, "")
	require.NoError(t, err)

	plan, err := BuildResizePlan(e, s, p, sizeL, "L", nil)
	require.NoError(t, err)

	assert.Equal(t, KindSameProductResize, plan.Kind)
	require.NotNil(t, plan.Resize)
	assert.Equal(t, "L", plan.Resize.NewSizeName)
	assert.Empty(t, plan.Voids)
	assert.Empty(t, plan.NewSales)
	require.Len(t, plan.StockMoves, 2)
	assert.Equal(t, StockMove{ProductID: p.ID, SizeID: sizeM, Delta: +1}, plan.StockMoves[0])
	assert.Equal(t, StockMove{ProductID: p.ID, SizeID: sizeL, Delta: -1}, plan.StockMoves[1])
	// same-product resize has zero price difference
	assert.True(t, plan.PriceDifference.IsZero())
	assert.False(t, plan.RequiresPayment)
}

func TestBuildResizePlanSameSizeIsNoOp(t *testing.T) {
	tenantID := uuid.New()
	p, sizeM := productWithSize(t, tenantID, "Remera", 100, 60, "M", 2)
	s := saleOf(t, tenantID, p, sizeM, "M", 100, 60)

	e, err := NewIndividualExchange(tenantID, s, sales.ProductSnapshot{
		ProductID: p.ID, Name: p.Name, SizeName: "M", Price: p.Price, Cost: p.Cost,
	}, sales.PaymentMethodNotApplicable, "")
	require.NoError(t, err)

	plan, err := BuildResizePlan(e, s, p, sizeM, "M", nil)
	require.NoError(t, err)

	assert.Nil(t, plan.Resize)
	assert.Empty(t, plan.StockMoves)
	assert.Empty(t, plan.NewSales)
}

func TestBuildSwapPlanRevenueContinuity(t *testing.T) {
	// End-to-end numbers from the accounting contract: original 100/60,
	// replacement 120/80. The new line must carry price=100, cost=60.
	tenantID := uuid.New()
	pA, sizeA := productWithSize(t, tenantID, "Remera", 100, 60, "M", 2)
	pB, sizeB := productWithSize(t, tenantID, "Campera", 120, 80, "M", 3)
	s := saleOf(t, tenantID, pA, sizeA, "M", 100, 60)

	e, err := NewIndividualExchange(tenantID, s, sales.ProductSnapshot{
		ProductID: pB.ID, Name: pB.Name, SizeName: "M", Price: pB.Price, Cost: pB.Cost,
	}, sales.PaymentMethodCash, "")
	require.NoError(t, err)
	assert.True(t, e.PriceDifference.Equal(decimal.NewFromInt(20)))

	plan, err := BuildSwapPlan(e, s, pA, pB, sizeB, "M", sales.PaymentMethodCash, nil)
	require.NoError(t, err)

	assert.Equal(t, KindProductSwap, plan.Kind)
	require.Len(t, plan.Voids, 1)
	require.Len(t, plan.NewSales, 1)

	newSale := plan.NewSales[0]
	assert.True(t, newSale.Price.Equal(decimal.NewFromInt(100)), "revenue continuity: new price = original price")
	assert.True(t, newSale.Cost.Equal(decimal.NewFromInt(60)), "cost = 100 - (120-80)")
	assert.True(t, newSale.Profit().Equal(pB.Margin()), "new line profit equals replacement margin")
	assert.True(t, newSale.WasCreatedByExchange())

	require.Len(t, plan.StockMoves, 2)
	assert.Equal(t, StockMove{ProductID: pA.ID, SizeID: sizeA, Delta: +1}, plan.StockMoves[0])
	assert.Equal(t, StockMove{ProductID: pB.ID, SizeID: sizeB, Delta: -1}, plan.StockMoves[1])

	assert.True(t, plan.RequiresPayment)
	assert.True(t, plan.ClientCreditAmount.IsZero())
}

func TestBuildSwapPlanCreditGrant(t *testing.T) {
	tenantID := uuid.New()
	pA, sizeA := productWithSize(t, tenantID, "Campera", 150, 90, "M", 2)
	pB, sizeB := productWithSize(t, tenantID, "Gorra", 100, 40, "U", 5)
	s := saleOf(t, tenantID, pA, sizeA, "M", 150, 90)

	e, err := NewIndividualExchange(tenantID, s, sales.ProductSnapshot{
		ProductID: pB.ID, Name: pB.Name, SizeName: "U", Price: pB.Price, Cost: pB.Cost,
	}, sales.PaymentMethodNotApplicable, "")
	require.NoError(t, err)

	intent := &CreditIntent{
		Action:         CreditActionCreateCredit,
		DocumentNumber: "30123456",
		ClientName:     "Ana Suarez",
	}
	plan, err := BuildSwapPlan(e, s, pA, pB, sizeB, "U", sales.PaymentMethodNotApplicable, intent)
	require.NoError(t, err)

	require.NotNil(t, plan.Credit)
	assert.True(t, plan.Credit.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "30123456", plan.Credit.DocumentNumber)
	assert.Contains(t, plan.Credit.Reason, "Campera")
	assert.Contains(t, plan.Credit.Reason, "Gorra")
	assert.True(t, plan.ClientCreditAmount.Equal(decimal.NewFromInt(50)))
}

func TestCreditGrantRequiresExplicitActionAndDocument(t *testing.T) {
	tenantID := uuid.New()
	pA, sizeA := productWithSize(t, tenantID, "Campera", 150, 90, "M", 2)
	pB, sizeB := productWithSize(t, tenantID, "Gorra", 100, 40, "U", 5)
	s := saleOf(t, tenantID, pA, sizeA, "M", 150, 90)

	e, err := NewIndividualExchange(tenantID, s, sales.ProductSnapshot{
		ProductID: pB.ID, Name: pB.Name, SizeName: "U", Price: pB.Price, Cost: pB.Cost,
	}, sales.PaymentMethodNotApplicable, "")
	require.NoError(t, err)

	// no intent at all
	plan, err := BuildSwapPlan(e, s, pA, pB, sizeB, "U", sales.PaymentMethodNotApplicable, nil)
	require.NoError(t, err)
	assert.Nil(t, plan.Credit)

	// cash_return action does not create credit
	plan, err = BuildSwapPlan(e, s, pA, pB, sizeB, "U", sales.PaymentMethodNotApplicable, &CreditIntent{
		Action: CreditActionCashReturn, DocumentNumber: "30123456",
	})
	require.NoError(t, err)
	assert.Nil(t, plan.Credit)

	// create_credit without a document does not create credit
	plan, err = BuildSwapPlan(e, s, pA, pB, sizeB, "U", sales.PaymentMethodNotApplicable, &CreditIntent{
		Action: CreditActionCreateCredit,
	})
	require.NoError(t, err)
	assert.Nil(t, plan.Credit)
}

func TestBuildMassivePlan(t *testing.T) {
	tenantID := uuid.New()
	pA, sizeA := productWithSize(t, tenantID, "Remera", 100, 60, "M", 2)
	pB, sizeB := productWithSize(t, tenantID, "Buzo", 80, 50, "L", 2)
	pC, sizeC := productWithSize(t, tenantID, "Pantalon", 150, 100, "40", 4)
	pD, sizeD := productWithSize(t, tenantID, "Cinturon", 50, 20, "U", 4)

	s1 := saleOf(t, tenantID, pA, sizeA, "M", 100, 60)
	s2 := saleOf(t, tenantID, pB, sizeB, "L", 80, 50)

	e, err := NewMassiveExchange(tenantID, []sales.Sale{*s1, *s2}, []sales.ProductSnapshot{
		{ProductID: pC.ID, Name: pC.Name, Price: pC.Price, Cost: pC.Cost},
		{ProductID: pD.ID, Name: pD.Name, Price: pD.Price, Cost: pD.Cost},
	}, sales.PaymentMethodCash, "")
	require.NoError(t, err)
	assert.True(t, e.PriceDifference.Equal(decimal.NewFromInt(20)))

	plan, err := BuildMassivePlan(e,
		[]MassiveOriginal{{Sale: s1, Product: pA}, {Sale: s2, Product: pB}},
		[]MassiveReplacement{
			{Product: pC, SizeID: sizeC, SizeName: "40"},
			{Product: pD, SizeID: sizeD, SizeName: "U"},
		}, nil)
	require.NoError(t, err)

	assert.Equal(t, KindMassive, plan.Kind)
	// all originals voided, no resize shortcut in the massive branch
	assert.Len(t, plan.Voids, 2)
	assert.Nil(t, plan.Resize)

	// 2 replacement lines + 1 synthetic difference line
	require.Len(t, plan.NewSales, 3)
	for i, r := range []*catalog.Product{pC, pD} {
		line := plan.NewSales[i]
		assert.True(t, line.Price.Equal(r.Price))
		assert.True(t, line.Profit().Equal(r.Margin()), "line profit equals its own catalog margin")
		require.NotNil(t, line.TransactionID)
	}
	// sibling lines share one transaction id
	assert.Equal(t, plan.NewSales[0].TransactionID, plan.NewSales[1].TransactionID)

	diffLine := plan.NewSales[2]
	assert.True(t, diffLine.Price.Equal(decimal.NewFromInt(20)))
	assert.True(t, diffLine.Cost.IsZero(), "difference line is pure profit")

	// +1 per original, -1 per replacement
	require.Len(t, plan.StockMoves, 4)
	assert.Equal(t, +1, plan.StockMoves[0].Delta)
	assert.Equal(t, +1, plan.StockMoves[1].Delta)
	assert.Equal(t, -1, plan.StockMoves[2].Delta)
	assert.Equal(t, -1, plan.StockMoves[3].Delta)
}

func TestBuildMassivePlanNegativeDifferenceSkipsDiffLine(t *testing.T) {
	tenantID := uuid.New()
	pA, sizeA := productWithSize(t, tenantID, "Campera", 200, 120, "M", 2)
	pB, sizeB := productWithSize(t, tenantID, "Gorra", 50, 20, "U", 4)

	s1 := saleOf(t, tenantID, pA, sizeA, "M", 200, 120)

	e, err := NewMassiveExchange(tenantID, []sales.Sale{*s1}, []sales.ProductSnapshot{
		{ProductID: pB.ID, Name: pB.Name, Price: pB.Price, Cost: pB.Cost},
	}, sales.PaymentMethodNotApplicable, "")
	require.NoError(t, err)
	assert.True(t, e.PriceDifference.Equal(decimal.NewFromInt(-150)))

	plan, err := BuildMassivePlan(e,
		[]MassiveOriginal{{Sale: s1, Product: pA}},
		[]MassiveReplacement{{Product: pB, SizeID: sizeB, SizeName: "U"}},
		&CreditIntent{Action: CreditActionCreateCredit, DocumentNumber: "27999888", ClientName: "Mia Paz"},
	)
	require.NoError(t, err)

	// no negative sale line; the difference routes to credit
	require.Len(t, plan.NewSales, 1)
	require.NotNil(t, plan.Credit)
	assert.True(t, plan.Credit.Amount.Equal(decimal.NewFromInt(150)))
	assert.True(t, plan.ClientCreditAmount.Equal(decimal.NewFromInt(150)))
	assert.False(t, plan.RequiresPayment)
}

func TestInverseStockMoves(t *testing.T) {
	moves := []StockMove{
		{ProductID: uuid.New(), SizeID: uuid.New(), Delta: +1},
		{ProductID: uuid.New(), SizeID: uuid.New(), Delta: -1},
	}
	inverse := InverseStockMoves(moves)
	assert.Equal(t, -1, inverse[0].Delta)
	assert.Equal(t, +1, inverse[1].Delta)
	assert.Equal(t, moves[0].ProductID, inverse[0].ProductID)
}
