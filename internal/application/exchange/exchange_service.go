package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/exchange"
	"github.com/backoffice/backend/internal/domain/sales"
	"github.com/backoffice/backend/internal/domain/shared"
)

// Config carries the exchange policy switches
type Config struct {
	// AllowFullReversal controls whether removing an exchange also restores
	// the voided sales' original cost. When false only stock is compensated
	// and the voided profit stays voided.
	AllowFullReversal bool
}

// Service orchestrates return-and-replace operations across the sale ledger,
// the product stock and the client credit ledger. All validation happens
// before any write; the write sequence itself runs inside one transaction
// scope so a failure anywhere leaves nothing behind.
type Service struct {
	scope          TransactionScope
	exchangeRepo   exchange.ExchangeRepository
	saleRepo       sales.SaleRepository
	productRepo    catalog.ProductRepository
	config         Config
	eventPublisher shared.EventPublisher
}

// NewService creates a new exchange Service
func NewService(
	scope TransactionScope,
	exchangeRepo exchange.ExchangeRepository,
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	config Config,
) *Service {
	return &Service{
		scope:        scope,
		exchangeRepo: exchangeRepo,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		config:       config,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create performs a single-item exchange. The branch (size-only resize vs
// product swap) is decided up front and built as a pure plan; the shared
// executor then applies the plan's writes atomically.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateExchangeRequest) (*CreateExchangeResponse, error) {
	paymentMethod := paymentMethodOrDefault(req.PaymentMethodDifference)
	intent := creditIntentFrom(req.CreditAction, req.ClientDocument, req.ClientPhone, req.ClientName)

	originalSale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, req.OriginalSaleID)
	if err != nil {
		return nil, err
	}

	newProduct, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.NewProductID)
	if err != nil {
		return nil, err
	}

	newSize := newProduct.SizeByID(req.NewSizeID)
	if newSize == nil || newSize.Quantity <= 0 {
		return nil, shared.ErrInsufficientStock
	}

	originalProduct, err := s.resolveOriginalProduct(ctx, tenantID, originalSale)
	if err != nil {
		return nil, err
	}

	newItem := sales.ProductSnapshot{
		ProductID: newProduct.ID,
		Name:      newProduct.Name,
		SizeName:  newSize.SizeName,
		Price:     newProduct.Price,
		Cost:      newProduct.Cost,
	}

	record, err := exchange.NewIndividualExchange(tenantID, originalSale, newItem, paymentMethod, req.Notes)
	if err != nil {
		return nil, err
	}

	var plan *exchange.Plan
	switch exchange.KindFor(originalSale, newProduct) {
	case exchange.KindSameProductResize:
		plan, err = exchange.BuildResizePlan(record, originalSale, originalProduct, newSize.SizeID, newSize.SizeName, intent)
	default:
		plan, err = exchange.BuildSwapPlan(record, originalSale, originalProduct, newProduct, newSize.SizeID, newSize.SizeName, paymentMethod, intent)
	}
	if err != nil {
		return nil, err
	}

	creditCreated, err := s.applyPlan(ctx, tenantID, plan)
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, plan, creditCreated)

	response := &CreateExchangeResponse{
		Message:            "Cambio realizado correctamente",
		Exchange:           ToExchangeResponse(plan.Exchange),
		PriceDifference:    plan.PriceDifference,
		RequiresPayment:    plan.RequiresPayment,
		ClientCreditAmount: plan.ClientCreditAmount,
	}
	if len(plan.NewSales) > 0 {
		sr := ToSaleResponse(plan.NewSales[0])
		response.NewSale = &sr
	}
	if creditCreated != nil {
		cr := ToCreditResponse(creditCreated)
		response.CreditCreated = &cr
	}
	return response, nil
}

// CreateMassive performs a batch exchange: every original sale is voided and
// every replacement item becomes a new sale line. All originals must belong
// to the same checkout transaction grouping.
func (s *Service) CreateMassive(ctx context.Context, tenantID uuid.UUID, req CreateMassiveExchangeRequest) (*CreateMassiveExchangeResponse, error) {
	paymentMethod := paymentMethodOrDefault(req.PaymentMethodDifference)
	intent := creditIntentFrom(req.CreditAction, req.ClientDocument, req.ClientPhone, req.ClientName)

	saleIDs := make([]uuid.UUID, len(req.OriginalSales))
	for i, o := range req.OriginalSales {
		saleIDs[i] = o.SaleID
	}

	originalSales, err := s.saleRepo.FindByIDsForTenant(ctx, tenantID, saleIDs)
	if err != nil {
		return nil, err
	}

	if err := validateTransactionGrouping(originalSales); err != nil {
		return nil, err
	}

	replacements := make([]exchange.MassiveReplacement, 0, len(req.NewProducts))
	newItems := make([]sales.ProductSnapshot, 0, len(req.NewProducts))
	for _, item := range req.NewProducts {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			return nil, err
		}
		size := product.SizeByID(item.SizeID)
		if size == nil || size.Quantity <= 0 {
			return nil, shared.ErrInsufficientStock
		}
		replacements = append(replacements, exchange.MassiveReplacement{
			Product:       product,
			SizeID:        size.SizeID,
			SizeName:      size.SizeName,
			PaymentMethod: sales.PaymentMethod(item.PaymentMethod),
		})
		newItems = append(newItems, sales.ProductSnapshot{
			ProductID: product.ID,
			Name:      product.Name,
			SizeName:  size.SizeName,
			Price:     product.Price,
			Cost:      product.Cost,
		})
	}

	originals := make([]exchange.MassiveOriginal, 0, len(originalSales))
	for i := range originalSales {
		product, err := s.resolveOriginalProduct(ctx, tenantID, &originalSales[i])
		if err != nil {
			return nil, err
		}
		originals = append(originals, exchange.MassiveOriginal{
			Sale:    &originalSales[i],
			Product: product,
		})
	}

	record, err := exchange.NewMassiveExchange(tenantID, originalSales, newItems, paymentMethod, req.Notes)
	if err != nil {
		return nil, err
	}

	plan, err := exchange.BuildMassivePlan(record, originals, replacements, intent)
	if err != nil {
		return nil, err
	}

	creditCreated, err := s.applyPlan(ctx, tenantID, plan)
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, plan, creditCreated)

	newSales := make([]SaleResponse, len(plan.NewSales))
	for i, sale := range plan.NewSales {
		newSales[i] = ToSaleResponse(sale)
	}

	response := &CreateMassiveExchangeResponse{
		Message:            fmt.Sprintf("Cambio masivo realizado: %d productos por %d productos", len(originalSales), len(req.NewProducts)),
		Exchange:           ToExchangeResponse(plan.Exchange),
		NewSales:           newSales,
		OriginalSalesCount: len(originalSales),
		NewSalesCount:      len(plan.NewSales),
		PriceDifference:    plan.PriceDifference,
	}
	if creditCreated != nil {
		cr := ToCreditResponse(creditCreated)
		response.CreditCreated = &cr
	}
	return response, nil
}

// GetByID retrieves an exchange by ID
func (s *Service) GetByID(ctx context.Context, tenantID, exchangeID uuid.UUID) (*ExchangeResponse, error) {
	e, err := s.exchangeRepo.FindByIDForTenant(ctx, tenantID, exchangeID)
	if err != nil {
		return nil, err
	}
	response := ToExchangeResponse(e)
	return &response, nil
}

// List retrieves exchanges with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter ExchangeListFilter) ([]ExchangeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	exchanges, err := s.exchangeRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.exchangeRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExchangeResponse, len(exchanges))
	for i := range exchanges {
		responses[i] = ToExchangeResponse(&exchanges[i])
	}
	return responses, total, nil
}

// Remove cancels a completed exchange and compensates its stock effects.
// The sale lines the exchange created are deleted. Whether the voided
// originals get their cost back is the AllowFullReversal policy choice:
// exchanges stay one-way once money changed hands unless the operator opts in.
func (s *Service) Remove(ctx context.Context, tenantID, exchangeID uuid.UUID, reason string) error {
	record, err := s.exchangeRepo.FindByIDForTenant(ctx, tenantID, exchangeID)
	if err != nil {
		return err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := record.Cancel(reason); err != nil {
			return err
		}
		if err := repos.ExchangeRepo().SaveWithLock(ctx, record); err != nil {
			return err
		}

		for _, move := range exchange.InverseStockMoves(record.AppliedStockMoves) {
			if err := repos.ProductRepo().AdjustStock(ctx, tenantID, move.ProductID, move.SizeID, move.Delta); err != nil {
				return err
			}
		}

		createdSales, err := repos.SaleRepo().FindAllForTenant(ctx, tenantID, shared.Filter{
			Filters: map[string]any{"related_exchange_id": record.ID, "exchange_state": sales.ExchangeStateCreated.String()},
		})
		if err != nil {
			return err
		}
		for i := range createdSales {
			if err := repos.SaleRepo().DeleteForTenant(ctx, tenantID, createdSales[i].ID); err != nil {
				return err
			}
		}

		for _, saleID := range record.OriginalSaleIDs {
			sale, err := repos.SaleRepo().FindByIDForTenant(ctx, tenantID, saleID)
			if err != nil {
				return err
			}
			if !sale.IsVoided() {
				continue
			}
			if s.config.AllowFullReversal && sale.SwapInfo != nil {
				if err := sale.RestoreVoidedCost(sale.SwapInfo.Original.Cost); err != nil {
					return err
				}
				if err := repos.SaleRepo().SaveWithLock(ctx, sale); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if s.eventPublisher != nil {
		for _, event := range record.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
		record.ClearDomainEvents()
	}
	return nil
}

// applyPlan is the single executor shared by all exchange branches. It walks
// the plan's writes in a fixed order inside the transaction scope: exchange
// record, sale mutations, new sale lines, stock moves, credit grant.
func (s *Service) applyPlan(ctx context.Context, tenantID uuid.UUID, plan *exchange.Plan) (*credit.ClientCredit, error) {
	var creditCreated *credit.ClientCredit

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		plan.Exchange.AppliedStockMoves = plan.StockMoves
		if err := repos.ExchangeRepo().Save(ctx, plan.Exchange); err != nil {
			return err
		}

		if plan.Resize != nil {
			r := plan.Resize
			if err := r.Sale.AnnotateSizeChange(plan.Exchange.ID, r.NewSizeID, r.NewSizeName); err != nil {
				return err
			}
			if err := repos.SaleRepo().SaveWithLock(ctx, r.Sale); err != nil {
				return err
			}
		}

		for _, v := range plan.Voids {
			if err := v.Sale.VoidForExchange(plan.Exchange.ID, v.Swap); err != nil {
				return err
			}
			if err := repos.SaleRepo().SaveWithLock(ctx, v.Sale); err != nil {
				return err
			}
		}

		for _, sale := range plan.NewSales {
			if err := repos.SaleRepo().Save(ctx, sale); err != nil {
				return err
			}
		}

		for _, move := range plan.StockMoves {
			if err := repos.ProductRepo().AdjustStock(ctx, tenantID, move.ProductID, move.SizeID, move.Delta); err != nil {
				return err
			}
		}

		if plan.Credit != nil {
			exchangeID := plan.Exchange.ID
			c, err := credit.NewClientCredit(
				tenantID,
				plan.Credit.DocumentNumber,
				plan.Credit.Phone,
				plan.Credit.ClientName,
				plan.Credit.Amount,
				plan.Credit.Reason,
				&exchangeID,
			)
			if err != nil {
				return err
			}
			if err := repos.CreditRepo().Save(ctx, c); err != nil {
				return err
			}
			creditCreated = c
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return creditCreated, nil
}

// resolveOriginalProduct finds the product backing a historical sale: the
// stable ProductID first, the denormalized name for legacy rows. A sale whose
// product can no longer be found is upstream data corruption.
func (s *Service) resolveOriginalProduct(ctx context.Context, tenantID uuid.UUID, sale *sales.Sale) (*catalog.Product, error) {
	if sale.ProductID != uuid.Nil {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, sale.ProductID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	product, err := s.productRepo.FindByNameForTenant(ctx, tenantID, sale.ProductName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrIntegrityFailure
		}
		return nil, err
	}
	return product, nil
}

// validateTransactionGrouping rejects a batch whose originals span more than
// one checkout transaction. All sales must share one TransactionID or all
// have none.
func validateTransactionGrouping(originalSales []sales.Sale) error {
	var groupID *uuid.UUID
	for i := range originalSales {
		txID := originalSales[i].TransactionID
		if i == 0 {
			groupID = txID
			continue
		}
		switch {
		case groupID == nil && txID == nil:
		case groupID != nil && txID != nil && *groupID == *txID:
		default:
			return shared.ErrInvalidBatch
		}
	}
	return nil
}

func paymentMethodOrDefault(raw string) sales.PaymentMethod {
	if raw == "" {
		return sales.PaymentMethodNotApplicable
	}
	return sales.PaymentMethod(raw)
}

func creditIntentFrom(action, document, phone, name string) *exchange.CreditIntent {
	if action == "" {
		return nil
	}
	return &exchange.CreditIntent{
		Action:         exchange.CreditAction(action),
		DocumentNumber: document,
		Phone:          phone,
		ClientName:     name,
	}
}

func (s *Service) publishEvents(ctx context.Context, plan *exchange.Plan, creditCreated *credit.ClientCredit) {
	if s.eventPublisher == nil {
		return
	}
	publish := func(events []shared.DomainEvent) {
		for _, event := range events {
			_ = s.eventPublisher.Publish(ctx, event)
		}
	}
	publish(plan.Exchange.GetDomainEvents())
	plan.Exchange.ClearDomainEvents()
	if plan.Resize != nil {
		publish(plan.Resize.Sale.GetDomainEvents())
		plan.Resize.Sale.ClearDomainEvents()
	}
	for _, v := range plan.Voids {
		publish(v.Sale.GetDomainEvents())
		v.Sale.ClearDomainEvents()
	}
	for _, sale := range plan.NewSales {
		publish(sale.GetDomainEvents())
		sale.ClearDomainEvents()
	}
	if creditCreated != nil {
		publish(creditCreated.GetDomainEvents())
		creditCreated.ClearDomainEvents()
	}
}
