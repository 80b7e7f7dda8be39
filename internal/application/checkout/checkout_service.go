package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/orders"
	"github.com/backoffice/backend/internal/domain/sales"
	"github.com/backoffice/backend/internal/domain/shared"
)

// Config carries checkout policy values
type Config struct {
	// ReservationTTL is how long a pending order holds its stock before the
	// sweep releases it.
	ReservationTTL time.Duration
}

// Service handles checkout: order placement with stock reservation, optional
// store-credit application, gateway payment and the sale ledger rows written
// once an order is paid. It also owns manual ledger removal, which reverses
// the sold stock.
type Service struct {
	scope          TransactionScope
	orderRepo      orders.Repository
	saleRepo       sales.SaleRepository
	gateway        PaymentGateway
	config         Config
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewService creates a new checkout Service
func NewService(
	scope TransactionScope,
	orderRepo orders.Repository,
	saleRepo sales.SaleRepository,
	gateway PaymentGateway,
	config Config,
) *Service {
	if config.ReservationTTL <= 0 {
		config.ReservationTTL = 30 * time.Minute
	}
	return &Service{
		scope:     scope,
		orderRepo: orderRepo,
		saleRepo:  saleRepo,
		gateway:   gateway,
		config:    config,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// PlaceOrder reserves stock for the requested items and creates a pending
// order. Store credit, when requested, is consumed immediately so the amount
// sent to the payment gateway already reflects it; the order ID is recorded
// as the consuming reference.
func (s *Service) PlaceOrder(ctx context.Context, tenantID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	var order *orders.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		items := make([]orders.OrderItem, 0, len(req.Items))
		for _, input := range req.Items {
			product, err := repos.ProductRepo().FindByIDForTenant(ctx, tenantID, input.ProductID)
			if err != nil {
				return err
			}
			size := product.SizeByID(input.SizeID)
			if size == nil || size.Quantity < input.Quantity {
				return shared.ErrInsufficientStock
			}
			items = append(items, orders.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				SizeID:      size.SizeID,
				SizeName:    size.SizeName,
				Quantity:    input.Quantity,
				Price:       product.Price,
				Cost:        product.Cost,
			})
		}

		var err error
		order, err = orders.NewOrder(
			tenantID, items, req.PaymentMethod,
			req.DocumentNumber, req.Phone, req.ClientName,
			s.now().Add(s.config.ReservationTTL),
		)
		if err != nil {
			return err
		}

		// The conditional write is the stock floor: a concurrent checkout
		// racing for the last unit fails here instead of overselling.
		for _, item := range order.Items {
			if err := repos.ProductRepo().AdjustStock(ctx, tenantID, item.ProductID, item.SizeID, -item.Quantity); err != nil {
				return err
			}
		}

		if req.UseCredit {
			if err := s.applyCredit(ctx, repos, tenantID, order, req); err != nil {
				return err
			}
		}

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	initPoint := ""
	if s.gateway != nil && requiresGateway(order.PaymentMethod) && order.AmountDue().IsPositive() {
		pref, err := s.gateway.CreatePreference(ctx, PreferenceRequest{
			ExternalReference: order.ID.String(),
			Title:             fmt.Sprintf("Pedido %s", order.ID),
			Amount:            order.AmountDue(),
			PayerEmail:        req.PayerEmail,
		})
		if err != nil {
			return nil, err
		}
		order.PreferenceID = pref.ID
		initPoint = pref.InitPoint
		if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
			return nil, err
		}
	}

	s.publishOrderEvents(ctx, order)
	response := ToOrderResponse(order, initPoint)
	return &response, nil
}

// ConfirmPayment marks a pending order paid and writes one sale ledger row
// per reserved unit, all stamped with a shared transaction ID.
func (s *Service) ConfirmPayment(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	var order *orders.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		transactionID := uuid.New()
		if err := order.MarkPaid(transactionID, s.now()); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			for unit := 0; unit < item.Quantity; unit++ {
				sale, err := sales.NewSale(
					tenantID, s.now(),
					item.ProductID, item.ProductName,
					item.SizeID, item.SizeName,
					item.Price, item.Cost,
					sales.PaymentMethod(order.PaymentMethod),
					&transactionID,
				)
				if err != nil {
					return err
				}
				if err := repos.SaleRepo().Save(ctx, sale); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderEvents(ctx, order)
	response := ToOrderResponse(order, "")
	return &response, nil
}

// HandlePaymentNotification processes a gateway webhook: the payment is
// fetched back from the provider and, when approved, its order is confirmed.
// Unknown or non-approved payments are acknowledged without effect.
func (s *Service) HandlePaymentNotification(ctx context.Context, paymentID string) error {
	if s.gateway == nil {
		return shared.NewDomainError("GATEWAY_NOT_CONFIGURED", "No payment gateway is configured")
	}
	info, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if info.Status != PaymentStatusApproved {
		return nil
	}

	orderID, err := uuid.Parse(info.ExternalReference)
	if err != nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Payment external reference is not an order ID")
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != orders.StatusPending {
		// replayed notification for an already-settled order
		return nil
	}
	_, err = s.ConfirmPayment(ctx, order.TenantID, order.ID)
	return err
}

// CancelOrder cancels a pending order, restores its reserved stock and
// re-grants any credit it consumed.
func (s *Service) CancelOrder(ctx context.Context, tenantID, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	var order *orders.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		return s.cancelPending(ctx, repos, order, reason)
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderEvents(ctx, order)
	response := ToOrderResponse(order, "")
	return &response, nil
}

// ExpireReservations cancels pending orders whose reservation deadline has
// passed, restoring their stock. Called by the scheduler sweep; returns how
// many orders were released.
func (s *Service) ExpireReservations(ctx context.Context, now time.Time, limit int) (int, error) {
	expired, err := s.orderRepo.FindExpiredPending(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, order := range expired {
		order := order
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			return s.cancelPending(ctx, repos, order, "reserva vencida")
		})
		if err != nil {
			// keep sweeping; the failed order is retried next tick
			continue
		}
		s.publishOrderEvents(ctx, order)
		released++
	}
	return released, nil
}

// GetOrder retrieves an order by ID
func (s *Service) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order, "")
	return &response, nil
}

// ListSales retrieves sales ledger lines with filtering and pagination
func (s *Service) ListSales(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.ExchangeState != "" {
		domainFilter.Filters["exchange_state"] = filter.ExchangeState
	}
	if filter.PaymentMethod != "" {
		domainFilter.Filters["payment_method"] = filter.PaymentMethod
	}

	ledger, err := s.saleRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(ledger))
	for i := range ledger {
		responses[i] = ToSaleResponse(&ledger[i])
	}
	return responses, total, nil
}

// RemoveSale deletes a ledger line by explicit operator action and returns
// its unit to stock. Sales voided by an exchange cannot be removed; the
// exchange removal path owns their compensation.
func (s *Service) RemoveSale(ctx context.Context, tenantID, saleID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByIDForTenant(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale.IsVoided() || sale.WasCreatedByExchange() {
			return shared.ErrInvalidState
		}
		if err := repos.SaleRepo().DeleteForTenant(ctx, tenantID, saleID); err != nil {
			return err
		}
		return repos.ProductRepo().AdjustStock(ctx, tenantID, sale.ProductID, sale.SizeID, +1)
	})
}

func (s *Service) applyCredit(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, order *orders.Order, req PlaceOrderRequest) error {
	if req.DocumentNumber == "" && req.Phone == "" {
		return shared.NewDomainError("INVALID_CLIENT", "Client document number or phone is required to use credit")
	}
	active, err := repos.CreditRepo().FindActiveByClient(ctx, tenantID, req.DocumentNumber, req.Phone)
	if err != nil {
		return err
	}
	balance := credit.Balance(active)
	if !balance.IsPositive() {
		return nil
	}

	toUse := balance
	if toUse.GreaterThan(order.Total) {
		toUse = order.Total
	}
	result, err := credit.Consume(active, toUse, order.ID, s.now())
	if err != nil {
		return err
	}
	for _, c := range result.Updated {
		if err := repos.CreditRepo().SaveWithLock(ctx, c); err != nil {
			return err
		}
	}
	for _, c := range result.Created {
		if err := repos.CreditRepo().Save(ctx, c); err != nil {
			return err
		}
	}
	return order.ApplyCredit(result.TotalUsed)
}

func (s *Service) cancelPending(ctx context.Context, repos TransactionalRepositories, order *orders.Order, reason string) error {
	if err := order.Cancel(reason, s.now()); err != nil {
		return err
	}
	if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
		return err
	}
	for _, item := range order.Items {
		if err := repos.ProductRepo().AdjustStock(ctx, order.TenantID, item.ProductID, item.SizeID, +item.Quantity); err != nil {
			return err
		}
	}
	if order.CreditApplied.IsPositive() {
		regrant, err := credit.NewClientCredit(
			order.TenantID,
			order.DocumentNumber, order.Phone, order.ClientName,
			order.CreditApplied,
			fmt.Sprintf("Reintegro por pedido cancelado: %s", reason),
			nil,
		)
		if err != nil {
			return err
		}
		if err := repos.CreditRepo().Save(ctx, regrant); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) publishOrderEvents(ctx context.Context, order *orders.Order) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}

func requiresGateway(paymentMethod string) bool {
	switch paymentMethod {
	case sales.PaymentMethodQR.String(), sales.PaymentMethodCard.String():
		return true
	}
	return false
}
