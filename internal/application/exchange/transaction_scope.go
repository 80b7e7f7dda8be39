package exchange

import (
	"context"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/exchange"
	"github.com/backoffice/backend/internal/domain/sales"
)

// TransactionScope runs an exchange's full write sequence inside one database
// transaction. An exchange touches four stores (exchanges, sales, product
// stock, client credits); a failure anywhere must roll back everything
// written so far, so no partially-applied exchange can survive a crash or a
// rejected write.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to every repository an exchange
// writes, all scoped to the same underlying transaction.
type TransactionalRepositories interface {
	// ExchangeRepo returns the exchange repository scoped to the current transaction
	ExchangeRepo() exchange.ExchangeRepository
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() sales.SaleRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// CreditRepo returns the client credit repository scoped to the current transaction
	CreditRepo() credit.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	exchangeRepo exchange.ExchangeRepository
	saleRepo     sales.SaleRepository
	productRepo  catalog.ProductRepository
	creditRepo   credit.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	exchangeRepo exchange.ExchangeRepository,
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	creditRepo credit.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		exchangeRepo: exchangeRepo,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		creditRepo:   creditRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ExchangeRepo returns the exchange repository.
func (s *NoOpTransactionScope) ExchangeRepo() exchange.ExchangeRepository {
	return s.exchangeRepo
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository {
	return s.saleRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// CreditRepo returns the client credit repository.
func (s *NoOpTransactionScope) CreditRepo() credit.Repository {
	return s.creditRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
