package persistence

import (
	"context"

	"gorm.io/gorm"

	appcheckout "github.com/backoffice/backend/internal/application/checkout"
	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/orders"
	"github.com/backoffice/backend/internal/domain/sales"
)

// GormCheckoutTransactionScope implements the checkout TransactionScope using
// GORM transactions. Order placement writes the order, its stock reservations
// and any consumed credit in one atomic step.
type GormCheckoutTransactionScope struct {
	db *gorm.DB
}

// NewGormCheckoutTransactionScope creates a new GormCheckoutTransactionScope.
func NewGormCheckoutTransactionScope(db *gorm.DB) *GormCheckoutTransactionScope {
	return &GormCheckoutTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormCheckoutTransactionScope) Execute(ctx context.Context, fn func(repos appcheckout.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormCheckoutTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

type gormCheckoutTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormCheckoutTransactionalRepositories) OrderRepo() orders.Repository {
	return NewGormOrderRepository(r.tx)
}

// SaleRepo returns the sale repository scoped to the current transaction.
func (r *gormCheckoutTransactionalRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormCheckoutTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// CreditRepo returns the client credit repository scoped to the current transaction.
func (r *gormCheckoutTransactionalRepositories) CreditRepo() credit.Repository {
	return NewGormClientCreditRepository(r.tx)
}

// Ensure GormCheckoutTransactionScope implements TransactionScope
var _ appcheckout.TransactionScope = (*GormCheckoutTransactionScope)(nil)

// Ensure gormCheckoutTransactionalRepositories implements TransactionalRepositories
var _ appcheckout.TransactionalRepositories = (*gormCheckoutTransactionalRepositories)(nil)
