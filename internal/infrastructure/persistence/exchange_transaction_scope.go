package persistence

import (
	"context"

	"gorm.io/gorm"

	appexchange "github.com/backoffice/backend/internal/application/exchange"
	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/exchange"
	"github.com/backoffice/backend/internal/domain/sales"
)

// GormExchangeTransactionScope implements the exchange TransactionScope using
// GORM transactions. Every repository handed to the callback shares one
// transaction, so an exchange either lands completely or not at all.
type GormExchangeTransactionScope struct {
	db *gorm.DB
}

// NewGormExchangeTransactionScope creates a new GormExchangeTransactionScope.
func NewGormExchangeTransactionScope(db *gorm.DB) *GormExchangeTransactionScope {
	return &GormExchangeTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormExchangeTransactionScope) Execute(ctx context.Context, fn func(repos appexchange.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormExchangeTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

type gormExchangeTransactionalRepositories struct {
	tx *gorm.DB
}

// ExchangeRepo returns the exchange repository scoped to the current transaction.
func (r *gormExchangeTransactionalRepositories) ExchangeRepo() exchange.ExchangeRepository {
	return NewGormExchangeRepository(r.tx)
}

// SaleRepo returns the sale repository scoped to the current transaction.
func (r *gormExchangeTransactionalRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormExchangeTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// CreditRepo returns the client credit repository scoped to the current transaction.
func (r *gormExchangeTransactionalRepositories) CreditRepo() credit.Repository {
	return NewGormClientCreditRepository(r.tx)
}

// Ensure GormExchangeTransactionScope implements TransactionScope
var _ appexchange.TransactionScope = (*GormExchangeTransactionScope)(nil)

// Ensure gormExchangeTransactionalRepositories implements TransactionalRepositories
var _ appexchange.TransactionalRepositories = (*gormExchangeTransactionalRepositories)(nil)
