package persistence

import (
	"context"

	"gorm.io/gorm"

	appcredit "github.com/backoffice/backend/internal/application/credit"
	"github.com/backoffice/backend/internal/domain/credit"
)

// GormCreditTransactionScope implements the credit TransactionScope using
// GORM transactions. A FIFO consumption touches several credit rows; they
// all commit or roll back together.
type GormCreditTransactionScope struct {
	db *gorm.DB
}

// NewGormCreditTransactionScope creates a new GormCreditTransactionScope.
func NewGormCreditTransactionScope(db *gorm.DB) *GormCreditTransactionScope {
	return &GormCreditTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormCreditTransactionScope) Execute(ctx context.Context, fn func(repos appcredit.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormCreditTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

type gormCreditTransactionalRepositories struct {
	tx *gorm.DB
}

// CreditRepo returns the credit repository scoped to the current transaction.
func (r *gormCreditTransactionalRepositories) CreditRepo() credit.Repository {
	return NewGormClientCreditRepository(r.tx)
}

// Ensure GormCreditTransactionScope implements TransactionScope
var _ appcredit.TransactionScope = (*GormCreditTransactionScope)(nil)

// Ensure gormCreditTransactionalRepositories implements TransactionalRepositories
var _ appcredit.TransactionalRepositories = (*gormCreditTransactionalRepositories)(nil)
