package credit

import (
	"context"

	"github.com/backoffice/backend/internal/domain/credit"
)

// TransactionScope provides transactional access to the credit repository.
// Consuming credits mutates several records (full uses plus a split); all of
// them commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repository access within a transaction.
type TransactionalRepositories interface {
	// CreditRepo returns the credit repository scoped to the current transaction
	CreditRepo() credit.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	creditRepo credit.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository.
func NewNoOpTransactionScope(creditRepo credit.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{creditRepo: creditRepo}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CreditRepo returns the credit repository.
func (s *NoOpTransactionScope) CreditRepo() credit.Repository {
	return s.creditRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
