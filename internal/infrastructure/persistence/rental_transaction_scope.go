package persistence

import (
	"context"

	apprental "github.com/boothledger/backend/internal/application/rental"
	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/tenant"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations and maps
// serialization failures to the retryable conflict error.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apprental.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
	return translateConflict(err)
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Renters returns the renter repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Renters() rental.RenterRepository {
	return NewGormRenterRepository(r.tx)
}

// Ledger returns the ledger entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Ledger() rental.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// Receipts returns the receipt repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Receipts() rental.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

// History returns the history event repository scoped to the current transaction.
func (r *gormTransactionalRepositories) History() rental.HistoryEventRepository {
	return NewGormHistoryEventRepository(r.tx)
}

// Tenants returns the tenant repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Tenants() tenant.Repository {
	return NewGormTenantRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ apprental.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ apprental.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
