package rental

import (
	"context"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/tenant"
)

// TransactionScope provides transactional access to the rental repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Balance mutations and receipt sequence allocation are the
// only operations that require this; everything else runs on plain snapshot
// reads.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// Renters returns the renter repository scoped to the current transaction
	Renters() rental.RenterRepository
	// Ledger returns the ledger entry repository scoped to the current transaction
	Ledger() rental.LedgerEntryRepository
	// Receipts returns the receipt repository scoped to the current transaction
	Receipts() rental.ReceiptRepository
	// History returns the history event repository scoped to the current transaction
	History() rental.HistoryEventRepository
	// Tenants returns the tenant repository scoped to the current transaction
	Tenants() tenant.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't use real
// transactions. Useful for unit tests with in-memory repositories.
type NoOpTransactionScope struct {
	renters  rental.RenterRepository
	ledger   rental.LedgerEntryRepository
	receipts rental.ReceiptRepository
	history  rental.HistoryEventRepository
	tenants  tenant.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	renters rental.RenterRepository,
	ledger rental.LedgerEntryRepository,
	receipts rental.ReceiptRepository,
	history rental.HistoryEventRepository,
	tenants tenant.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		renters:  renters,
		ledger:   ledger,
		receipts: receipts,
		history:  history,
		tenants:  tenants,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Renters returns the renter repository
func (s *NoOpTransactionScope) Renters() rental.RenterRepository { return s.renters }

// Ledger returns the ledger entry repository
func (s *NoOpTransactionScope) Ledger() rental.LedgerEntryRepository { return s.ledger }

// Receipts returns the receipt repository
func (s *NoOpTransactionScope) Receipts() rental.ReceiptRepository { return s.receipts }

// History returns the history event repository
func (s *NoOpTransactionScope) History() rental.HistoryEventRepository { return s.history }

// Tenants returns the tenant repository
func (s *NoOpTransactionScope) Tenants() tenant.Repository { return s.tenants }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
