package inventory

import (
	"context"

	"github.com/commerce/backend/internal/domain/inventory"
	"github.com/commerce/backend/internal/domain/ledger"
	"github.com/commerce/backend/internal/domain/product"
	"github.com/commerce/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to the repositories a
// movement touches. Everything done inside Execute commits or rolls back
// atomically, which is what makes "record the movement and post it to the
// books" a single operation.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within the
// current transaction. All repositories share the same underlying transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the transaction
	ProductRepo() product.ProductRepository
	// TransactionRepo returns the movement journal repository scoped to the transaction
	TransactionRepo() inventory.TransactionRepository
	// AccountRepo returns the chart-of-accounts repository scoped to the transaction
	AccountRepo() ledger.AccountRepository
	// JournalRepo returns the journal entry repository scoped to the transaction
	JournalRepo() ledger.JournalEntryRepository
	// Sequences returns the sequence allocator scoped to the transaction
	Sequences() shared.SequenceAllocator
}

// NoOpTransactionScope runs the function against plain repositories without a
// real transaction. Useful in tests.
type NoOpTransactionScope struct {
	productRepo     product.ProductRepository
	transactionRepo inventory.TransactionRepository
	accountRepo     ledger.AccountRepository
	journalRepo     ledger.JournalEntryRepository
	sequences       shared.SequenceAllocator
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	productRepo product.ProductRepository,
	transactionRepo inventory.TransactionRepository,
	accountRepo ledger.AccountRepository,
	journalRepo ledger.JournalEntryRepository,
	sequences shared.SequenceAllocator,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		journalRepo:     journalRepo,
		sequences:       sequences,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() product.ProductRepository { return s.productRepo }

// TransactionRepo returns the movement journal repository
func (s *NoOpTransactionScope) TransactionRepo() inventory.TransactionRepository {
	return s.transactionRepo
}

// AccountRepo returns the chart-of-accounts repository
func (s *NoOpTransactionScope) AccountRepo() ledger.AccountRepository { return s.accountRepo }

// JournalRepo returns the journal entry repository
func (s *NoOpTransactionScope) JournalRepo() ledger.JournalEntryRepository { return s.journalRepo }

// Sequences returns the sequence allocator
func (s *NoOpTransactionScope) Sequences() shared.SequenceAllocator { return s.sequences }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
