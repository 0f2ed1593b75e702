package inventory

import (
	"context"

	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/catalog"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/returns"
)

// TransactionScope provides transactional access to the consumption
// ledger repositories. When a function is executed within a transaction
// scope, all repository operations are part of the same database
// transaction and are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories that
// participate in a ledger transaction. All repositories returned share
// the same underlying database transaction.
//
// Aggregate boundary notes:
//   - Inwards loads and saves the Inward aggregate with its batches.
//   - Batches serves the allocation path, which works on batch rows
//     across inwards and needs row locks; batches are created only
//     through the Inward aggregate.
//   - Stocks, Orders, Billings and Returns each map to one aggregate.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Orders() procurement.OrderRepository
	Inwards() inventory.InwardRepository
	Batches() inventory.BatchRepository
	Stocks() inventory.StockRepository
	Billings() billing.BillingRepository
	Returns() returns.ReturnRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests against repositories that already run
// on an isolated database.
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	orders   procurement.OrderRepository
	inwards  inventory.InwardRepository
	batches  inventory.BatchRepository
	stocks   inventory.StockRepository
	billings billing.BillingRepository
	returns  returns.ReturnRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	orders procurement.OrderRepository,
	inwards inventory.InwardRepository,
	batches inventory.BatchRepository,
	stocks inventory.StockRepository,
	billings billing.BillingRepository,
	returnRepo returns.ReturnRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products: products,
		orders:   orders,
		inwards:  inwards,
		batches:  batches,
		stocks:   stocks,
		billings: billings,
		returns:  returnRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() procurement.OrderRepository { return s.orders }

// Inwards returns the inward repository
func (s *NoOpTransactionScope) Inwards() inventory.InwardRepository { return s.inwards }

// Batches returns the batch repository
func (s *NoOpTransactionScope) Batches() inventory.BatchRepository { return s.batches }

// Stocks returns the stock repository
func (s *NoOpTransactionScope) Stocks() inventory.StockRepository { return s.stocks }

// Billings returns the billing repository
func (s *NoOpTransactionScope) Billings() billing.BillingRepository { return s.billings }

// Returns returns the vendor return repository
func (s *NoOpTransactionScope) Returns() returns.ReturnRepository { return s.returns }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
