package persistence

import (
	"context"

	appinventory "github.com/hms/backend/internal/application/inventory"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/catalog"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/returns"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM
// transactions. It provides atomic execution of multiple repository
// operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories
// within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Orders returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) Orders() procurement.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Inwards returns the inward repository scoped to the current transaction
func (r *gormTransactionalRepositories) Inwards() inventory.InwardRepository {
	return NewGormInwardRepository(r.tx)
}

// Batches returns the batch repository scoped to the current transaction
func (r *gormTransactionalRepositories) Batches() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

// Stocks returns the stock repository scoped to the current transaction
func (r *gormTransactionalRepositories) Stocks() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

// Billings returns the billing repository scoped to the current transaction
func (r *gormTransactionalRepositories) Billings() billing.BillingRepository {
	return NewGormBillingRepository(r.tx)
}

// Returns returns the vendor return repository scoped to the current transaction
func (r *gormTransactionalRepositories) Returns() returns.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
