package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InwardRepository defines persistence operations for goods receipts.
// Implementations load and save the inward together with its batches
// (the aggregate boundary).
type InwardRepository interface {
	shared.Repository[Inward]
	FindByNumber(ctx context.Context, inwardNumber string) (*Inward, error)
	// AddConsumption adjusts the inward's rolled-up bucket counter by
	// delta without loading the aggregate. Negative deltas record
	// reversals.
	AddConsumption(ctx context.Context, inwardID uuid.UUID, bucket ConsumptionBucket, delta decimal.Decimal) error
}

// BatchRepository defines persistence operations for batches. Batches
// are created through the Inward aggregate; this repository serves the
// allocation path, which works across inwards.
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Batch, error)
	// FindByProductForUpdate loads every batch of the product with
	// SELECT ... FOR UPDATE so concurrent allocations serialize on the
	// same rows for the duration of the transaction.
	FindByProductForUpdate(ctx context.Context, productID uuid.UUID) ([]*Batch, error)
	// FindByIDsForUpdate loads the given batches with row locks, for
	// reversal paths that know exactly which batches they touch.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*Batch, error)
	SaveAll(ctx context.Context, batches []*Batch) error
}

// StockRepository defines persistence operations for per-product stock
type StockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Stock, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) (*Stock, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Stock, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, stock *Stock) error
	// SaveWithLock saves the stock using optimistic locking on the
	// version column and returns ErrConcurrencyConflict when the row
	// was modified by another process.
	SaveWithLock(ctx context.Context, stock *Stock) error
}
