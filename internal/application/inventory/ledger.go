package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ConsumeStock plans and applies a FIFO deduction of quantity for one
// product into the given bucket. It locks the product's batch rows for
// the duration of the transaction, moves quantity between buckets,
// rolls the delta up to the owning inwards and draws down the stock
// aggregate. The returned plan carries the exact batch allocations for
// the caller to persist on its line item.
//
// On a shortfall nothing is written and the error unwraps to
// *inventory.InsufficientStockError.
func ConsumeStock(ctx context.Context, repos TransactionalRepositories, productID uuid.UUID, quantity decimal.Decimal, bucket inventory.ConsumptionBucket) (*inventory.AllocationPlan, error) {
	batches, err := repos.Batches().FindByProductForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	plan, err := inventory.PlanAllocation(productID, quantity, batches)
	if err != nil {
		return nil, err
	}

	if err := inventory.ApplyAllocation(batches, bucket, plan); err != nil {
		return nil, err
	}

	touched := touchedBatches(batches, plan.Allocations)
	if err := repos.Batches().SaveAll(ctx, touched); err != nil {
		return nil, err
	}

	for inwardID, delta := range deltaByInward(touched, plan.Allocations) {
		if err := repos.Inwards().AddConsumption(ctx, inwardID, bucket, delta); err != nil {
			return nil, err
		}
	}

	stock, err := repos.Stocks().FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := stock.ApplyConsumption(bucket, quantity); err != nil {
		return nil, err
	}
	if err := repos.Stocks().SaveWithLock(ctx, stock); err != nil {
		return nil, err
	}

	return plan, nil
}

// ReleaseStock reverses previously recorded allocations for one product
// line: quantity moves from the bucket back to unused on the exact
// batches it was taken from, the inward rollups shrink and the stock
// aggregate grows back.
func ReleaseStock(ctx context.Context, repos TransactionalRepositories, productID uuid.UUID, bucket inventory.ConsumptionBucket, allocations inventory.BatchAllocations) error {
	if len(allocations) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(allocations))
	for _, alloc := range allocations {
		ids = append(ids, alloc.BatchID)
	}

	batches, err := repos.Batches().FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return err
	}

	if err := inventory.ReverseAllocation(batches, bucket, allocations); err != nil {
		return err
	}

	if err := repos.Batches().SaveAll(ctx, batches); err != nil {
		return err
	}

	for inwardID, delta := range deltaByInward(batches, allocations) {
		if err := repos.Inwards().AddConsumption(ctx, inwardID, bucket, delta.Neg()); err != nil {
			return err
		}
	}

	stock, err := repos.Stocks().FindByProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := stock.ReverseConsumption(bucket, allocations.TotalQuantity()); err != nil {
		return err
	}
	return repos.Stocks().SaveWithLock(ctx, stock)
}

func touchedBatches(batches []*inventory.Batch, allocations inventory.BatchAllocations) []*inventory.Batch {
	allocated := make(map[uuid.UUID]bool, len(allocations))
	for _, alloc := range allocations {
		allocated[alloc.BatchID] = true
	}
	touched := make([]*inventory.Batch, 0, len(allocations))
	for _, b := range batches {
		if allocated[b.ID] {
			touched = append(touched, b)
		}
	}
	return touched
}

func deltaByInward(batches []*inventory.Batch, allocations inventory.BatchAllocations) map[uuid.UUID]decimal.Decimal {
	inwardByBatch := make(map[uuid.UUID]uuid.UUID, len(batches))
	for _, b := range batches {
		inwardByBatch[b.ID] = b.InwardID
	}
	deltas := make(map[uuid.UUID]decimal.Decimal)
	for _, alloc := range allocations {
		inwardID := inwardByBatch[alloc.BatchID]
		deltas[inwardID] = deltas[inwardID].Add(alloc.Quantity)
	}
	return deltas
}
