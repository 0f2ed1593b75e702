package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InsufficientStockError reports a shortfall while planning an
// allocation. The plan mutates nothing, so the caller can surface the
// shortfall and abort without any cleanup.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested decimal.Decimal
	Available decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %s, available %s", e.ProductID, e.Requested, e.Available)
}

// DomainError maps the shortfall to the shared error taxonomy
func (e *InsufficientStockError) DomainError() *shared.DomainError {
	return shared.NewDomainError("INSUFFICIENT_STOCK", e.Error())
}

// BatchAllocation records quantity taken from one batch at its price
type BatchAllocation struct {
	BatchID   uuid.UUID       `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// BatchAllocations is stored on billing and return items as a JSON
// column so that reversals can undo exactly what was consumed
type BatchAllocations []BatchAllocation

// Value implements driver.Valuer
func (a BatchAllocations) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (a *BatchAllocations) Scan(value interface{}) error {
	if value == nil {
		*a = BatchAllocations{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BatchAllocations", value)
	}
	return json.Unmarshal(data, a)
}

// TotalQuantity returns the summed quantity over all allocations
func (a BatchAllocations) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, alloc := range a {
		total = total.Add(alloc.Quantity)
	}
	return total
}

// AllocationPlan is the result of planning a FIFO deduction
type AllocationPlan struct {
	ProductID         uuid.UUID
	Requested         decimal.Decimal
	Allocations       BatchAllocations
	TotalCost         decimal.Decimal
	WeightedUnitPrice decimal.Decimal
}

// SortFIFO orders batches oldest receipt first; batches received at the
// same instant fall back to insertion order via the sequence counter.
func SortFIFO(batches []*Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].ReceivedAt.Equal(batches[j].ReceivedAt) {
			return batches[i].ReceivedAt.Before(batches[j].ReceivedAt)
		}
		return batches[i].Sequence < batches[j].Sequence
	})
}

// PlanAllocation walks the product's batches in FIFO order and plans a
// greedy deduction covering the requested quantity. Planning is pure:
// no batch is mutated, and a shortfall returns InsufficientStockError
// with the total available quantity.
func PlanAllocation(productID uuid.UUID, requested decimal.Decimal, batches []*Batch) (*AllocationPlan, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	available := decimal.Zero
	for _, b := range batches {
		if b.ProductID == productID {
			available = available.Add(b.UnusedQuantity)
		}
	}
	if available.LessThan(requested) {
		return nil, &InsufficientStockError{
			ProductID: productID,
			Requested: requested,
			Available: available,
		}
	}

	ordered := make([]*Batch, 0, len(batches))
	for _, b := range batches {
		if b.ProductID == productID && b.IsAvailable() {
			ordered = append(ordered, b)
		}
	}
	SortFIFO(ordered)

	plan := &AllocationPlan{
		ProductID:   productID,
		Requested:   requested,
		Allocations: make(BatchAllocations, 0, len(ordered)),
		TotalCost:   decimal.Zero,
	}

	remaining := requested
	for _, b := range ordered {
		if remaining.IsZero() {
			break
		}

		take := decimal.Min(b.UnusedQuantity, remaining)
		plan.Allocations = append(plan.Allocations, BatchAllocation{
			BatchID:   b.ID,
			Quantity:  take,
			UnitPrice: b.UnitPrice,
		})
		plan.TotalCost = plan.TotalCost.Add(take.Mul(b.UnitPrice))
		remaining = remaining.Sub(take)
	}

	plan.WeightedUnitPrice = plan.TotalCost.Div(requested).Round(4)

	return plan, nil
}

// ApplyAllocation moves the planned quantities from the unused bucket
// into the given consumption bucket
func ApplyAllocation(batches []*Batch, bucket ConsumptionBucket, plan *AllocationPlan) error {
	byID := indexBatches(batches)
	for _, alloc := range plan.Allocations {
		b, ok := byID[alloc.BatchID]
		if !ok {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Batch %s from allocation plan not loaded", alloc.BatchID))
		}
		if err := b.ConsumeInto(bucket, alloc.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ReverseAllocation is the exact inverse of ApplyAllocation: it returns
// the recorded quantities from the consumption bucket to the unused
// bucket, batch by batch.
func ReverseAllocation(batches []*Batch, bucket ConsumptionBucket, allocations BatchAllocations) error {
	byID := indexBatches(batches)
	for _, alloc := range allocations {
		b, ok := byID[alloc.BatchID]
		if !ok {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Batch %s from recorded allocation not loaded", alloc.BatchID))
		}
		if err := b.ReleaseFrom(bucket, alloc.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ReverseLatestFirst releases quantity from the newest consumed batches
// first. It is a fallback for rows that predate recorded allocations;
// the orchestrators always reverse from the recorded provenance.
func ReverseLatestFirst(batches []*Batch, bucket ConsumptionBucket, quantity decimal.Decimal) (BatchAllocations, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reversal quantity must be positive")
	}

	ordered := make([]*Batch, len(batches))
	copy(ordered, batches)
	SortFIFO(ordered)

	released := make(BatchAllocations, 0)
	remaining := quantity
	for i := len(ordered) - 1; i >= 0 && remaining.GreaterThan(decimal.Zero); i-- {
		b := ordered[i]

		var held decimal.Decimal
		switch bucket {
		case BucketBilling:
			held = b.BillingQuantity
		case BucketReturn:
			held = b.ReturnQuantity
		default:
			return nil, shared.NewDomainError("INVALID_BUCKET", "Unknown consumption bucket")
		}
		if held.IsZero() {
			continue
		}

		release := decimal.Min(held, remaining)
		if err := b.ReleaseFrom(bucket, release); err != nil {
			return nil, err
		}
		released = append(released, BatchAllocation{
			BatchID:   b.ID,
			Quantity:  release,
			UnitPrice: b.UnitPrice,
		})
		remaining = remaining.Sub(release)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Could not reverse %s from %s bucket, %s unaccounted", quantity, bucket, remaining))
	}

	return released, nil
}

func indexBatches(batches []*Batch) map[uuid.UUID]*Batch {
	byID := make(map[uuid.UUID]*Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}
	return byID
}
