package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Stock is the per-product aggregate view of inventory. Quantity
// mirrors the sum of unused quantity over the product's batches;
// InwardQuantity accumulates receipts while BillingQuantity and
// ReturnQuantity track net consumption per bucket, so
// Quantity == InwardQuantity - BillingQuantity - ReturnQuantity.
type Stock struct {
	shared.BaseAggregateRoot
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InwardQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BillingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReturnQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Stock) TableName() string {
	return "stocks"
}

// NewStock creates an empty stock row for a product
func NewStock(productID uuid.UUID) (*Stock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &Stock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Quantity:          decimal.Zero,
		InwardQuantity:    decimal.Zero,
		BillingQuantity:   decimal.Zero,
		ReturnQuantity:    decimal.Zero,
	}, nil
}

// ApplyReceipt records a goods receipt
func (s *Stock) ApplyReceipt(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}

	s.Quantity = s.Quantity.Add(quantity)
	s.InwardQuantity = s.InwardQuantity.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockChangedEvent(s, "receipt", quantity))

	return nil
}

// ApplyConsumption records quantity drained into a bucket. The batch
// ledger is the authority; a drop below zero here means the two views
// diverged mid-flight.
func (s *Stock) ApplyConsumption(bucket ConsumptionBucket, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Consumption quantity must be positive")
	}
	if quantity.GreaterThan(s.Quantity) {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", fmt.Sprintf("Stock for product %s has %s, cannot consume %s", s.ProductID, s.Quantity, quantity))
	}

	s.Quantity = s.Quantity.Sub(quantity)
	switch bucket {
	case BucketBilling:
		s.BillingQuantity = s.BillingQuantity.Add(quantity)
	case BucketReturn:
		s.ReturnQuantity = s.ReturnQuantity.Add(quantity)
	default:
		return shared.NewDomainError("INVALID_BUCKET", fmt.Sprintf("Unknown consumption bucket %q", bucket))
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockChangedEvent(s, string(bucket), quantity.Neg()))

	return nil
}

// ReverseConsumption returns previously consumed quantity to the shelf
func (s *Stock) ReverseConsumption(bucket ConsumptionBucket, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Reversal quantity must be positive")
	}

	var consumed decimal.Decimal
	switch bucket {
	case BucketBilling:
		consumed = s.BillingQuantity
	case BucketReturn:
		consumed = s.ReturnQuantity
	default:
		return shared.NewDomainError("INVALID_BUCKET", fmt.Sprintf("Unknown consumption bucket %q", bucket))
	}
	if quantity.GreaterThan(consumed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Stock for product %s has %s consumed via %s, cannot reverse %s", s.ProductID, consumed, bucket, quantity))
	}

	s.Quantity = s.Quantity.Add(quantity)
	switch bucket {
	case BucketBilling:
		s.BillingQuantity = s.BillingQuantity.Sub(quantity)
	case BucketReturn:
		s.ReturnQuantity = s.ReturnQuantity.Sub(quantity)
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockChangedEvent(s, string(bucket)+"_reversal", quantity))

	return nil
}
