package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ConsumptionBucket identifies where consumed batch quantity went
type ConsumptionBucket string

const (
	BucketBilling ConsumptionBucket = "billing"
	BucketReturn  ConsumptionBucket = "return"
)

// IsValid checks if the bucket is a known consumption bucket
func (b ConsumptionBucket) IsValid() bool {
	return b == BucketBilling || b == BucketReturn
}

// Batch is a received lot of a single product. Received quantity is
// split across three buckets that always sum back to Quantity:
//
//	Quantity == UnusedQuantity + BillingQuantity + ReturnQuantity
//
// ExcessQuantity records over-receipt against the purchase order and is
// informational; it is part of Quantity, not a fourth bucket.
// Sequence is a monotonic insertion counter used to break FIFO ties
// between batches received at the same instant.
type Batch struct {
	shared.BaseEntity
	InwardID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber     string          `gorm:"type:varchar(100);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnusedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BillingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReturnQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExcessQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpiryDate      *time.Time
	ReceivedAt      time.Time `gorm:"not null;index"`
	Sequence        int64     `gorm:"autoIncrement;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates a new fully-unused batch
func NewBatch(inwardID, productID uuid.UUID, batchNumber string, quantity, unitPrice decimal.Decimal, expiryDate *time.Time, receivedAt time.Time) (*Batch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Batch{
		BaseEntity:      shared.NewBaseEntity(),
		InwardID:        inwardID,
		ProductID:       productID,
		BatchNumber:     batchNumber,
		Quantity:        quantity,
		UnusedQuantity:  quantity,
		BillingQuantity: decimal.Zero,
		ReturnQuantity:  decimal.Zero,
		ExcessQuantity:  decimal.Zero,
		UnitPrice:       unitPrice,
		ExpiryDate:      expiryDate,
		ReceivedAt:      receivedAt,
	}, nil
}

// Available returns the quantity still on the shelf
func (b *Batch) Available() decimal.Decimal {
	return b.UnusedQuantity
}

// IsAvailable returns true if any quantity remains unused
func (b *Batch) IsAvailable() bool {
	return b.UnusedQuantity.GreaterThan(decimal.Zero)
}

// MarkExcess records quantity received beyond the order's pending amount
func (b *Batch) MarkExcess(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Excess quantity cannot be negative")
	}
	if quantity.GreaterThan(b.Quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Excess quantity cannot exceed batch quantity")
	}

	b.ExcessQuantity = quantity
	b.UpdatedAt = time.Now()

	return nil
}

// ConsumeInto moves quantity from the unused bucket into the given
// consumption bucket
func (b *Batch) ConsumeInto(bucket ConsumptionBucket, quantity decimal.Decimal) error {
	if !bucket.IsValid() {
		return shared.NewDomainError("INVALID_BUCKET", fmt.Sprintf("Unknown consumption bucket %q", bucket))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Consume quantity must be positive")
	}
	if quantity.GreaterThan(b.UnusedQuantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Batch %s has %s unused, cannot consume %s", b.BatchNumber, b.UnusedQuantity, quantity))
	}

	b.UnusedQuantity = b.UnusedQuantity.Sub(quantity)
	switch bucket {
	case BucketBilling:
		b.BillingQuantity = b.BillingQuantity.Add(quantity)
	case BucketReturn:
		b.ReturnQuantity = b.ReturnQuantity.Add(quantity)
	}
	b.UpdatedAt = time.Now()

	return nil
}

// ReleaseFrom moves quantity out of the given consumption bucket back
// into the unused bucket. Used when a billing or return is reversed.
func (b *Batch) ReleaseFrom(bucket ConsumptionBucket, quantity decimal.Decimal) error {
	if !bucket.IsValid() {
		return shared.NewDomainError("INVALID_BUCKET", fmt.Sprintf("Unknown consumption bucket %q", bucket))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}

	var held decimal.Decimal
	switch bucket {
	case BucketBilling:
		held = b.BillingQuantity
	case BucketReturn:
		held = b.ReturnQuantity
	}
	if quantity.GreaterThan(held) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Batch %s holds %s in %s bucket, cannot release %s", b.BatchNumber, held, bucket, quantity))
	}

	switch bucket {
	case BucketBilling:
		b.BillingQuantity = b.BillingQuantity.Sub(quantity)
	case BucketReturn:
		b.ReturnQuantity = b.ReturnQuantity.Sub(quantity)
	}
	b.UnusedQuantity = b.UnusedQuantity.Add(quantity)
	b.UpdatedAt = time.Now()

	return nil
}

// InvariantHolds reports whether the bucket quantities sum back to the
// received quantity
func (b *Batch) InvariantHolds() bool {
	sum := b.UnusedQuantity.Add(b.BillingQuantity).Add(b.ReturnQuantity)
	return sum.Equal(b.Quantity)
}
