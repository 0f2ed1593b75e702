package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Inward is the goods-receipt aggregate root. It owns the batches
// created by one receipt and keeps rolled-up counters of how much of
// the received quantity has since been consumed by billings and
// vendor returns.
type Inward struct {
	shared.BaseAggregateRoot
	InwardNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID         *uuid.UUID      `gorm:"type:uuid;index"` // nil for receipts without a purchase order
	VendorName      string          `gorm:"type:varchar(200);not null"`
	Batches         []Batch         `gorm:"foreignKey:InwardID;references:ID"`
	TotalQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BillingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReturnQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedAt      time.Time       `gorm:"not null"`
	ReceivedBy      string          `gorm:"type:varchar(100)"`
	Remark          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Inward) TableName() string {
	return "inwards"
}

// NewInward creates a new goods receipt
func NewInward(inwardNumber, vendorName string, orderID *uuid.UUID, receivedBy string) (*Inward, error) {
	if inwardNumber == "" {
		return nil, shared.NewDomainError("INVALID_INWARD_NUMBER", "Inward number cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor name cannot be empty")
	}

	inward := &Inward{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InwardNumber:      inwardNumber,
		OrderID:           orderID,
		VendorName:        vendorName,
		Batches:           make([]Batch, 0),
		TotalQuantity:     decimal.Zero,
		TotalAmount:       decimal.Zero,
		BillingQuantity:   decimal.Zero,
		ReturnQuantity:    decimal.Zero,
		ReceivedAt:        time.Now(),
		ReceivedBy:        receivedBy,
	}

	inward.AddDomainEvent(NewInwardCreatedEvent(inward))

	return inward, nil
}

// AddBatch creates a batch under this receipt
func (in *Inward) AddBatch(productID uuid.UUID, batchNumber string, quantity, unitPrice decimal.Decimal, expiryDate *time.Time) (*Batch, error) {
	batch, err := NewBatch(in.ID, productID, batchNumber, quantity, unitPrice, expiryDate, in.ReceivedAt)
	if err != nil {
		return nil, err
	}

	in.Batches = append(in.Batches, *batch)
	in.TotalQuantity = in.TotalQuantity.Add(quantity)
	in.TotalAmount = in.TotalAmount.Add(quantity.Mul(unitPrice))
	in.UpdatedAt = time.Now()
	in.IncrementVersion()

	return batch, nil
}

// RecordConsumption adjusts the rolled-up bucket counter by delta.
// Negative deltas record reversals.
func (in *Inward) RecordConsumption(bucket ConsumptionBucket, delta decimal.Decimal) error {
	var updated decimal.Decimal
	switch bucket {
	case BucketBilling:
		updated = in.BillingQuantity.Add(delta)
	case BucketReturn:
		updated = in.ReturnQuantity.Add(delta)
	default:
		return shared.NewDomainError("INVALID_BUCKET", "Unknown consumption bucket")
	}
	if updated.IsNegative() {
		return shared.NewDomainError("INVALID_STATE", "Consumption counter cannot go negative")
	}

	switch bucket {
	case BucketBilling:
		in.BillingQuantity = updated
	case BucketReturn:
		in.ReturnQuantity = updated
	}
	in.UpdatedAt = time.Now()
	in.IncrementVersion()

	return nil
}
