package returns

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnStatus represents the status of a vendor return
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "pending"
	ReturnStatusProcessed ReturnStatus = "processed"
	ReturnStatusCancelled ReturnStatus = "cancelled"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusProcessed, ReturnStatusCancelled:
		return true
	}
	return false
}

// ReturnItem is one product line of a vendor return. Allocations records
// which batches the returned quantity was drawn from once the return is
// processed.
type ReturnItem struct {
	ID          uuid.UUID                  `gorm:"type:uuid;primary_key"`
	ReturnID    uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID                  `gorm:"type:uuid;not null"`
	ProductName string                     `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount   decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPrice  decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	Reason      string                     `gorm:"type:varchar(500)"`
	Allocations inventory.BatchAllocations `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time                  `gorm:"not null"`
	UpdatedAt   time.Time                  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnItem) TableName() string {
	return "return_items"
}

// Return is the vendor-return aggregate root. A pending return has
// reserved nothing; stock is drawn from batches only when the return
// is processed, which is a terminal state.
type Return struct {
	shared.BaseAggregateRoot
	ReturnNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	VendorName   string          `gorm:"type:varchar(200);not null"`
	BillingID    *uuid.UUID      `gorm:"type:uuid;index"` // billing whose goods go back, when known
	Items        []ReturnItem    `gorm:"foreignKey:ReturnID;references:ID"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       ReturnStatus    `gorm:"type:varchar(20);not null;default:'pending'"`
	Reason       string          `gorm:"type:text"`
	CreatedBy    string          `gorm:"type:varchar(100)"`
	ProcessedAt  *time.Time
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a new pending vendor return
func NewReturn(returnNumber, vendorName, reason, createdBy string) (*Return, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor name cannot be empty")
	}

	r := &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      returnNumber,
		VendorName:        vendorName,
		Items:             make([]ReturnItem, 0),
		TotalAmount:       decimal.Zero,
		Status:            ReturnStatusPending,
		Reason:            reason,
		CreatedBy:         createdBy,
	}

	r.AddDomainEvent(NewReturnCreatedEvent(r))

	return r, nil
}

// AddItem adds a product line to a pending return. Tax applies to this
// line once it is priced; reason is informational per line.
func (r *Return) AddItem(productID uuid.UUID, productName string, quantity, taxAmount decimal.Decimal, reason string) (*ReturnItem, error) {
	if r.Status != ReturnStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending return")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if taxAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Line tax cannot be negative")
	}

	for _, item := range r.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in return")
		}
	}

	now := time.Now()
	item := ReturnItem{
		ID:          uuid.New(),
		ReturnID:    r.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   decimal.Zero,
		TaxAmount:   taxAmount,
		TotalPrice:  decimal.Zero,
		Reason:      reason,
		Allocations: inventory.BatchAllocations{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.Items = append(r.Items, item)
	r.UpdatedAt = now
	r.IncrementVersion()

	return &r.Items[len(r.Items)-1], nil
}

// RecordItemAllocation prices an item from its FIFO allocation plan.
// Called while processing, before MarkProcessed.
func (r *Return) RecordItemAllocation(itemID uuid.UUID, plan *inventory.AllocationPlan) error {
	if r.Status != ReturnStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Can only allocate items on a pending return")
	}

	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			r.Items[idx].UnitPrice = plan.WeightedUnitPrice
			r.Items[idx].TotalPrice = plan.TotalCost.Add(r.Items[idx].TaxAmount)
			r.Items[idx].Allocations = plan.Allocations
			r.Items[idx].UpdatedAt = time.Now()
			r.recalculateTotal()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Return item not found")
}

// MarkProcessed transitions pending → processed. Processed is terminal:
// a second processing attempt is a conflict, not a repeat.
func (r *Return) MarkProcessed() error {
	if r.Status == ReturnStatusProcessed {
		return shared.NewDomainError("CONFLICT", fmt.Sprintf("Return %s is already processed", r.ReturnNumber))
	}
	if r.Status != ReturnStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot process return in %s status", r.Status))
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot process return without items")
	}

	now := time.Now()
	r.Status = ReturnStatusProcessed
	r.ProcessedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnProcessedEvent(r))

	return nil
}

// Cancel transitions pending → cancelled. A processed return cannot be
// cancelled; the stock has already left the shelf.
func (r *Return) Cancel() error {
	if r.Status == ReturnStatusProcessed {
		return shared.NewDomainError("CONFLICT", fmt.Sprintf("Return %s is already processed", r.ReturnNumber))
	}
	if r.Status != ReturnStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// IsPending returns true if the return has not been processed or cancelled
func (r *Return) IsPending() bool {
	return r.Status == ReturnStatusPending
}

// TotalQuantity returns the summed quantity over all lines
func (r *Return) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

func (r *Return) recalculateTotal() {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.TotalPrice)
	}
	r.TotalAmount = total
}
