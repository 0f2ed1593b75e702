package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BillingStatus represents the status of a billing
type BillingStatus string

const (
	BillingStatusActive    BillingStatus = "active"
	BillingStatusCancelled BillingStatus = "cancelled"
)

// BillingItem is one product line of a billing. UnitPrice is the
// FIFO-weighted price over the consumed batches and Allocations records
// exactly which batches the quantity came from, so the line can be
// reversed precisely.
type BillingItem struct {
	ID             uuid.UUID                  `gorm:"type:uuid;primary_key"`
	BillingID      uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID                  `gorm:"type:uuid;not null"`
	ProductName    string                     `gorm:"type:varchar(200);not null"`
	Quantity       decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	DiscountAmount decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPrice     decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Allocations    inventory.BatchAllocations `gorm:"type:jsonb;not null"`
	CreatedAt      time.Time                  `gorm:"not null"`
	UpdatedAt      time.Time                  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BillingItem) TableName() string {
	return "billing_items"
}

// Billing is the patient sale aggregate root
type Billing struct {
	shared.BaseAggregateRoot
	BillingNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	PatientName   string          `gorm:"type:varchar(200);not null"`
	PatientRef    string          `gorm:"type:varchar(100)"` // external patient/visit identifier
	Items         []BillingItem   `gorm:"foreignKey:BillingID;references:ID"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Paid          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Due           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        BillingStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	BilledBy      string          `gorm:"type:varchar(100)"`
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (Billing) TableName() string {
	return "billings"
}

// NewBilling creates a new billing
func NewBilling(billingNumber, patientName, billedBy string) (*Billing, error) {
	if billingNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILLING_NUMBER", "Billing number cannot be empty")
	}
	if patientName == "" {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient name cannot be empty")
	}

	b := &Billing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillingNumber:     billingNumber,
		PatientName:       patientName,
		Items:             make([]BillingItem, 0),
		Subtotal:          decimal.Zero,
		Discount:          decimal.Zero,
		Tax:               decimal.Zero,
		Total:             decimal.Zero,
		Paid:              decimal.Zero,
		Due:               decimal.Zero,
		Status:            BillingStatusActive,
		BilledBy:          billedBy,
	}

	b.AddDomainEvent(NewBillingCreatedEvent(b))

	return b, nil
}

// AddAllocatedItem appends a line priced from a FIFO allocation plan.
// Discount and tax apply to this line only; the line total is the
// allocated cost minus discount plus tax.
func (b *Billing) AddAllocatedItem(productName string, plan *inventory.AllocationPlan, discount, tax decimal.Decimal) (*BillingItem, error) {
	if b.Status != BillingStatusActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a cancelled billing")
	}
	if plan == nil || len(plan.Allocations) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Allocation plan cannot be empty")
	}
	if discount.IsNegative() || tax.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Line discount and tax cannot be negative")
	}
	if discount.GreaterThan(plan.TotalCost) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Line discount cannot exceed the line cost")
	}

	now := time.Now()
	item := BillingItem{
		ID:             uuid.New(),
		BillingID:      b.ID,
		ProductID:      plan.ProductID,
		ProductName:    productName,
		Quantity:       plan.Requested,
		UnitPrice:      plan.WeightedUnitPrice,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalPrice:     plan.TotalCost.Sub(discount).Add(tax),
		Allocations:    plan.Allocations,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	b.Items = append(b.Items, item)
	b.recalculateTotals()
	b.UpdatedAt = now
	b.IncrementVersion()

	return &b.Items[len(b.Items)-1], nil
}

// ClearItems removes all lines ahead of a re-allocation during update.
// The caller must already have reversed the recorded allocations.
func (b *Billing) ClearItems() error {
	if b.Status != BillingStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a cancelled billing")
	}

	b.Items = make([]BillingItem, 0)
	b.recalculateTotals()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetCharges sets discount, tax and paid amounts and recomputes totals
func (b *Billing) SetCharges(discount, tax, paid decimal.Decimal) error {
	if b.Status != BillingStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a cancelled billing")
	}
	if discount.IsNegative() || tax.IsNegative() || paid.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Discount, tax and paid amounts cannot be negative")
	}
	if discount.GreaterThan(b.Subtotal) {
		return shared.NewDomainError("INVALID_INPUT", "Discount cannot exceed subtotal")
	}

	b.Discount = discount
	b.Tax = tax
	b.Paid = paid
	b.recalculateTotals()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Cancel marks the billing cancelled. The caller reverses the recorded
// allocations in the same transaction.
func (b *Billing) Cancel() error {
	if b.Status == BillingStatusCancelled {
		return shared.NewDomainError("CONFLICT", fmt.Sprintf("Billing %s is already cancelled", b.BillingNumber))
	}

	now := time.Now()
	b.Status = BillingStatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillingCancelledEvent(b))

	return nil
}

// IsActive returns true if the billing has not been cancelled
func (b *Billing) IsActive() bool {
	return b.Status == BillingStatusActive
}

// TotalQuantity returns the summed quantity over all lines
func (b *Billing) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

func (b *Billing) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range b.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	b.Subtotal = subtotal
	b.Total = b.Subtotal.Sub(b.Discount).Add(b.Tax)
	b.Due = b.Total.Sub(b.Paid)
}
