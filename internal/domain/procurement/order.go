package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a purchase order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanReceive returns true if goods receipt is allowed in this status.
// A completed order can still receive: the recompute below will flip it
// back to pending if a correction re-opens outstanding quantity.
func (s OrderStatus) CanReceive() bool {
	return s == OrderStatusPending || s == OrderStatusApproved || s == OrderStatusCompleted
}

// OrderItem represents a line item in a purchase order.
// PendingQuantity is the quantity still awaiting receipt.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PendingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item with pending quantity equal to
// the ordered quantity.
func NewOrderItem(orderID, productID uuid.UUID, productName string, quantity, unitCost decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:              uuid.New(),
		OrderID:         orderID,
		ProductID:       productID,
		ProductName:     productName,
		Quantity:        quantity,
		PendingQuantity: quantity,
		UnitCost:        unitCost,
		Amount:          quantity.Mul(unitCost),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ApplyReceipt reduces the pending quantity by the received amount,
// clamped at zero. Returns the excess (received beyond pending), which
// the caller records on the batch; it never drives pending negative.
func (i *OrderItem) ApplyReceipt(quantity decimal.Decimal) (excess decimal.Decimal, err error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	reduction := decimal.Min(quantity, i.PendingQuantity)
	excess = quantity.Sub(reduction)
	i.PendingQuantity = i.PendingQuantity.Sub(reduction)
	i.UpdatedAt = time.Now()

	return excess, nil
}

// RestorePending re-opens pending quantity, capped at the ordered
// quantity. Used when a receipt is corrected.
func (i *OrderItem) RestorePending(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}

	restored := i.PendingQuantity.Add(quantity)
	if restored.GreaterThan(i.Quantity) {
		restored = i.Quantity
	}
	i.PendingQuantity = restored
	i.UpdatedAt = time.Now()

	return nil
}

// IsFulfilled returns true if nothing remains to be received
func (i *OrderItem) IsFulfilled() bool {
	return i.PendingQuantity.IsZero()
}

// Order represents a purchase order aggregate root. Goods receipts draw
// down item pending quantities; the order is completed exactly when the
// sum of pending quantities over all items is zero.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	VendorName  string          `gorm:"type:varchar(200);not null"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	Remark      string          `gorm:"type:text"`
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new purchase order
func NewOrder(orderNumber, vendorName string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor name cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		VendorName:        vendorName,
		Items:             make([]OrderItem, 0),
		TotalAmount:       decimal.Zero,
		Status:            OrderStatusPending,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line item. Only allowed before any receipt.
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity, unitCost decimal.Decimal) (*OrderItem, error) {
	if o.Status != OrderStatusPending && o.Status != OrderStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to order in current status")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// Approve marks a pending order approved
func (o *Order) Approve() error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve order without items")
	}

	o.Status = OrderStatusApproved
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// ApplyReceipt draws down the pending quantity of the item for the given
// product and recomputes the order status. Returns the excess quantity
// (received beyond pending) for the caller to record on the batch.
func (o *Order) ApplyReceipt(productID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !o.Status.CanReceive() {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}

	item := o.GetItemByProduct(productID)
	if item == nil {
		return decimal.Zero, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Product %s not found in order", productID))
	}

	excess, err := item.ApplyReceipt(quantity)
	if err != nil {
		return decimal.Zero, err
	}

	o.RecomputeStatus()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderReceiptAppliedEvent(o, productID, quantity, excess))

	return excess, nil
}

// RestorePending re-opens pending quantity for the given product after a
// receipt correction, then recomputes the order status.
func (o *Order) RestorePending(productID uuid.UUID, quantity decimal.Decimal) error {
	item := o.GetItemByProduct(productID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Product %s not found in order", productID))
	}

	if err := item.RestorePending(quantity); err != nil {
		return err
	}

	o.RecomputeStatus()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// RecomputeStatus derives the order status from the authoritative sum of
// item pending quantities: completed exactly when the sum is zero. A
// cancelled order stays cancelled.
func (o *Order) RecomputeStatus() {
	if o.Status == OrderStatusCancelled {
		return
	}

	if o.TotalPendingQuantity().IsZero() && len(o.Items) > 0 {
		if o.Status != OrderStatusCompleted {
			o.Status = OrderStatusCompleted
			now := time.Now()
			o.CompletedAt = &now
			o.AddDomainEvent(NewOrderCompletedEvent(o))
		}
		return
	}

	if o.Status == OrderStatusCompleted {
		o.Status = OrderStatusPending
		o.CompletedAt = nil
	}
}

// Cancel cancels the order. Allowed only before any receipt.
func (o *Order) Cancel(reason string) error {
	if o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if o.hasReceivedAnyGoods() {
		return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel order after goods have been received")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.Remark = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// TotalPendingQuantity returns the sum of pending quantities over all items
func (o *Order) TotalPendingQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.PendingQuantity)
	}
	return total
}

// GetItemByProduct returns the item for a product, or nil
func (o *Order) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

func (o *Order) hasReceivedAnyGoods() bool {
	for _, item := range o.Items {
		if item.PendingQuantity.LessThan(item.Quantity) {
			return true
		}
	}
	return false
}
