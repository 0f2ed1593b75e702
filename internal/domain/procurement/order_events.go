package procurement

import (
	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the procurement domain
const (
	EventTypeOrderCreated        = "procurement.order.created"
	EventTypeOrderReceiptApplied = "procurement.order.receipt_applied"
	EventTypeOrderCompleted      = "procurement.order.completed"
)

// OrderCreatedEvent is published when a purchase order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	VendorName  string `json:"vendor_name"`
}

// NewOrderCreatedEvent creates a new order created event
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		VendorName:      o.VendorName,
	}
}

// OrderReceiptAppliedEvent is published when a goods receipt draws down
// an order item's pending quantity
type OrderReceiptAppliedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Excess      decimal.Decimal `json:"excess"`
}

// NewOrderReceiptAppliedEvent creates a new receipt applied event
func NewOrderReceiptAppliedEvent(o *Order, productID uuid.UUID, quantity, excess decimal.Decimal) *OrderReceiptAppliedEvent {
	return &OrderReceiptAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReceiptApplied, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		ProductID:       productID,
		Quantity:        quantity,
		Excess:          excess,
	}
}

// OrderCompletedEvent is published when all pending quantity reaches zero
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderCompletedEvent creates a new order completed event
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
	}
}
