package inventory

import (
	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory domain
const (
	EventTypeInwardCreated = "inventory.inward.created"
	EventTypeStockChanged  = "inventory.stock.changed"
)

// InwardCreatedEvent is published when a goods receipt is recorded
type InwardCreatedEvent struct {
	shared.BaseDomainEvent
	InwardNumber  string          `json:"inward_number"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	VendorName    string          `json:"vendor_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// NewInwardCreatedEvent creates a new inward created event
func NewInwardCreatedEvent(in *Inward) *InwardCreatedEvent {
	return &InwardCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInwardCreated, "Inward", in.ID),
		InwardNumber:    in.InwardNumber,
		OrderID:         in.OrderID,
		VendorName:      in.VendorName,
		TotalQuantity:   in.TotalQuantity,
	}
}

// StockChangedEvent is published whenever a product's on-shelf quantity
// moves. Delta is positive for receipts and reversals, negative for
// consumption.
type StockChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Reason    string          `json:"reason"`
	Delta     decimal.Decimal `json:"delta"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewStockChangedEvent creates a new stock changed event
func NewStockChangedEvent(s *Stock, reason string, delta decimal.Decimal) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockChanged, "Stock", s.ID),
		ProductID:       s.ProductID,
		Reason:          reason,
		Delta:           delta,
		Quantity:        s.Quantity,
	}
}
