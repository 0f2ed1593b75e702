package returns

import (
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the returns domain
const (
	EventTypeReturnCreated   = "returns.created"
	EventTypeReturnProcessed = "returns.processed"
)

// ReturnCreatedEvent is published when a vendor return is created
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string `json:"return_number"`
	VendorName   string `json:"vendor_name"`
}

// NewReturnCreatedEvent creates a new return created event
func NewReturnCreatedEvent(r *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, "Return", r.ID),
		ReturnNumber:    r.ReturnNumber,
		VendorName:      r.VendorName,
	}
}

// ReturnProcessedEvent is published when a return drains stock
type ReturnProcessedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber  string          `json:"return_number"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// NewReturnProcessedEvent creates a new return processed event
func NewReturnProcessedEvent(r *Return) *ReturnProcessedEvent {
	return &ReturnProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnProcessed, "Return", r.ID),
		ReturnNumber:    r.ReturnNumber,
		TotalQuantity:   r.TotalQuantity(),
	}
}
