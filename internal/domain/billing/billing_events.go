package billing

import (
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the billing domain
const (
	EventTypeBillingCreated   = "billing.created"
	EventTypeBillingUpdated   = "billing.updated"
	EventTypeBillingCancelled = "billing.cancelled"
)

// BillingCreatedEvent is published when a billing is created
type BillingCreatedEvent struct {
	shared.BaseDomainEvent
	BillingNumber string          `json:"billing_number"`
	PatientName   string          `json:"patient_name"`
	Total         decimal.Decimal `json:"total"`
}

// NewBillingCreatedEvent creates a new billing created event
func NewBillingCreatedEvent(b *Billing) *BillingCreatedEvent {
	return &BillingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillingCreated, "Billing", b.ID),
		BillingNumber:   b.BillingNumber,
		PatientName:     b.PatientName,
		Total:           b.Total,
	}
}

// BillingUpdatedEvent is published when a billing's lines are replaced
type BillingUpdatedEvent struct {
	shared.BaseDomainEvent
	BillingNumber string          `json:"billing_number"`
	Total         decimal.Decimal `json:"total"`
}

// NewBillingUpdatedEvent creates a new billing updated event
func NewBillingUpdatedEvent(b *Billing) *BillingUpdatedEvent {
	return &BillingUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillingUpdated, "Billing", b.ID),
		BillingNumber:   b.BillingNumber,
		Total:           b.Total,
	}
}

// BillingCancelledEvent is published when a billing is cancelled and its
// consumption reversed
type BillingCancelledEvent struct {
	shared.BaseDomainEvent
	BillingNumber string `json:"billing_number"`
}

// NewBillingCancelledEvent creates a new billing cancelled event
func NewBillingCancelledEvent(b *Billing) *BillingCancelledEvent {
	return &BillingCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillingCancelled, "Billing", b.ID),
		BillingNumber:   b.BillingNumber,
	}
}
