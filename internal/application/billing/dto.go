package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateBillingRequest is the application-level request for billing a
// patient
type CreateBillingRequest struct {
	BillingNumber string
	PatientName   string
	PatientRef    string
	BilledBy      string
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Paid          decimal.Decimal
	Items         []BillingItemRequest
}

// BillingItemRequest is one product line of a billing request.
// DiscountAmount and TaxAmount apply to the line; header-level charges
// live on the request itself.
type BillingItemRequest struct {
	ProductID      uuid.UUID
	Quantity       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
}

// UpdateBillingRequest replaces the lines and charges of a billing
type UpdateBillingRequest struct {
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Paid     decimal.Decimal
	Items    []BillingItemRequest
}

// BillingListFilter carries list query options
type BillingListFilter struct {
	Page        int
	PageSize    int
	OrderBy     string
	OrderDir    string
	Search      string
	PatientName string
	Status      string
}

// BillingItemResponse is the API view of a billing line
type BillingItemResponse struct {
	ID             uuid.UUID                  `json:"id"`
	ProductID      uuid.UUID                  `json:"product_id"`
	ProductName    string                     `json:"product_name"`
	Quantity       decimal.Decimal            `json:"quantity"`
	UnitPrice      decimal.Decimal            `json:"unit_price"`
	DiscountAmount decimal.Decimal            `json:"discount_amount"`
	TaxAmount      decimal.Decimal            `json:"tax_amount"`
	TotalPrice     decimal.Decimal            `json:"total_price"`
	Allocations    inventory.BatchAllocations `json:"allocations"`
}

// BillingResponse is the API view of a billing
type BillingResponse struct {
	ID            uuid.UUID             `json:"id"`
	BillingNumber string                `json:"billing_number"`
	PatientName   string                `json:"patient_name"`
	PatientRef    string                `json:"patient_ref,omitempty"`
	Items         []BillingItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Discount      decimal.Decimal       `json:"discount"`
	Tax           decimal.Decimal       `json:"tax"`
	Total         decimal.Decimal       `json:"total"`
	Paid          decimal.Decimal       `json:"paid"`
	Due           decimal.Decimal       `json:"due"`
	Status        string                `json:"status"`
	BilledBy      string                `json:"billed_by,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	CancelledAt   *time.Time            `json:"cancelled_at,omitempty"`
}

// ToBillingResponse maps a billing to its API view
func ToBillingResponse(b *billing.Billing) BillingResponse {
	items := make([]BillingItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, BillingItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			TaxAmount:      item.TaxAmount,
			TotalPrice:     item.TotalPrice,
			Allocations:    item.Allocations,
		})
	}
	return BillingResponse{
		ID:            b.ID,
		BillingNumber: b.BillingNumber,
		PatientName:   b.PatientName,
		PatientRef:    b.PatientRef,
		Items:         items,
		Subtotal:      b.Subtotal,
		Discount:      b.Discount,
		Tax:           b.Tax,
		Total:         b.Total,
		Paid:          b.Paid,
		Due:           b.Due,
		Status:        string(b.Status),
		BilledBy:      b.BilledBy,
		CreatedAt:     b.CreatedAt,
		CancelledAt:   b.CancelledAt,
	}
}
