package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/returns"
	"github.com/shopspring/decimal"
)

// CreateReturnRequest is the application-level request for a vendor
// return. ProcessImmediately drains the stock in the same transaction;
// otherwise the return stays pending until processed.
type CreateReturnRequest struct {
	ReturnNumber       string
	VendorName         string
	BillingID          *uuid.UUID
	Reason             string
	CreatedBy          string
	ProcessImmediately bool
	Items              []ReturnItemRequest
}

// ReturnItemRequest is one product line of a return request
type ReturnItemRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	TaxAmount decimal.Decimal
	Reason    string
}

// ReturnListFilter carries list query options
type ReturnListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	VendorName string
	Status     string
}

// ReturnItemResponse is the API view of a return line
type ReturnItemResponse struct {
	ID          uuid.UUID                  `json:"id"`
	ProductID   uuid.UUID                  `json:"product_id"`
	ProductName string                     `json:"product_name"`
	Quantity    decimal.Decimal            `json:"quantity"`
	UnitPrice   decimal.Decimal            `json:"unit_price"`
	TaxAmount   decimal.Decimal            `json:"tax_amount"`
	TotalPrice  decimal.Decimal            `json:"total_price"`
	Reason      string                     `json:"reason,omitempty"`
	Allocations inventory.BatchAllocations `json:"allocations"`
}

// ReturnResponse is the API view of a vendor return
type ReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	ReturnNumber string               `json:"return_number"`
	VendorName   string               `json:"vendor_name"`
	BillingID    *uuid.UUID           `json:"billing_id,omitempty"`
	Items        []ReturnItemResponse `json:"items"`
	TotalAmount  decimal.Decimal      `json:"total_amount"`
	Status       string               `json:"status"`
	Reason       string               `json:"reason,omitempty"`
	CreatedBy    string               `json:"created_by,omitempty"`
	ProcessedAt  *time.Time           `json:"processed_at,omitempty"`
	CancelledAt  *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ToReturnResponse maps a return to its API view
func ToReturnResponse(r *returns.Return) ReturnResponse {
	items := make([]ReturnItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ReturnItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxAmount:   item.TaxAmount,
			TotalPrice:  item.TotalPrice,
			Reason:      item.Reason,
			Allocations: item.Allocations,
		})
	}
	return ReturnResponse{
		ID:           r.ID,
		ReturnNumber: r.ReturnNumber,
		VendorName:   r.VendorName,
		BillingID:    r.BillingID,
		Items:        items,
		TotalAmount:  r.TotalAmount,
		Status:       string(r.Status),
		Reason:       r.Reason,
		CreatedBy:    r.CreatedBy,
		ProcessedAt:  r.ProcessedAt,
		CancelledAt:  r.CancelledAt,
		CreatedAt:    r.CreatedAt,
	}
}
