package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReturnRequest is the HTTP request body for a vendor return.
// A return is processed (stock drained) on creation unless the body
// asks for status "pending"; return_number is generated when omitted.
type CreateReturnRequest struct {
	ReturnNumber string              `json:"return_number" binding:"omitempty,max=50"`
	VendorName   string              `json:"vendor_name" binding:"required,min=1,max=200"`
	BillingID    *uuid.UUID          `json:"billing_id"`
	Reason       string              `json:"reason" binding:"max=500"`
	Status       string              `json:"status" binding:"omitempty,oneof=pending processed"`
	Items        []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReturnItemRequest is one product line of a vendor return
type ReturnItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Reason    string          `json:"reason" binding:"max=500"`
}

// ReturnListRequest carries list query parameters for vendor returns
type ReturnListRequest struct {
	ListRequest
	VendorName string `form:"vendor_name"`
	Status     string `form:"status"`
}
