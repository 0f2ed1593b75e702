package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBillingRequest is the HTTP request body for billing a patient.
// billing_number is generated when omitted.
type CreateBillingRequest struct {
	BillingNumber string               `json:"billing_number" binding:"omitempty,max=50"`
	PatientName   string               `json:"patient_name" binding:"required,min=1,max=200"`
	PatientRef    string               `json:"patient_ref" binding:"max=100"`
	Discount      decimal.Decimal      `json:"discount"`
	Tax           decimal.Decimal      `json:"tax"`
	Paid          decimal.Decimal      `json:"paid"`
	Items         []BillingItemRequest `json:"items" binding:"required,min=1,dive"`
}

// BillingItemRequest is one product line of a billing. Discount and tax
// apply to the line; the header carries the billing-level charges.
type BillingItemRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
}

// UpdateBillingRequest replaces the lines and charges of a billing
type UpdateBillingRequest struct {
	Discount decimal.Decimal      `json:"discount"`
	Tax      decimal.Decimal      `json:"tax"`
	Paid     decimal.Decimal      `json:"paid"`
	Items    []BillingItemRequest `json:"items" binding:"required,min=1,dive"`
}

// BillingListRequest carries list query parameters for billings
type BillingListRequest struct {
	ListRequest
	PatientName string `form:"patient_name"`
	Status      string `form:"status"`
}
