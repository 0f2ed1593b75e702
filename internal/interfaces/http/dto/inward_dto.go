package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInwardRequest is the HTTP request body for recording a goods
// receipt. inward_number is generated when omitted.
type CreateInwardRequest struct {
	InwardNumber string                    `json:"inward_number" binding:"omitempty,max=50"`
	OrderID      *uuid.UUID                `json:"order_id"`
	VendorName   string                    `json:"vendor_name" binding:"required,min=1,max=200"`
	Remark       string                    `json:"remark" binding:"max=500"`
	Items        []CreateInwardItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateInwardItemRequest is one batch of a goods receipt
type CreateInwardItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber string          `json:"batch_number" binding:"omitempty,max=50"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// InwardListRequest carries list query parameters for goods receipts
type InwardListRequest struct {
	ListRequest
	VendorName string `form:"vendor_name"`
}
