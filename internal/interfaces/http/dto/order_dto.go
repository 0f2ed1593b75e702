package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the HTTP request body for creating a purchase order
type CreateOrderRequest struct {
	OrderNumber string                   `json:"order_number" binding:"required,min=1,max=50"`
	VendorName  string                   `json:"vendor_name" binding:"required,min=1,max=200"`
	Items       []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest is one product line of a purchase order
type CreateOrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CancelOrderRequest is the HTTP request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListRequest carries list query parameters for purchase orders
type OrderListRequest struct {
	ListRequest
	VendorName string `form:"vendor_name"`
	Status     string `form:"status"`
}
