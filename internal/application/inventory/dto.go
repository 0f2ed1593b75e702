package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateInwardRequest is the application-level request for recording a
// goods receipt
type CreateInwardRequest struct {
	InwardNumber string
	OrderID      *uuid.UUID
	VendorName   string
	ReceivedBy   string
	Remark       string
	Items        []CreateInwardItemRequest
}

// CreateInwardItemRequest is one batch of a goods receipt
type CreateInwardItemRequest struct {
	ProductID   uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	ExpiryDate  *time.Time
}

// InwardListFilter carries list query options
type InwardListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	VendorName string
}

// BatchResponse is the API view of a batch
type BatchResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnusedQuantity  decimal.Decimal `json:"unused_quantity"`
	BillingQuantity decimal.Decimal `json:"billing_quantity"`
	ReturnQuantity  decimal.Decimal `json:"return_quantity"`
	ExcessQuantity  decimal.Decimal `json:"excess_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	ReceivedAt      time.Time       `json:"received_at"`
}

// InwardResponse is the API view of a goods receipt
type InwardResponse struct {
	ID              uuid.UUID       `json:"id"`
	InwardNumber    string          `json:"inward_number"`
	OrderID         *uuid.UUID      `json:"order_id,omitempty"`
	VendorName      string          `json:"vendor_name"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	BillingQuantity decimal.Decimal `json:"billing_quantity"`
	ReturnQuantity  decimal.Decimal `json:"return_quantity"`
	ReceivedAt      time.Time       `json:"received_at"`
	ReceivedBy      string          `json:"received_by,omitempty"`
	Remark          string          `json:"remark,omitempty"`
	Batches         []BatchResponse `json:"batches"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StockResponse is the API view of per-product stock
type StockResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	InwardQuantity  decimal.Decimal `json:"inward_quantity"`
	BillingQuantity decimal.Decimal `json:"billing_quantity"`
	ReturnQuantity  decimal.Decimal `json:"return_quantity"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToBatchResponse maps a batch to its API view
func ToBatchResponse(b *inventory.Batch) BatchResponse {
	return BatchResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		Quantity:        b.Quantity,
		UnusedQuantity:  b.UnusedQuantity,
		BillingQuantity: b.BillingQuantity,
		ReturnQuantity:  b.ReturnQuantity,
		ExcessQuantity:  b.ExcessQuantity,
		UnitPrice:       b.UnitPrice,
		ExpiryDate:      b.ExpiryDate,
		ReceivedAt:      b.ReceivedAt,
	}
}

// ToInwardResponse maps an inward to its API view
func ToInwardResponse(in *inventory.Inward) InwardResponse {
	batches := make([]BatchResponse, 0, len(in.Batches))
	for idx := range in.Batches {
		batches = append(batches, ToBatchResponse(&in.Batches[idx]))
	}
	return InwardResponse{
		ID:              in.ID,
		InwardNumber:    in.InwardNumber,
		OrderID:         in.OrderID,
		VendorName:      in.VendorName,
		TotalQuantity:   in.TotalQuantity,
		TotalAmount:     in.TotalAmount,
		BillingQuantity: in.BillingQuantity,
		ReturnQuantity:  in.ReturnQuantity,
		ReceivedAt:      in.ReceivedAt,
		ReceivedBy:      in.ReceivedBy,
		Remark:          in.Remark,
		Batches:         batches,
		CreatedAt:       in.CreatedAt,
	}
}

// ToStockResponse maps a stock row to its API view
func ToStockResponse(s *inventory.Stock) StockResponse {
	return StockResponse{
		ID:              s.ID,
		ProductID:       s.ProductID,
		Quantity:        s.Quantity,
		InwardQuantity:  s.InwardQuantity,
		BillingQuantity: s.BillingQuantity,
		ReturnQuantity:  s.ReturnQuantity,
		UpdatedAt:       s.UpdatedAt,
	}
}
