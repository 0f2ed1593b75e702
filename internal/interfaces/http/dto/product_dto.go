package dto

import "github.com/shopspring/decimal"

// CreateProductRequest is the HTTP request body for creating a product
type CreateProductRequest struct {
	Code         string          `json:"code" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description" binding:"max=1000"`
	Unit         string          `json:"unit" binding:"required,min=1,max=20"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
}

// UpdateProductRequest is the HTTP request body for updating a product
type UpdateProductRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description" binding:"max=1000"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
}

// ProductListRequest carries list query parameters for products
type ProductListRequest struct {
	ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}
