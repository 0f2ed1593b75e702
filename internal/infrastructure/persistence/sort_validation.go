package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"unit":          true,
	"selling_price": true,
	"status":        true,
}

// OrderSortFields contains allowed sort fields for purchase orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"vendor_name":  true,
	"status":       true,
	"total_amount": true,
	"completed_at": true,
}

// InwardSortFields contains allowed sort fields for goods receipts
var InwardSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"inward_number": true,
	"vendor_name":   true,
	"received_at":   true,
	"total_amount":  true,
}

// StockSortFields contains allowed sort fields for stock rows
var StockSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"product_id":       true,
	"quantity":         true,
	"inward_quantity":  true,
	"billing_quantity": true,
	"return_quantity":  true,
}

// BillingSortFields contains allowed sort fields for billings
var BillingSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"billing_number": true,
	"patient_name":   true,
	"status":         true,
	"total":          true,
	"due":            true,
}

// ReturnSortFields contains allowed sort fields for vendor returns
var ReturnSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"return_number": true,
	"vendor_name":   true,
	"status":        true,
	"total_amount":  true,
	"processed_at":  true,
}
