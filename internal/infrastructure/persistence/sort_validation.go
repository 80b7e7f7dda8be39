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
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"brand":      true,
	"price":      true,
	"status":     true,
}

// SaleSortFields contains allowed sort fields for sales ledger lines
var SaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"sale_date":      true,
	"product_name":   true,
	"price":          true,
	"payment_method": true,
	"exchange_state": true,
}

// ExchangeSortFields contains allowed sort fields for exchanges
var ExchangeSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"exchange_date": true,
	"type":          true,
	"status":        true,
}

// CreditSortFields contains allowed sort fields for client credits
var CreditSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"document_number": true,
	"amount":          true,
	"status":          true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"status":         true,
	"total":          true,
	"reserved_until": true,
}
