package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY expression
func orderClause(orderBy, orderDir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(orderBy, allowed, defaultField) + " " + ValidateSortOrder(orderDir)
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"company":    true,
	"phone":      true,
}

// CustomerGroupSortFields contains allowed sort fields for customer groups
var CustomerGroupSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"title":        true,
	"status":       true,
	"priority":     true,
	"due_date":     true,
	"total_amount": true,
	"paid_amount":  true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"created_at": true,
	"paid_at":    true,
	"amount":     true,
	"method":     true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":     true,
	"invoice_number": true,
	"issue_date":     true,
	"due_date":       true,
	"total":          true,
	"status":         true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"created_at":     true,
	"expense_number": true,
	"spent_at":       true,
	"amount":         true,
	"category":       true,
}

// JournalEntrySortFields contains allowed sort fields for journal entries
var JournalEntrySortFields = map[string]bool{
	"created_at":   true,
	"date":         true,
	"entry_number": true,
}

// PrintOrderSortFields contains allowed sort fields for print orders
var PrintOrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"print_number": true,
	"status":       true,
	"due_date":     true,
}

// PrintMaterialSortFields contains allowed sort fields for print materials
var PrintMaterialSortFields = map[string]bool{
	"created_at":     true,
	"name":           true,
	"stock_quantity": true,
}

// EvaluationSortFields contains allowed sort fields for evaluations
var EvaluationSortFields = map[string]bool{
	"created_at": true,
	"rating":     true,
}

// CampaignSortFields contains allowed sort fields for campaigns
var CampaignSortFields = map[string]bool{
	"created_at":   true,
	"name":         true,
	"status":       true,
	"scheduled_at": true,
}
