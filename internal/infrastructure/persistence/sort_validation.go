package persistence

import (
	"strings"
)

// Sort parameters come from query strings and are interpolated into ORDER BY
// clauses, so both the field and the direction are validated against
// whitelists before use.

// VoucherSortFields contains allowed sort fields for vouchers
var VoucherSortFields = map[string]bool{
	"voucher_number": true,
	"date":           true,
	"type":           true,
	"status":         true,
	"created_at":     true,
	"updated_at":     true,
}

// AccountSortFields contains allowed sort fields for accounts
var AccountSortFields = map[string]bool{
	"code":       true,
	"name":       true,
	"type":       true,
	"created_at": true,
	"updated_at": true,
}

// ValidateSortOrder normalizes the sort direction to ASC or DESC, defaulting
// to defaultDir for anything else.
func ValidateSortOrder(orderDir, defaultDir string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return defaultDir
}

// ValidateSortField validates the sort field against a whitelist, returning
// defaultField when the input is empty or not allowed.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}
