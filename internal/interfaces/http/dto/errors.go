package dto

import (
	"net/http"

	"github.com/erp/accounting/internal/domain/shared"
)

// Error codes for failures originating in the interface layer itself.
// Domain errors carry their own codes and are mapped by kind.
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeNotFound    = "NOT_FOUND"
)

// errorKindHTTPStatus maps domain error kinds to HTTP status codes.
// Validation and invariant failures are both caller errors, policy
// rejections are forbidden actions, conflicts cover optimistic locking.
var errorKindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation: http.StatusBadRequest,
	shared.KindInvariant:  http.StatusBadRequest,
	shared.KindPolicy:     http.StatusForbidden,
	shared.KindNotFound:   http.StatusNotFound,
	shared.KindConflict:   http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for a domain error kind.
// Unknown kinds map to 500 Internal Server Error.
func GetHTTPStatus(kind shared.ErrorKind) int {
	if status, ok := errorKindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
