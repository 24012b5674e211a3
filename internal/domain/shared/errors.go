package shared

import "errors"

// ErrorKind classifies a domain error for transport mapping and retry policy.
type ErrorKind string

const (
	// KindValidation marks malformed or missing caller input. Always caller-fixable.
	KindValidation ErrorKind = "VALIDATION"
	// KindInvariant marks a broken aggregate invariant or illegal state
	// transition. Never expected from well-formed input.
	KindInvariant ErrorKind = "INVARIANT"
	// KindPolicy marks a business-rule rejection (inactive account, protected
	// account deletion). Not a bug.
	KindPolicy ErrorKind = "POLICY"
	// KindNotFound marks a missing voucher or account reference.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindConflict marks a concurrent modification of the same aggregate.
	KindConflict ErrorKind = "CONFLICT"
)

// DomainError represents a domain-level error with a machine-readable code
// and a human-readable message.
type DomainError struct {
	Kind       ErrorKind `json:"kind"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	FieldHints []string  `json:"field_hints,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// WithHints returns a copy of the error carrying the given field hints.
func (e *DomainError) WithHints(hints ...string) *DomainError {
	return &DomainError{
		Kind:       e.Kind,
		Code:       e.Code,
		Message:    e.Message,
		FieldHints: append([]string(nil), hints...),
	}
}

// NewValidationError creates a validation-kind domain error.
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewInvariantError creates an invariant-kind domain error.
func NewInvariantError(code, message string) *DomainError {
	return &DomainError{Kind: KindInvariant, Code: code, Message: message}
}

// NewPolicyError creates a policy-kind domain error.
func NewPolicyError(code, message string) *DomainError {
	return &DomainError{Kind: KindPolicy, Code: code, Message: message}
}

// NewNotFoundError creates a not-found-kind domain error.
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewConflictError creates a conflict-kind domain error.
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// kindOf extracts the kind of err, or "" when err is not a DomainError.
func kindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation-kind domain error.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsInvariant reports whether err is an invariant-kind domain error.
func IsInvariant(err error) bool { return kindOf(err) == KindInvariant }

// IsPolicy reports whether err is a policy-kind domain error.
func IsPolicy(err error) bool { return kindOf(err) == KindPolicy }

// IsNotFound reports whether err is a not-found-kind domain error.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict-kind domain error.
func IsConflict(err error) bool { return kindOf(err) == KindConflict }

// ErrConcurrencyConflict is returned when an optimistic-lock write finds
// the aggregate already modified by another process.
var ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
