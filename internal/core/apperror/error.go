// Package apperror provides structured error handling for the inventory core.
// All business errors use AppError so that callers (GUI, CLI) can build
// meaningful messages without re-querying the ledger.
package apperror

import (
	"errors"
	"fmt"
)

// Error codes, one per failure family.
const (
	// Bad input shape: negative quantity, empty SKU, expiry before manufacture.
	CodeValidation = "VALIDATION_ERROR"

	// Referenced product/batch/order/supplier does not exist.
	CodeNotFound = "NOT_FOUND"

	// Sale exceeds available quantity.
	CodeInsufficientStock = "INSUFFICIENT_STOCK"

	// Foreign-key-like violation, e.g. a batch for a nonexistent product.
	CodeReference = "REFERENCE_ERROR"

	// Opaque failure from the storage gateway, propagated not swallowed.
	CodePersistence = "PERSISTENCE_ERROR"

	// Duplicate of a unique field (SKU).
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the core.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field names, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewNotFound creates a not found error.
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", entity),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

// NewInsufficientStock creates a stock shortage error carrying both the
// requested and the available amount.
func NewInsufficientStock(productID string, requested, available int) *AppError {
	return &AppError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("insufficient stock: available %d, requested %d", available, requested),
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		},
	}
}

// NewReference creates a referential integrity error.
func NewReference(message string) *AppError {
	return &AppError{
		Code:    CodeReference,
		Message: message,
	}
}

// NewPersistence wraps a storage gateway failure.
func NewPersistence(err error) *AppError {
	return &AppError{
		Code:    CodePersistence,
		Message: "persistence failure",
		Err:     err,
	}
}

// NewDuplicate creates a duplicate entry error.
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:    CodeDuplicate,
		Message: fmt.Sprintf("%s with this %s already exists", entity, field),
		Details: map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from the error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsValidation checks if error is CodeValidation.
func IsValidation(err error) bool {
	return IsCode(err, CodeValidation)
}

// IsInsufficientStock checks if error is CodeInsufficientStock.
func IsInsufficientStock(err error) bool {
	return IsCode(err, CodeInsufficientStock)
}

// IsReference checks if error is CodeReference.
func IsReference(err error) bool {
	return IsCode(err, CodeReference)
}
