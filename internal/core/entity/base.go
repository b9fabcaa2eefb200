// Package entity contains the value records of the inventory core:
// products, batches, sale records, suppliers and purchase orders.
// Every record validates its own invariants on construction.
package entity

import (
	"context"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}
