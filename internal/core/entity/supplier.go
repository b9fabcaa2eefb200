package entity

import (
	"context"
	"strings"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
)

// Supplier is a counterparty purchase orders are placed with.
type Supplier struct {
	// ID stays id.Nil until the supplier is persisted.
	ID id.ID `db:"id" json:"id"`

	Name          string  `db:"name" json:"name"`
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`
	Phone         *string `db:"phone" json:"phone,omitempty"`
	Email         *string `db:"email" json:"email,omitempty"`
	Address       *string `db:"address" json:"address,omitempty"`
}

// NewSupplier creates a new Supplier.
func NewSupplier(name string) *Supplier {
	return &Supplier{Name: name}
}

// Validate implements Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("supplier name cannot be empty").
			WithDetail("field", "name")
	}
	return nil
}
