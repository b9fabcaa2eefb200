package entity

import (
	"context"
	"strings"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/types"
)

// Product is a sellable item. Stock is not stored on the product itself:
// TotalQuantity is recomputed from the product's batches.
type Product struct {
	// ID stays id.Nil until the product is persisted.
	ID id.ID `db:"id" json:"id"`

	// SKU is unique and immutable after creation.
	SKU string `db:"sku" json:"sku"`

	Name        string  `db:"name" json:"name"`
	Category    string  `db:"category" json:"category"`
	Description *string `db:"description" json:"description,omitempty"`

	// UnitPrice is the current selling price. Sales snapshot it, so later
	// changes never affect recorded sales.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// ReorderLevel is the threshold at or below which the product is
	// flagged for reordering.
	ReorderLevel int `db:"reorder_level" json:"reorderLevel"`

	// TotalQuantity is transient: the sum of remaining batch quantities.
	// Never stored; populated by inventory status queries.
	TotalQuantity int `db:"-" json:"totalQuantity,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(sku, name, category string, unitPrice types.Money, reorderLevel int) *Product {
	return &Product{
		SKU:          sku,
		Name:         name,
		Category:     category,
		UnitPrice:    unitPrice,
		ReorderLevel: reorderLevel,
	}
}

// Validate implements Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewValidation("SKU cannot be empty").
			WithDetail("field", "sku")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("product name cannot be empty").
			WithDetail("field", "name")
	}
	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if p.ReorderLevel < 0 {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}
	return nil
}

// ProductPatch enumerates the mutable product fields. SKU is immutable
// after creation and deliberately absent here.
type ProductPatch struct {
	Name         *string
	Category     *string
	Description  *string
	UnitPrice    *types.Money
	ReorderLevel *int
}

// Apply copies the set fields of the patch onto the product.
func (p *ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Description != nil {
		product.Description = p.Description
	}
	if p.UnitPrice != nil {
		product.UnitPrice = *p.UnitPrice
	}
	if p.ReorderLevel != nil {
		product.ReorderLevel = *p.ReorderLevel
	}
}
