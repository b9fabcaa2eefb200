package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/types"
)

// SaleRecord is an append-only record of a completed sale. It is never
// mutated or deleted by the core; product deletion does not invalidate
// past sales.
type SaleRecord struct {
	// ID stays id.Nil until the record is persisted.
	ID id.ID `db:"id" json:"id"`

	ProductID id.ID `db:"product_id" json:"productId"`

	QuantitySold int       `db:"quantity_sold" json:"quantitySold"`
	SaleDate     time.Time `db:"sale_date" json:"saleDate"`

	// UnitPriceAtSale is a snapshot of the product price at sale time,
	// independent of later price changes.
	UnitPriceAtSale types.Money `db:"unit_price_at_sale" json:"unitPriceAtSale"`
}

// NewSaleRecord creates a sale record dated today.
func NewSaleRecord(productID id.ID, quantitySold int, unitPriceAtSale types.Money) *SaleRecord {
	return &SaleRecord{
		ProductID:       productID,
		QuantitySold:    quantitySold,
		SaleDate:        Today(),
		UnitPriceAtSale: unitPriceAtSale,
	}
}

// Validate implements Validatable.
func (s *SaleRecord) Validate(ctx context.Context) error {
	if id.IsNil(s.ProductID) {
		return apperror.NewValidation("product reference is required").
			WithDetail("field", "productId")
	}
	if s.QuantitySold <= 0 {
		return apperror.NewValidation("quantity sold must be positive").
			WithDetail("field", "quantitySold")
	}
	if s.UnitPriceAtSale.IsNegative() {
		return apperror.NewValidation("unit price at sale cannot be negative").
			WithDetail("field", "unitPriceAtSale")
	}
	return nil
}

// TotalValue returns quantity sold times the snapshotted unit price.
func (s *SaleRecord) TotalValue() types.Money {
	return s.UnitPriceAtSale.Mul(decimal.NewFromInt(int64(s.QuantitySold)))
}
