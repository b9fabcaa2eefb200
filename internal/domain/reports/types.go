// Package reports provides report generation over sale records and stock.
package reports

import (
	"time"

	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/types"
)

// UnknownProductLabel groups sales whose product no longer exists.
// Sales are never retroactively invalidated by product deletion.
const UnknownProductLabel = "Unknown"

// SalesReport aggregates sale records over a date range, inclusive on
// both ends.
type SalesReport struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	// TotalSales is the grand total across all products.
	TotalSales types.Money `json:"totalSales"`

	// SalesByProduct maps product name to the summed sale value.
	// Insertion order is irrelevant.
	SalesByProduct map[string]types.Money `json:"salesByProduct"`
}

// ProductResolver resolves product references to current product data.
// The stock ledger satisfies this; deleted products resolve to an error.
type ProductResolver interface {
	ProductByID(productID id.ID) (*entity.Product, error)
}
