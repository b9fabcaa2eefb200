package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/domain/inventory"
	"github.com/RWageesha/Genie-s-STK/pkg/logger"
)

// Service generates sales reports. Read-only: no report run ever mutates
// sales or stock, so repeated runs over the same window yield identical
// results.
type Service struct {
	sales    inventory.SaleRepository
	products ProductResolver
}

// NewService creates a new reports service.
func NewService(sales inventory.SaleRepository, products ProductResolver) *Service {
	return &Service{
		sales:    sales,
		products: products,
	}
}

// GenerateSalesReport aggregates sales in [start, end], inclusive on
// both ends, into per-product totals and a grand total. The date order
// is enforced here rather than left to the caller.
func (s *Service) GenerateSalesReport(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	start = entity.Day(start)
	end = entity.Day(end)
	if start.After(end) {
		return nil, apperror.NewValidation("start date must not be after end date").
			WithDetail("start", start.Format("2006-01-02")).
			WithDetail("end", end.Format("2006-01-02"))
	}

	sales, err := s.sales.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}

	totalsByProduct := make(map[id.ID]decimal.Decimal)
	for i := range sales {
		sale := &sales[i]
		totalsByProduct[sale.ProductID] = totalsByProduct[sale.ProductID].Add(sale.TotalValue())
	}

	byName := make(map[string]decimal.Decimal, len(totalsByProduct))
	total := decimal.Zero
	for productID, sum := range totalsByProduct {
		name := UnknownProductLabel
		if product, err := s.products.ProductByID(productID); err == nil {
			name = product.Name
		}
		byName[name] = byName[name].Add(sum)
		total = total.Add(sum)
	}

	logger.Debug(ctx, "sales report generated",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"records", len(sales),
		"products", len(byName),
	)

	return &SalesReport{
		StartDate:      start,
		EndDate:        end,
		TotalSales:     total,
		SalesByProduct: byName,
	}, nil
}
