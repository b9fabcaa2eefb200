package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/types"
)

type staticSaleRepo struct {
	sales []entity.SaleRecord
}

func (r *staticSaleRepo) GetAll(ctx context.Context) ([]entity.SaleRecord, error) {
	return r.sales, nil
}

func (r *staticSaleRepo) GetByID(ctx context.Context, saleID id.ID) (*entity.SaleRecord, error) {
	for _, s := range r.sales {
		if s.ID == saleID {
			out := s
			return &out, nil
		}
	}
	return nil, apperror.NewNotFound("sale", saleID.String())
}

func (r *staticSaleRepo) RecordSale(ctx context.Context, sale *entity.SaleRecord) (*entity.SaleRecord, error) {
	persisted := *sale
	persisted.ID = id.New()
	r.sales = append(r.sales, persisted)
	return &persisted, nil
}

func (r *staticSaleRepo) SalesBetween(ctx context.Context, start, end time.Time) ([]entity.SaleRecord, error) {
	out := make([]entity.SaleRecord, 0)
	for _, s := range r.sales {
		if !s.SaleDate.Before(start) && !s.SaleDate.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

type staticResolver struct {
	names map[id.ID]string
}

func (r *staticResolver) ProductByID(productID id.ID) (*entity.Product, error) {
	name, ok := r.names[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return &entity.Product{ID: productID, Name: name}, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sale(productID id.ID, qty int, price string, on time.Time) entity.SaleRecord {
	return entity.SaleRecord{
		ID:              id.New(),
		ProductID:       productID,
		QuantitySold:    qty,
		SaleDate:        on,
		UnitPriceAtSale: types.MustMoney(price),
	}
}

func TestGenerateSalesReportAggregation(t *testing.T) {
	aspirin := id.New()
	bandage := id.New()

	repo := &staticSaleRepo{sales: []entity.SaleRecord{
		sale(aspirin, 3, "10.00", day(2024, time.May, 2)),
		sale(aspirin, 1, "12.00", day(2024, time.May, 10)),
		sale(bandage, 5, "2.00", day(2024, time.May, 20)),
	}}
	resolver := &staticResolver{names: map[id.ID]string{
		aspirin: "Aspirin",
		bandage: "Bandage",
	}}
	svc := NewService(repo, resolver)

	report, err := svc.GenerateSalesReport(context.Background(), day(2024, time.May, 1), day(2024, time.May, 31))
	require.NoError(t, err)

	assert.True(t, types.MustMoney("52.00").Equal(report.TotalSales))
	require.Len(t, report.SalesByProduct, 2)
	assert.True(t, types.MustMoney("42.00").Equal(report.SalesByProduct["Aspirin"]))
	assert.True(t, types.MustMoney("10.00").Equal(report.SalesByProduct["Bandage"]))
}

func TestGenerateSalesReportBoundaryInclusion(t *testing.T) {
	pid := id.New()
	start := day(2024, time.May, 1)
	end := day(2024, time.May, 31)

	repo := &staticSaleRepo{sales: []entity.SaleRecord{
		sale(pid, 1, "10.00", start),                    // exactly on start
		sale(pid, 1, "10.00", end),                      // exactly on end
		sale(pid, 1, "10.00", start.AddDate(0, 0, -1)),  // day before
		sale(pid, 1, "10.00", end.AddDate(0, 0, 1)),     // day after
	}}
	resolver := &staticResolver{names: map[id.ID]string{pid: "Aspirin"}}
	svc := NewService(repo, resolver)

	report, err := svc.GenerateSalesReport(context.Background(), start, end)
	require.NoError(t, err)

	assert.True(t, types.MustMoney("20.00").Equal(report.TotalSales))
}

func TestGenerateSalesReportIdempotent(t *testing.T) {
	pid := id.New()
	repo := &staticSaleRepo{sales: []entity.SaleRecord{
		sale(pid, 2, "7.50", day(2024, time.May, 5)),
	}}
	resolver := &staticResolver{names: map[id.ID]string{pid: "Aspirin"}}
	svc := NewService(repo, resolver)

	first, err := svc.GenerateSalesReport(context.Background(), day(2024, time.May, 1), day(2024, time.May, 31))
	require.NoError(t, err)
	second, err := svc.GenerateSalesReport(context.Background(), day(2024, time.May, 1), day(2024, time.May, 31))
	require.NoError(t, err)

	assert.True(t, first.TotalSales.Equal(second.TotalSales))
	require.Equal(t, len(first.SalesByProduct), len(second.SalesByProduct))
	for name, total := range first.SalesByProduct {
		assert.True(t, total.Equal(second.SalesByProduct[name]))
	}
}

func TestGenerateSalesReportUnknownProduct(t *testing.T) {
	deleted := id.New()
	repo := &staticSaleRepo{sales: []entity.SaleRecord{
		sale(deleted, 4, "5.00", day(2024, time.May, 5)),
	}}
	svc := NewService(repo, &staticResolver{names: map[id.ID]string{}})

	report, err := svc.GenerateSalesReport(context.Background(), day(2024, time.May, 1), day(2024, time.May, 31))
	require.NoError(t, err)

	assert.True(t, types.MustMoney("20.00").Equal(report.SalesByProduct[UnknownProductLabel]))
	assert.True(t, types.MustMoney("20.00").Equal(report.TotalSales))
}

func TestGenerateSalesReportRejectsInvertedRange(t *testing.T) {
	svc := NewService(&staticSaleRepo{}, &staticResolver{names: map[id.ID]string{}})

	_, err := svc.GenerateSalesReport(context.Background(), day(2024, time.June, 1), day(2024, time.May, 1))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestGenerateSalesReportEmptyRange(t *testing.T) {
	svc := NewService(&staticSaleRepo{}, &staticResolver{names: map[id.ID]string{}})

	report, err := svc.GenerateSalesReport(context.Background(), day(2024, time.May, 1), day(2024, time.May, 31))
	require.NoError(t, err)
	assert.True(t, report.TotalSales.IsZero())
	assert.Empty(t, report.SalesByProduct)
}
