package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/domain/inventory"
)

const saleRecordsTable = "sale_records"

var saleColumns = []string{
	"id", "product_id", "quantity_sold", "sale_date", "unit_price_at_sale",
}

var _ inventory.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implements inventory.SaleRepository. The table is append-only;
// there is no update or delete path.
type SaleRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale record repository.
func NewSaleRepo(txManager *TxManager) *SaleRepo {
	return &SaleRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves all sale records ordered by sale date.
func (r *SaleRepo) GetAll(ctx context.Context) ([]entity.SaleRecord, error) {
	q := r.builder.Select(saleColumns...).
		From(saleRecordsTable).
		OrderBy("sale_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sales []entity.SaleRecord
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sales, sql, args...); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("select sales: %w", err))
	}

	return sales, nil
}

// GetByID retrieves a sale record by identity.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*entity.SaleRecord, error) {
	q := r.builder.Select(saleColumns...).
		From(saleRecordsTable).
		Where(squirrel.Eq{"id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s entity.SaleRecord
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, apperror.NewPersistence(fmt.Errorf("get sale: %w", err))
	}

	return &s, nil
}

// RecordSale appends a sale record, assigning its identity.
func (r *SaleRepo) RecordSale(ctx context.Context, sale *entity.SaleRecord) (*entity.SaleRecord, error) {
	if id.IsNil(sale.ID) {
		sale.ID = id.New()
	}

	q := r.builder.Insert(saleRecordsTable).
		Columns(append(saleColumns, "created_at")...).
		Values(
			sale.ID, sale.ProductID, sale.QuantitySold,
			sale.SaleDate, sale.UnitPriceAtSale,
			time.Now().UTC(),
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("insert sale: %w", err))
	}

	return sale, nil
}

// SalesBetween returns sales with sale_date in [start, end], inclusive.
func (r *SaleRepo) SalesBetween(ctx context.Context, start, end time.Time) ([]entity.SaleRecord, error) {
	q := r.builder.Select(saleColumns...).
		From(saleRecordsTable).
		Where(squirrel.GtOrEq{"sale_date": start}).
		Where(squirrel.LtOrEq{"sale_date": end}).
		OrderBy("sale_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sales []entity.SaleRecord
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sales, sql, args...); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("select sales between: %w", err))
	}

	return sales, nil
}
