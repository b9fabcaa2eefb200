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
	"github.com/RWageesha/Genie-s-STK/internal/domain/orders"
)

const (
	ordersTable     = "orders"
	orderItemsTable = "order_items"
)

var (
	orderColumns = []string{
		"id", "supplier_id", "order_date", "expected_delivery_date", "status",
	}
	orderItemColumns = []string{
		"id", "order_id", "product_id", "quantity", "cost_per_unit",
	}
)

var _ orders.Repository = (*OrderRepo)(nil)

// OrderRepo implements orders.Repository. The order header and its items
// live in separate tables; Create writes both in one call and relies on
// the caller's transaction for atomicity.
type OrderRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txManager *TxManager) *OrderRepo {
	return &OrderRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves all order headers ordered by order date, newest first.
func (r *OrderRepo) GetAll(ctx context.Context) ([]entity.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(ordersTable).
		OrderBy("order_date DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []entity.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &out, sql, args...); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("select orders: %w", err))
	}

	return out, nil
}

// GetByID retrieves an order header by identity.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*entity.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o entity.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, apperror.NewPersistence(fmt.Errorf("get order: %w", err))
	}

	return &o, nil
}

// GetItems retrieves the items of an order.
func (r *OrderRepo) GetItems(ctx context.Context, orderID id.ID) ([]entity.OrderItem, error) {
	q := r.builder.Select(orderItemColumns...).
		From(orderItemsTable).
		Where(squirrel.Eq{"order_id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []entity.OrderItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("select order items: %w", err))
	}

	return items, nil
}

// Create inserts the order header and its items, assigning identities.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if id.IsNil(order.ID) {
		order.ID = id.New()
	}

	q := r.builder.Insert(ordersTable).
		Columns(append(orderColumns, "created_at")...).
		Values(
			order.ID, order.SupplierID, order.OrderDate,
			order.ExpectedDeliveryDate, order.Status,
			time.Now().UTC(),
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewReference("supplier does not exist").
				WithDetail("supplier_id", order.SupplierID.String())
		}
		return apperror.NewPersistence(fmt.Errorf("insert order: %w", err))
	}

	if len(order.Items) == 0 {
		return nil
	}

	iq := r.builder.Insert(orderItemsTable).Columns(orderItemColumns...)
	for i := range order.Items {
		item := &order.Items[i]
		if id.IsNil(item.ID) {
			item.ID = id.New()
		}
		item.OrderID = order.ID
		iq = iq.Values(item.ID, item.OrderID, item.ProductID, item.Quantity, item.CostPerUnit)
	}

	sql, args, err = iq.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewReference("order item references an unknown product")
		}
		return apperror.NewPersistence(fmt.Errorf("insert order items: %w", err))
	}

	return nil
}

// Update saves changes to the order header. Items are immutable after
// the order is placed.
func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	q := r.builder.Update(ordersTable).
		Set("order_date", order.OrderDate).
		Set("expected_delivery_date", order.ExpectedDeliveryDate).
		Set("status", order.Status).
		Where(squirrel.Eq{"id": order.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("update order: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("order", order.ID.String())
	}

	return nil
}

// Delete removes an order. Items cascade at the schema level.
func (r *OrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	q := r.builder.Delete(ordersTable).
		Where(squirrel.Eq{"id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("delete order: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("order", orderID.String())
	}

	return nil
}
