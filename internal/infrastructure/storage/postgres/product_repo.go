package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/domain/inventory"
)

const productsTable = "products"

var productColumns = []string{
	"id", "sku", "name", "category", "description", "unit_price", "reorder_level",
}

// Compile-time check.
var _ inventory.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements inventory.ProductRepository.
type ProductRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves all products ordered by name.
func (r *ProductRepo) GetAll(ctx context.Context) ([]entity.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []entity.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("select products: %w", err))
	}

	return products, nil
}

// GetByID retrieves a product by identity.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*entity.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"id": productID}, productID.String())
}

// GetBySKU retrieves a product by its unique SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, squirrel.Expr("lower(sku) = lower(?)", sku), sku)
}

func (r *ProductRepo) getOne(ctx context.Context, pred any, key string) (*entity.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(pred).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p entity.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", key)
		}
		return nil, apperror.NewPersistence(fmt.Errorf("get product: %w", err))
	}

	return &p, nil
}

// Create inserts a new product and assigns its identity.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if id.IsNil(product.ID) {
		product.ID = id.New()
	}

	q := r.builder.Insert(productsTable).
		Columns(append(productColumns, "created_at")...).
		Values(
			product.ID, product.SKU, product.Name, product.Category,
			product.Description, product.UnitPrice, product.ReorderLevel,
			time.Now().UTC(),
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("product", "sku", product.SKU)
		}
		return apperror.NewPersistence(fmt.Errorf("insert product: %w", err))
	}

	return nil
}

// Update saves changes to an existing product.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	q := r.builder.Update(productsTable).
		Set("name", product.Name).
		Set("category", product.Category).
		Set("description", product.Description).
		Set("unit_price", product.UnitPrice).
		Set("reorder_level", product.ReorderLevel).
		Where(squirrel.Eq{"id": product.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("update product: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", product.ID.String())
	}

	return nil
}

// Delete removes a product. Batches cascade at the schema level; sale
// records carry no foreign key and survive the deletion.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder.Delete(productsTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("delete product: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
