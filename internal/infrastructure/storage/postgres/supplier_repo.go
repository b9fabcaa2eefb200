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
	"github.com/RWageesha/Genie-s-STK/internal/domain/suppliers"
)

const suppliersTable = "suppliers"

var supplierColumns = []string{
	"id", "name", "contact_person", "phone", "email", "address",
}

var _ suppliers.Repository = (*SupplierRepo)(nil)

// SupplierRepo implements suppliers.Repository.
type SupplierRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *TxManager) *SupplierRepo {
	return &SupplierRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves all suppliers ordered by name.
func (r *SupplierRepo) GetAll(ctx context.Context) ([]entity.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(suppliersTable).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []entity.Supplier
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &out, sql, args...); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("select suppliers: %w", err))
	}

	return out, nil
}

// GetByID retrieves a supplier by identity.
func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*entity.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(suppliersTable).
		Where(squirrel.Eq{"id": supplierID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s entity.Supplier
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", supplierID.String())
		}
		return nil, apperror.NewPersistence(fmt.Errorf("get supplier: %w", err))
	}

	return &s, nil
}

// Create inserts a new supplier and assigns its identity.
func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	if id.IsNil(supplier.ID) {
		supplier.ID = id.New()
	}

	q := r.builder.Insert(suppliersTable).
		Columns(append(supplierColumns, "created_at")...).
		Values(
			supplier.ID, supplier.Name, supplier.ContactPerson,
			supplier.Phone, supplier.Email, supplier.Address,
			time.Now().UTC(),
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewPersistence(fmt.Errorf("insert supplier: %w", err))
	}

	return nil
}

// Update saves changes to an existing supplier.
func (r *SupplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	q := r.builder.Update(suppliersTable).
		Set("name", supplier.Name).
		Set("contact_person", supplier.ContactPerson).
		Set("phone", supplier.Phone).
		Set("email", supplier.Email).
		Set("address", supplier.Address).
		Where(squirrel.Eq{"id": supplier.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("update supplier: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplier.ID.String())
	}

	return nil
}

// Delete removes a supplier.
func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	q := r.builder.Delete(suppliersTable).
		Where(squirrel.Eq{"id": supplierID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("delete supplier: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID.String())
	}

	return nil
}
