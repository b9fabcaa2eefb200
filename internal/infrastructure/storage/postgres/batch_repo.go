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

const batchesTable = "batches"

var batchColumns = []string{
	"id", "product_id", "quantity", "manufacture_date", "expiry_date",
}

var _ inventory.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implements inventory.BatchRepository.
type BatchRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewBatchRepo creates a new batch repository.
func NewBatchRepo(txManager *TxManager) *BatchRepo {
	return &BatchRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves all batches ordered by expiry date.
func (r *BatchRepo) GetAll(ctx context.Context) ([]entity.Batch, error) {
	q := r.builder.Select(batchColumns...).
		From(batchesTable).
		OrderBy("expiry_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []entity.Batch
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &batches, sql, args...); err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("select batches: %w", err))
	}

	return batches, nil
}

// GetByID retrieves a batch by identity.
func (r *BatchRepo) GetByID(ctx context.Context, batchID id.ID) (*entity.Batch, error) {
	q := r.builder.Select(batchColumns...).
		From(batchesTable).
		Where(squirrel.Eq{"id": batchID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b entity.Batch
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, apperror.NewPersistence(fmt.Errorf("get batch: %w", err))
	}

	return &b, nil
}

// Create inserts a new batch and assigns its identity.
func (r *BatchRepo) Create(ctx context.Context, batch *entity.Batch) error {
	if id.IsNil(batch.ID) {
		batch.ID = id.New()
	}

	q := r.builder.Insert(batchesTable).
		Columns(append(batchColumns, "created_at")...).
		Values(
			batch.ID, batch.ProductID, batch.Quantity,
			batch.ManufactureDate, batch.ExpiryDate,
			time.Now().UTC(),
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewReference("product does not exist").
				WithDetail("product_id", batch.ProductID.String())
		}
		return apperror.NewPersistence(fmt.Errorf("insert batch: %w", err))
	}

	return nil
}

// Update saves changes to an existing batch.
func (r *BatchRepo) Update(ctx context.Context, batch *entity.Batch) error {
	q := r.builder.Update(batchesTable).
		Set("quantity", batch.Quantity).
		Set("manufacture_date", batch.ManufactureDate).
		Set("expiry_date", batch.ExpiryDate).
		Where(squirrel.Eq{"id": batch.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("update batch: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("batch", batch.ID.String())
	}

	return nil
}

// Delete removes a batch.
func (r *BatchRepo) Delete(ctx context.Context, batchID id.ID) error {
	q := r.builder.Delete(batchesTable).
		Where(squirrel.Eq{"id": batchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewPersistence(fmt.Errorf("delete batch: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("batch", batchID.String())
	}

	return nil
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// constraint violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
