// Package inventory provides the stock ledger: per-product, time-stamped
// batches with FIFO consumption, availability queries, expiry views and
// reorder checks.
package inventory

import (
	"context"
	"time"

	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
)

// ProductRepository is the persistence gateway for products.
// Create assigns the identity of a new product.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]entity.Product, error)
	GetByID(ctx context.Context, productID id.ID) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, productID id.ID) error
}

// BatchRepository is the persistence gateway for stock batches.
// Create assigns the identity of a new batch.
type BatchRepository interface {
	GetAll(ctx context.Context) ([]entity.Batch, error)
	GetByID(ctx context.Context, batchID id.ID) (*entity.Batch, error)
	Create(ctx context.Context, batch *entity.Batch) error
	Update(ctx context.Context, batch *entity.Batch) error
	Delete(ctx context.Context, batchID id.ID) error
}

// SaleRepository is the persistence gateway for sale records.
// Sale records are append-only: there is no update or delete.
type SaleRepository interface {
	GetAll(ctx context.Context) ([]entity.SaleRecord, error)
	GetByID(ctx context.Context, saleID id.ID) (*entity.SaleRecord, error)

	// RecordSale persists the sale and returns it with identity assigned.
	RecordSale(ctx context.Context, sale *entity.SaleRecord) (*entity.SaleRecord, error)

	// SalesBetween returns sales with sale_date in [start, end],
	// inclusive on both ends.
	SalesBetween(ctx context.Context, start, end time.Time) ([]entity.SaleRecord, error)
}

// MovementType distinguishes journal entries.
type MovementType string

const (
	// MovementReceipt records stock entering a batch.
	MovementReceipt MovementType = "receipt"
	// MovementDepletion records stock leaving a batch through a sale.
	MovementDepletion MovementType = "depletion"
)

// Movement is one journal entry: a quantity change against a batch.
type Movement struct {
	Type      MovementType
	BatchID   id.ID
	ProductID id.ID
	// SaleID is set for depletions, id.Nil for receipts.
	SaleID id.ID
	// Quantity is the number of units moved.
	Quantity int
	// Remaining is the batch quantity after the movement.
	Remaining int
}

// MovementJournal records stock movements for later inspection. The
// ledger calls it inside the same transaction as the mutation it
// describes; implementations must not retry or swallow errors.
type MovementJournal interface {
	Record(ctx context.Context, movements []Movement) error
}
