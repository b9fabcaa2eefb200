package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/tx"
	"github.com/RWageesha/Genie-s-STK/pkg/logger"
)

// Ledger tracks products and their stock batches. The in-memory
// collections are a cache of the persistence gateway's data, rebuilt by
// Load at startup and synchronized after every successful mutation.
//
// Batches are held sorted by expiry date ascending: that order feeds the
// expiry views only. FIFO consumption orders by manufacture date and is
// computed per sale; the two orderings are deliberately independent.
//
// The ledger is single-user: operations are synchronous and not safe for
// concurrent invocation.
type Ledger struct {
	products  map[id.ID]*entity.Product
	batches   []*entity.Batch
	batchByID map[id.ID]*entity.Batch

	productRepo ProductRepository
	batchRepo   BatchRepository
	saleRepo    SaleRepository
	txManager   tx.Manager
	journal     MovementJournal // optional
}

// LedgerConfig wires the ledger's collaborators.
type LedgerConfig struct {
	Products  ProductRepository
	Batches   BatchRepository
	Sales     SaleRepository
	TxManager tx.Manager
	Journal   MovementJournal // may be nil
}

// NewLedger creates an empty ledger. Call Load before use.
func NewLedger(cfg LedgerConfig) *Ledger {
	return &Ledger{
		products:    make(map[id.ID]*entity.Product),
		batchByID:   make(map[id.ID]*entity.Batch),
		productRepo: cfg.Products,
		batchRepo:   cfg.Batches,
		saleRepo:    cfg.Sales,
		txManager:   cfg.TxManager,
		journal:     cfg.Journal,
	}
}

// Load rebuilds the in-memory cache from the persistence gateway.
func (l *Ledger) Load(ctx context.Context) error {
	products, err := l.productRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	batches, err := l.batchRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load batches: %w", err)
	}

	l.products = make(map[id.ID]*entity.Product, len(products))
	for i := range products {
		p := products[i]
		l.products[p.ID] = &p
	}

	l.batches = make([]*entity.Batch, 0, len(batches))
	l.batchByID = make(map[id.ID]*entity.Batch, len(batches))
	for i := range batches {
		b := batches[i]
		l.batches = append(l.batches, &b)
		l.batchByID[b.ID] = &b
	}
	l.sortBatchesByExpiry()

	logger.Info(ctx, "ledger loaded",
		"products", len(l.products),
		"batches", len(l.batches),
	)
	return nil
}

func (l *Ledger) sortBatchesByExpiry() {
	sort.SliceStable(l.batches, func(i, j int) bool {
		return l.batches[i].ExpiryDate.Before(l.batches[j].ExpiryDate)
	})
}

// --- Product operations ---

// AddProduct validates and persists a new product.
func (l *Ledger) AddProduct(ctx context.Context, product *entity.Product) error {
	if err := product.Validate(ctx); err != nil {
		return err
	}
	if existing := l.findBySKU(product.SKU); existing != nil {
		return apperror.NewDuplicate("product", "sku", product.SKU)
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.productRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cached := *product
	l.products[cached.ID] = &cached

	logger.Info(ctx, "product added", "id", product.ID, "sku", product.SKU)
	return nil
}

// UpdateProduct applies a patch to an existing product. The SKU is
// immutable and not part of the patch.
func (l *Ledger) UpdateProduct(ctx context.Context, productID id.ID, patch entity.ProductPatch) (*entity.Product, error) {
	cached, ok := l.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}

	updated := *cached
	patch.Apply(&updated)
	if err := updated.Validate(ctx); err != nil {
		return nil, err
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.productRepo.Update(ctx, &updated); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	*cached = updated
	result := updated
	return &result, nil
}

// DeleteProduct removes a product and drops its batches from the cache.
// Past sale records referencing the product remain untouched.
func (l *Ledger) DeleteProduct(ctx context.Context, productID id.ID) error {
	if _, ok := l.products[productID]; !ok {
		return apperror.NewNotFound("product", productID.String())
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.productRepo.Delete(ctx, productID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	delete(l.products, productID)
	kept := l.batches[:0]
	for _, b := range l.batches {
		if b.ProductID == productID {
			delete(l.batchByID, b.ID)
			continue
		}
		kept = append(kept, b)
	}
	l.batches = kept

	logger.Info(ctx, "product deleted", "id", productID)
	return nil
}

// ProductByID returns a copy of the product.
func (l *Ledger) ProductByID(productID id.ID) (*entity.Product, error) {
	cached, ok := l.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	p := *cached
	return &p, nil
}

// ProductBySKU returns a copy of the product with the given SKU.
func (l *Ledger) ProductBySKU(sku string) (*entity.Product, error) {
	cached := l.findBySKU(sku)
	if cached == nil {
		return nil, apperror.NewNotFound("product", sku)
	}
	p := *cached
	return &p, nil
}

func (l *Ledger) findBySKU(sku string) *entity.Product {
	for _, p := range l.products {
		if strings.EqualFold(p.SKU, sku) {
			return p
		}
	}
	return nil
}

// SearchProducts returns products whose name, SKU or category contains
// the keyword, case-insensitively.
func (l *Ledger) SearchProducts(keyword string) []entity.Product {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	result := make([]entity.Product, 0)
	for _, p := range l.products {
		if keyword == "" ||
			strings.Contains(strings.ToLower(p.Name), keyword) ||
			strings.Contains(strings.ToLower(p.SKU), keyword) ||
			strings.Contains(strings.ToLower(p.Category), keyword) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// --- Batch operations ---

// AddBatch validates and persists a new batch. The referenced product
// must already exist in the ledger.
func (l *Ledger) AddBatch(ctx context.Context, batch *entity.Batch) error {
	if err := batch.Validate(ctx); err != nil {
		return err
	}
	if _, ok := l.products[batch.ProductID]; !ok {
		return apperror.NewReference("product does not exist").
			WithDetail("product_id", batch.ProductID.String())
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.batchRepo.Create(ctx, batch); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		if l.journal != nil {
			err := l.journal.Record(ctx, []Movement{{
				Type:      MovementReceipt,
				BatchID:   batch.ID,
				ProductID: batch.ProductID,
				Quantity:  batch.Quantity,
				Remaining: batch.Quantity,
			}})
			if err != nil {
				return fmt.Errorf("journal receipt: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	cached := *batch
	l.batches = append(l.batches, &cached)
	l.batchByID[cached.ID] = &cached
	l.sortBatchesByExpiry()

	logger.Info(ctx, "batch added",
		"id", batch.ID,
		"product_id", batch.ProductID,
		"quantity", batch.Quantity,
		"expiry", batch.ExpiryDate.Format("2006-01-02"),
	)
	return nil
}

// UpdateBatch replaces a batch's mutable fields. A management operation;
// the sales workflow never calls it directly.
func (l *Ledger) UpdateBatch(ctx context.Context, batch *entity.Batch) error {
	if err := batch.Validate(ctx); err != nil {
		return err
	}
	cached, ok := l.batchByID[batch.ID]
	if !ok {
		return apperror.NewNotFound("batch", batch.ID.String())
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.batchRepo.Update(ctx, batch); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	*cached = *batch
	l.sortBatchesByExpiry()
	return nil
}

// DeleteBatch removes a batch entirely. Never invoked by sales, which
// only exhaust batches.
func (l *Ledger) DeleteBatch(ctx context.Context, batchID id.ID) error {
	if _, ok := l.batchByID[batchID]; !ok {
		return apperror.NewNotFound("batch", batchID.String())
	}

	err := l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.batchRepo.Delete(ctx, batchID); err != nil {
			return fmt.Errorf("delete batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	delete(l.batchByID, batchID)
	for i, b := range l.batches {
		if b.ID == batchID {
			l.batches = append(l.batches[:i], l.batches[i+1:]...)
			break
		}
	}
	return nil
}

// BatchByID returns a copy of the batch.
func (l *Ledger) BatchByID(batchID id.ID) (*entity.Batch, error) {
	cached, ok := l.batchByID[batchID]
	if !ok {
		return nil, apperror.NewNotFound("batch", batchID.String())
	}
	b := *cached
	return &b, nil
}

// Batches returns all batches ordered by expiry date ascending.
func (l *Ledger) Batches() []entity.Batch {
	result := make([]entity.Batch, 0, len(l.batches))
	for _, b := range l.batches {
		result = append(result, *b)
	}
	return result
}

// AvailableQuantity returns the total remaining quantity across the
// product's batches. Exhausted batches contribute zero; a product with
// no batches yields zero.
func (l *Ledger) AvailableQuantity(productID id.ID) int {
	total := 0
	for _, b := range l.batches {
		if b.ProductID == productID {
			total += b.Quantity
		}
	}
	return total
}

// --- FIFO depletion ---

// depletion is one step of a FIFO plan: take units from a batch.
type depletion struct {
	batch *entity.Batch
	take  int
}

// planDepletion selects the product's non-exhausted batches, orders them
// by manufacture date ascending and allocates quantity oldest-first.
// The shortfall check happens before any mutation: either the full plan
// is returned or InsufficientStockError and nothing has changed.
func (l *Ledger) planDepletion(productID id.ID, quantity int) ([]depletion, error) {
	eligible := make([]*entity.Batch, 0)
	available := 0
	for _, b := range l.batches {
		if b.ProductID == productID && b.Quantity > 0 {
			eligible = append(eligible, b)
			available += b.Quantity
		}
	}
	if available < quantity {
		return nil, apperror.NewInsufficientStock(productID.String(), quantity, available)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].ManufactureDate.Before(eligible[j].ManufactureDate)
	})

	plan := make([]depletion, 0, len(eligible))
	remaining := quantity
	for _, b := range eligible {
		if remaining == 0 {
			break
		}
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		plan = append(plan, depletion{batch: b, take: take})
		remaining -= take
	}
	return plan, nil
}

// SellProduct depletes quantity units of the product oldest-manufactured
// first and appends a SaleRecord priced at the product's current unit
// price. Batch updates and the sale append run in one transaction; the
// cache is only mutated after a successful commit, so a failed sale
// leaves every batch quantity untouched.
func (l *Ledger) SellProduct(ctx context.Context, productID id.ID, quantity int) (*entity.SaleRecord, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity to sell must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", quantity)
	}

	product, ok := l.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}

	available := l.AvailableQuantity(productID)
	if available < quantity {
		return nil, apperror.NewInsufficientStock(productID.String(), quantity, available)
	}

	plan, err := l.planDepletion(productID, quantity)
	if err != nil {
		return nil, err
	}

	sale := entity.NewSaleRecord(productID, quantity, product.UnitPrice)

	err = l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		movements := make([]Movement, 0, len(plan))
		for _, d := range plan {
			updated := *d.batch
			updated.Quantity -= d.take
			if err := l.batchRepo.Update(ctx, &updated); err != nil {
				return fmt.Errorf("update batch %s: %w", updated.ID, err)
			}
			movements = append(movements, Movement{
				Type:      MovementDepletion,
				BatchID:   updated.ID,
				ProductID: productID,
				Quantity:  d.take,
				Remaining: updated.Quantity,
			})
		}

		persisted, err := l.saleRepo.RecordSale(ctx, sale)
		if err != nil {
			return fmt.Errorf("record sale: %w", err)
		}
		sale = persisted

		if l.journal != nil {
			for i := range movements {
				movements[i].SaleID = sale.ID
			}
			if err := l.journal.Record(ctx, movements); err != nil {
				return fmt.Errorf("journal depletions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range plan {
		d.batch.Quantity -= d.take
	}

	logger.Info(ctx, "product sold",
		"product_id", productID,
		"quantity", quantity,
		"sale_id", sale.ID,
		"unit_price", sale.UnitPriceAtSale,
	)
	return sale, nil
}

// --- Expiry and reorder views ---

// BatchesExpiringBefore returns all batches, exhausted ones included,
// whose expiry date falls on or before the given date. Ordered by expiry
// ascending. Read-only.
func (l *Ledger) BatchesExpiringBefore(before time.Time) []entity.Batch {
	day := entity.Day(before)
	result := make([]entity.Batch, 0)
	for _, b := range l.batches {
		if !b.ExpiryDate.After(day) {
			result = append(result, *b)
		}
	}
	return result
}

// ExpiringSoon returns batches expiring within daysThreshold days of
// today, inclusive; already-expired batches are included.
func (l *Ledger) ExpiringSoon(daysThreshold int) []entity.Batch {
	return l.ExpiringSoonAt(entity.Today(), daysThreshold)
}

// ExpiringSoonAt is ExpiringSoon against an explicit reference day.
func (l *Ledger) ExpiringSoonAt(day time.Time, daysThreshold int) []entity.Batch {
	result := make([]entity.Batch, 0)
	for _, b := range l.batches {
		if b.ExpiringSoonAt(day, daysThreshold) {
			result = append(result, *b)
		}
	}
	return result
}

// BelowReorder reports whether the product's available quantity is at or
// below its reorder level.
func (l *Ledger) BelowReorder(product *entity.Product) bool {
	return l.AvailableQuantity(product.ID) <= product.ReorderLevel
}

// ReorderCandidates returns the products currently at or below their
// reorder level.
func (l *Ledger) ReorderCandidates() []entity.Product {
	result := make([]entity.Product, 0)
	for _, p := range l.products {
		if l.BelowReorder(p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// InventoryStatus returns all products with TotalQuantity populated from
// their batches.
func (l *Ledger) InventoryStatus() []entity.Product {
	result := make([]entity.Product, 0, len(l.products))
	for _, p := range l.products {
		status := *p
		status.TotalQuantity = l.AvailableQuantity(p.ID)
		result = append(result, status)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
