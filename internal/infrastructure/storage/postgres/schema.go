package postgres

import (
	"context"
	"fmt"

	"github.com/RWageesha/Genie-s-STK/pkg/logger"
)

// schemaStatements create the inventory tables. Statements are idempotent
// and ordered by dependency, so Bootstrap can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		sku TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		description TEXT,
		unit_price NUMERIC(12,2) NOT NULL,
		reorder_level INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS products_sku_key ON products (lower(sku))`,

	`CREATE TABLE IF NOT EXISTS batches (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		manufacture_date DATE NOT NULL,
		expiry_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (expiry_date > manufacture_date)
	)`,
	`CREATE INDEX IF NOT EXISTS batches_product_idx ON batches (product_id, manufacture_date)`,
	`CREATE INDEX IF NOT EXISTS batches_expiry_idx ON batches (expiry_date)`,

	`CREATE TABLE IF NOT EXISTS sale_records (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL,
		quantity_sold INTEGER NOT NULL CHECK (quantity_sold > 0),
		sale_date DATE NOT NULL,
		unit_price_at_sale NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS sale_records_date_idx ON sale_records (sale_date)`,
	`CREATE INDEX IF NOT EXISTS sale_records_product_idx ON sale_records (product_id)`,

	`CREATE TABLE IF NOT EXISTS suppliers (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		contact_person TEXT,
		phone TEXT,
		email TEXT,
		address TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		supplier_id UUID NOT NULL REFERENCES suppliers(id),
		order_date DATE NOT NULL,
		expected_delivery_date DATE NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		cost_per_unit NUMERIC(12,2) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS stock_movements (
		id UUID PRIMARY KEY,
		movement_type TEXT NOT NULL,
		batch_id UUID NOT NULL,
		product_id UUID NOT NULL,
		sale_id UUID,
		quantity INTEGER NOT NULL,
		remaining INTEGER NOT NULL,
		payload JSONB,
		payload_compressed BYTEA,
		compression_algo TEXT NOT NULL DEFAULT 'none',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS stock_movements_batch_idx ON stock_movements (batch_id, created_at)`,
}

// Bootstrap creates the schema if it does not exist yet.
func Bootstrap(ctx context.Context, txManager *TxManager) error {
	err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		querier := txManager.GetQuerier(ctx)
		for _, stmt := range schemaStatements {
			if _, err := querier.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema statement: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "database schema ready", "statements", len(schemaStatements))
	return nil
}
