// Package main provides a CLI tool for preparing the database schema and
// loading demo inventory data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/types"
	"github.com/RWageesha/Genie-s-STK/internal/domain/inventory"
	"github.com/RWageesha/Genie-s-STK/internal/domain/suppliers"
	"github.com/RWageesha/Genie-s-STK/internal/infrastructure/storage/postgres"
	"github.com/RWageesha/Genie-s-STK/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	if err := postgres.Bootstrap(ctx, txManager); err != nil {
		log.Fatalw("failed to bootstrap schema", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, txManager *postgres.TxManager) error {
	journal, err := postgres.NewMovementJournal(txManager)
	if err != nil {
		return fmt.Errorf("create movement journal: %w", err)
	}

	ledger := inventory.NewLedger(inventory.LedgerConfig{
		Products:  postgres.NewProductRepo(txManager),
		Batches:   postgres.NewBatchRepo(txManager),
		Sales:     postgres.NewSaleRepo(txManager),
		TxManager: txManager,
		Journal:   journal,
	})
	if err := ledger.Load(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	if len(ledger.InventoryStatus()) > 0 {
		logger.Info(ctx, "demo data already present, skipping")
		return nil
	}

	supplierSvc := suppliers.NewService(postgres.NewSupplierRepo(txManager), txManager)
	supplier := entity.NewSupplier("PharmaDirect Ltd")
	supplier.Email = strPtr("orders@pharmadirect.example")
	if err := supplierSvc.Add(ctx, supplier); err != nil {
		return fmt.Errorf("seed supplier: %w", err)
	}

	products := []*entity.Product{
		entity.NewProduct("PARA-500", "Paracetamol 500mg", "Analgesic", types.MustMoney("4.50"), 50),
		entity.NewProduct("AMOX-250", "Amoxicillin 250mg", "Antibiotic", types.MustMoney("12.00"), 30),
		entity.NewProduct("CETI-10", "Cetirizine 10mg", "Antihistamine", types.MustMoney("6.25"), 20),
	}

	now := time.Now()
	for _, p := range products {
		if err := ledger.AddProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}

		batch := entity.NewBatch(p.ID, 100,
			now.AddDate(0, -2, 0), now.AddDate(1, 0, 0))
		if err := ledger.AddBatch(ctx, batch); err != nil {
			return fmt.Errorf("seed batch for %s: %w", p.SKU, err)
		}
	}

	logger.Info(ctx, "demo data seeded",
		"products", len(products),
		"supplier", supplier.Name,
	)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func strPtr(s string) *string { return &s }
