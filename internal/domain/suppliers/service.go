// Package suppliers provides the supplier catalog.
package suppliers

import (
	"context"
	"fmt"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/tx"
	"github.com/RWageesha/Genie-s-STK/pkg/logger"
)

// Repository is the persistence gateway for suppliers.
// Create assigns the identity of a new supplier.
type Repository interface {
	GetAll(ctx context.Context) ([]entity.Supplier, error)
	GetByID(ctx context.Context, supplierID id.ID) (*entity.Supplier, error)
	Create(ctx context.Context, supplier *entity.Supplier) error
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
}

// Service provides business operations for suppliers.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Add validates and persists a new supplier.
func (s *Service) Add(ctx context.Context, supplier *entity.Supplier) error {
	if err := supplier.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, supplier); err != nil {
			return fmt.Errorf("create supplier: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "supplier added", "id", supplier.ID, "name", supplier.Name)
	return nil
}

// Update persists changes to an existing supplier.
func (s *Service) Update(ctx context.Context, supplier *entity.Supplier) error {
	if err := supplier.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, supplier.ID); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, supplier); err != nil {
			return fmt.Errorf("update supplier: %w", err)
		}
		return nil
	})
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	if _, err := s.repo.GetByID(ctx, supplierID); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, supplierID); err != nil {
			return fmt.Errorf("delete supplier: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*entity.Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("supplier", supplierID.String())
		}
		return nil, err
	}
	return supplier, nil
}

// List retrieves all suppliers.
func (s *Service) List(ctx context.Context) ([]entity.Supplier, error) {
	return s.repo.GetAll(ctx)
}
