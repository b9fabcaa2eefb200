// Package orders provides purchase order management.
package orders

import (
	"context"
	"fmt"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/tx"
	"github.com/RWageesha/Genie-s-STK/internal/domain/suppliers"
	"github.com/RWageesha/Genie-s-STK/pkg/logger"
)

// Repository is the persistence gateway for purchase orders. The order
// header and its items are saved together; Create assigns identities to
// the order and its items.
type Repository interface {
	GetAll(ctx context.Context) ([]entity.Order, error)
	GetByID(ctx context.Context, orderID id.ID) (*entity.Order, error)
	GetItems(ctx context.Context, orderID id.ID) ([]entity.OrderItem, error)
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, orderID id.ID) error
}

// Service provides business operations for purchase orders.
type Service struct {
	repo      Repository
	suppliers suppliers.Repository
	txManager tx.Manager
}

// NewService creates a new order service.
func NewService(repo Repository, supplierRepo suppliers.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		suppliers: supplierRepo,
		txManager: txManager,
	}
}

// Place validates and persists a new purchase order. The referenced
// supplier must exist.
func (s *Service) Place(ctx context.Context, order *entity.Order) error {
	if err := order.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.suppliers.GetByID(ctx, order.SupplierID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewReference("supplier does not exist").
				WithDetail("supplier_id", order.SupplierID.String())
		}
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "order placed",
		"id", order.ID,
		"supplier_id", order.SupplierID,
		"items", len(order.Items),
		"total_cost", order.TotalCost(),
	)
	return nil
}

// UpdateStatus moves the order to a new fulfilment status.
func (s *Service) UpdateStatus(ctx context.Context, orderID id.ID, status entity.OrderStatus) (*entity.Order, error) {
	if !entity.IsValidOrderStatus(status) {
		return nil, apperror.NewValidation("invalid order status").
			WithDetail("field", "status").
			WithDetail("value", string(status))
	}

	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Status = status

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order status updated", "id", orderID, "status", status)
	return order, nil
}

// GetByID retrieves an order with its items.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*entity.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	order.Items = items
	return order, nil
}

// List retrieves all orders with their items.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := s.repo.GetItems(ctx, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("get order items: %w", err)
		}
		orders[i].Items = items
	}
	return orders, nil
}

// Delete removes an order and its items.
func (s *Service) Delete(ctx context.Context, orderID id.ID) error {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("order", orderID.String())
		}
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, orderID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
}
