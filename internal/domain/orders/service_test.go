package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/entity"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/types"
)

type memoryOrderRepo struct {
	orders map[id.ID]*entity.Order
	items  map[id.ID][]entity.OrderItem
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{
		orders: make(map[id.ID]*entity.Order),
		items:  make(map[id.ID][]entity.OrderItem),
	}
}

func (r *memoryOrderRepo) GetAll(_ context.Context) ([]entity.Order, error) {
	out := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		copied := *o
		copied.Items = nil
		out = append(out, copied)
	}
	return out, nil
}

func (r *memoryOrderRepo) GetByID(_ context.Context, orderID id.ID) (*entity.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID.String())
	}
	copied := *o
	copied.Items = nil
	return &copied, nil
}

func (r *memoryOrderRepo) GetItems(_ context.Context, orderID id.ID) ([]entity.OrderItem, error) {
	items := r.items[orderID]
	out := make([]entity.OrderItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *memoryOrderRepo) Create(_ context.Context, order *entity.Order) error {
	order.ID = id.New()
	for i := range order.Items {
		order.Items[i].ID = id.New()
		order.Items[i].OrderID = order.ID
	}
	copied := *order
	r.orders[order.ID] = &copied
	items := make([]entity.OrderItem, len(order.Items))
	copy(items, order.Items)
	r.items[order.ID] = items
	return nil
}

func (r *memoryOrderRepo) Update(_ context.Context, order *entity.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return apperror.NewNotFound("order", order.ID.String())
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memoryOrderRepo) Delete(_ context.Context, orderID id.ID) error {
	delete(r.orders, orderID)
	delete(r.items, orderID)
	return nil
}

type memorySupplierRepo struct {
	suppliers map[id.ID]*entity.Supplier
}

func newMemorySupplierRepo() *memorySupplierRepo {
	return &memorySupplierRepo{suppliers: make(map[id.ID]*entity.Supplier)}
}

func (r *memorySupplierRepo) GetAll(_ context.Context) ([]entity.Supplier, error) {
	out := make([]entity.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memorySupplierRepo) GetByID(_ context.Context, supplierID id.ID) (*entity.Supplier, error) {
	s, ok := r.suppliers[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	copied := *s
	return &copied, nil
}

func (r *memorySupplierRepo) Create(_ context.Context, supplier *entity.Supplier) error {
	supplier.ID = id.New()
	copied := *supplier
	r.suppliers[supplier.ID] = &copied
	return nil
}

func (r *memorySupplierRepo) Update(_ context.Context, supplier *entity.Supplier) error {
	copied := *supplier
	r.suppliers[supplier.ID] = &copied
	return nil
}

func (r *memorySupplierRepo) Delete(_ context.Context, supplierID id.ID) error {
	delete(r.suppliers, supplierID)
	return nil
}

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, id.ID) {
	t.Helper()
	supplierRepo := newMemorySupplierRepo()
	supplier := entity.NewSupplier("Wellness Wholesale")
	require.NoError(t, supplierRepo.Create(context.Background(), supplier))
	return NewService(newMemoryOrderRepo(), supplierRepo, nopTxManager{}), supplier.ID
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	svc, supplierID := newTestService(t)

	order := entity.NewOrder(supplierID, day(2026, 3, 1), day(2026, 3, 8))
	order.AddItem(id.New(), 100, types.MustMoney("1.25"))
	order.AddItem(id.New(), 40, types.MustMoney("3.10"))

	require.NoError(t, svc.Place(ctx, order))
	assert.False(t, id.IsNil(order.ID))

	got, err := svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, got.Status)
	require.Len(t, got.Items, 2)
	assert.True(t, got.TotalCost().Equal(types.MustMoney("249.00")),
		"got %s", got.TotalCost())
}

func TestPlaceOrderUnknownSupplier(t *testing.T) {
	svc, _ := newTestService(t)

	order := entity.NewOrder(id.New(), day(2026, 3, 1), day(2026, 3, 8))
	order.AddItem(id.New(), 10, types.MustMoney("2.00"))

	err := svc.Place(context.Background(), order)
	assert.True(t, apperror.IsReference(err))
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, supplierID := newTestService(t)
	ctx := context.Background()

	t.Run("no items", func(t *testing.T) {
		order := entity.NewOrder(supplierID, day(2026, 3, 1), day(2026, 3, 8))
		assert.True(t, apperror.IsValidation(svc.Place(ctx, order)))
	})

	t.Run("delivery before order date", func(t *testing.T) {
		order := entity.NewOrder(supplierID, day(2026, 3, 8), day(2026, 3, 1))
		order.AddItem(id.New(), 10, types.MustMoney("2.00"))
		assert.True(t, apperror.IsValidation(svc.Place(ctx, order)))
	})

	t.Run("non-positive item quantity", func(t *testing.T) {
		order := entity.NewOrder(supplierID, day(2026, 3, 1), day(2026, 3, 8))
		order.AddItem(id.New(), 0, types.MustMoney("2.00"))
		err := svc.Place(ctx, order)
		require.True(t, apperror.IsValidation(err))
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, 1, appErr.Details["lineNo"])
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	svc, supplierID := newTestService(t)

	order := entity.NewOrder(supplierID, day(2026, 3, 1), day(2026, 3, 8))
	order.AddItem(id.New(), 10, types.MustMoney("2.00"))
	require.NoError(t, svc.Place(ctx, order))

	updated, err := svc.UpdateStatus(ctx, order.ID, entity.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderShipped, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, entity.OrderStatus("Lost"))
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UpdateStatus(ctx, id.New(), entity.OrderDelivered)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	svc, supplierID := newTestService(t)

	order := entity.NewOrder(supplierID, day(2026, 3, 1), day(2026, 3, 8))
	order.AddItem(id.New(), 10, types.MustMoney("2.00"))
	require.NoError(t, svc.Place(ctx, order))

	require.NoError(t, svc.Delete(ctx, order.ID))
	_, err := svc.GetByID(ctx, order.ID)
	assert.True(t, apperror.IsNotFound(err))
}
