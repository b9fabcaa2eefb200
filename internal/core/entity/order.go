package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/types"
)

// OrderStatus tracks the fulfilment state of a purchase order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
)

// IsValidOrderStatus reports whether s is a known status.
func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// OrderItem is one product line of a purchase order.
type OrderItem struct {
	ID      id.ID `db:"id" json:"id"`
	OrderID id.ID `db:"order_id" json:"orderId"`

	ProductID   id.ID       `db:"product_id" json:"productId"`
	Quantity    int         `db:"quantity" json:"quantity"`
	CostPerUnit types.Money `db:"cost_per_unit" json:"costPerUnit"`
}

// TotalCost returns quantity times cost per unit.
func (i *OrderItem) TotalCost() types.Money {
	return i.CostPerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a purchase order placed with a supplier.
type Order struct {
	// ID stays id.Nil until the order is persisted.
	ID id.ID `db:"id" json:"id"`

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	OrderDate            time.Time `db:"order_date" json:"orderDate"`
	ExpectedDeliveryDate time.Time `db:"expected_delivery_date" json:"expectedDeliveryDate"`

	Status OrderStatus `db:"status" json:"status"`

	// Items is the table part; persisted separately from the header.
	Items []OrderItem `db:"-" json:"items"`
}

// NewOrder creates a pending purchase order.
func NewOrder(supplierID id.ID, orderDate, expectedDeliveryDate time.Time) *Order {
	return &Order{
		SupplierID:           supplierID,
		OrderDate:            Day(orderDate),
		ExpectedDeliveryDate: Day(expectedDeliveryDate),
		Status:               OrderPending,
		Items:                make([]OrderItem, 0),
	}
}

// AddItem appends a product line to the order.
func (o *Order) AddItem(productID id.ID, quantity int, costPerUnit types.Money) {
	o.Items = append(o.Items, OrderItem{
		ProductID:   productID,
		Quantity:    quantity,
		CostPerUnit: costPerUnit,
	})
}

// TotalCost sums the item costs.
func (o *Order) TotalCost() types.Money {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].TotalCost())
	}
	return total
}

// Validate implements Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if id.IsNil(o.SupplierID) {
		return apperror.NewValidation("supplier reference is required").
			WithDetail("field", "supplierId")
	}
	if o.ExpectedDeliveryDate.Before(o.OrderDate) {
		return apperror.NewValidation("expected delivery date cannot be before the order date").
			WithDetail("field", "expectedDeliveryDate")
	}
	if !IsValidOrderStatus(o.Status) {
		return apperror.NewValidation("invalid order status").
			WithDetail("field", "status").
			WithDetail("value", string(o.Status))
	}
	if len(o.Items) == 0 {
		return apperror.NewValidation("order must contain at least one item").
			WithDetail("field", "items")
	}
	for i, item := range o.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("order item quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.CostPerUnit.IsNegative() {
			return apperror.NewValidation("cost per unit cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}
