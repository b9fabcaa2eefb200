package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/core/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProductValidate(t *testing.T) {
	ctx := context.Background()

	p := NewProduct("PARA-500", "Paracetamol 500mg", "Analgesic", types.MustMoney("10.00"), 20)
	require.NoError(t, p.Validate(ctx))

	empty := NewProduct("", "Paracetamol 500mg", "Analgesic", types.MustMoney("10.00"), 20)
	err := empty.Validate(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	negative := NewProduct("PARA-500", "Paracetamol 500mg", "Analgesic", types.MustMoney("-1"), 20)
	assert.True(t, apperror.IsValidation(negative.Validate(ctx)))

	reorder := NewProduct("PARA-500", "Paracetamol 500mg", "Analgesic", types.MustMoney("10.00"), -1)
	assert.True(t, apperror.IsValidation(reorder.Validate(ctx)))
}

func TestProductPatchDoesNotTouchSKU(t *testing.T) {
	p := NewProduct("PARA-500", "Paracetamol 500mg", "Analgesic", types.MustMoney("10.00"), 20)

	newName := "Paracetamol 500mg (blister)"
	price := types.MustMoney("12.50")
	patch := ProductPatch{Name: &newName, UnitPrice: &price}
	patch.Apply(p)

	assert.Equal(t, "PARA-500", p.SKU)
	assert.Equal(t, newName, p.Name)
	assert.True(t, price.Equal(p.UnitPrice))
	assert.Equal(t, "Analgesic", p.Category)
}

func TestBatchValidate(t *testing.T) {
	ctx := context.Background()
	pid := id.New()

	b := NewBatch(pid, 50, date(2024, time.January, 1), date(2025, time.January, 1))
	require.NoError(t, b.Validate(ctx))

	// Expiry must be strictly after manufacture.
	same := NewBatch(pid, 50, date(2024, time.January, 1), date(2024, time.January, 1))
	err := same.Validate(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	negative := NewBatch(pid, -1, date(2024, time.January, 1), date(2025, time.January, 1))
	assert.True(t, apperror.IsValidation(negative.Validate(ctx)))

	orphan := NewBatch(id.Nil(), 50, date(2024, time.January, 1), date(2025, time.January, 1))
	assert.True(t, apperror.IsValidation(orphan.Validate(ctx)))
}

func TestBatchExpiringSoonInclusive(t *testing.T) {
	pid := id.New()
	today := date(2024, time.June, 1)

	exactly30 := NewBatch(pid, 10, date(2024, time.January, 1), today.AddDate(0, 0, 30))
	assert.True(t, exactly30.ExpiringSoonAt(today, DefaultExpiryThresholdDays))

	in31 := NewBatch(pid, 10, date(2024, time.January, 1), today.AddDate(0, 0, 31))
	assert.False(t, in31.ExpiringSoonAt(today, DefaultExpiryThresholdDays))

	// Already expired still counts as expiring soon.
	expired := NewBatch(pid, 10, date(2023, time.January, 1), date(2023, time.June, 1))
	assert.True(t, expired.ExpiringSoonAt(today, DefaultExpiryThresholdDays))
}

func TestBatchDeduct(t *testing.T) {
	b := NewBatch(id.New(), 5, date(2024, time.January, 1), date(2025, time.January, 1))

	require.NoError(t, b.Deduct(3))
	assert.Equal(t, 2, b.Quantity)

	err := b.Deduct(3)
	require.Error(t, err)
	assert.Equal(t, 2, b.Quantity)

	require.NoError(t, b.Deduct(2))
	assert.True(t, b.IsExhausted())
}

func TestSaleRecordValidateAndTotal(t *testing.T) {
	ctx := context.Background()

	sale := NewSaleRecord(id.New(), 3, types.MustMoney("10.00"))
	require.NoError(t, sale.Validate(ctx))
	assert.True(t, types.MustMoney("30.00").Equal(sale.TotalValue()))

	zero := NewSaleRecord(id.New(), 0, types.MustMoney("10.00"))
	assert.True(t, apperror.IsValidation(zero.Validate(ctx)))

	negative := NewSaleRecord(id.New(), 3, types.MustMoney("-0.01"))
	assert.True(t, apperror.IsValidation(negative.Validate(ctx)))
}

func TestSupplierValidate(t *testing.T) {
	ctx := context.Background()

	s := NewSupplier("Acme Pharma Ltd")
	require.NoError(t, s.Validate(ctx))

	blank := NewSupplier("   ")
	assert.True(t, apperror.IsValidation(blank.Validate(ctx)))
}

func TestOrderValidate(t *testing.T) {
	ctx := context.Background()
	supplierID := id.New()
	productID := id.New()

	o := NewOrder(supplierID, date(2024, time.March, 1), date(2024, time.March, 10))
	o.AddItem(productID, 100, types.MustMoney("4.25"))
	require.NoError(t, o.Validate(ctx))
	assert.True(t, types.MustMoney("425.00").Equal(o.TotalCost()))

	// Delivery before order date
	late := NewOrder(supplierID, date(2024, time.March, 10), date(2024, time.March, 1))
	late.AddItem(productID, 1, types.MustMoney("1"))
	assert.True(t, apperror.IsValidation(late.Validate(ctx)))

	// No items
	empty := NewOrder(supplierID, date(2024, time.March, 1), date(2024, time.March, 10))
	assert.True(t, apperror.IsValidation(empty.Validate(ctx)))

	// Bad line
	badLine := NewOrder(supplierID, date(2024, time.March, 1), date(2024, time.March, 10))
	badLine.AddItem(productID, 0, types.MustMoney("1"))
	assert.True(t, apperror.IsValidation(badLine.Validate(ctx)))
}
