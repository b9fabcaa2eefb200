package entity

import (
	"context"
	"time"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
)

// DefaultExpiryThresholdDays is the window used by expiring-soon checks
// when the caller does not pass an explicit threshold.
const DefaultExpiryThresholdDays = 30

// Batch is a time-stamped lot of stock for one product. Its quantity
// shrinks as units are sold; a batch with zero quantity is exhausted but
// never deleted by the sales process.
type Batch struct {
	// ID stays id.Nil until the batch is persisted.
	ID id.ID `db:"id" json:"id"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity is the remaining units in this batch. Never negative.
	Quantity int `db:"quantity" json:"quantity"`

	ManufactureDate time.Time `db:"manufacture_date" json:"manufactureDate"`
	ExpiryDate      time.Time `db:"expiry_date" json:"expiryDate"`
}

// NewBatch creates a new Batch for a product.
func NewBatch(productID id.ID, quantity int, manufactureDate, expiryDate time.Time) *Batch {
	return &Batch{
		ProductID:       productID,
		Quantity:        quantity,
		ManufactureDate: Day(manufactureDate),
		ExpiryDate:      Day(expiryDate),
	}
}

// Validate implements Validatable.
func (b *Batch) Validate(ctx context.Context) error {
	if id.IsNil(b.ProductID) {
		return apperror.NewValidation("product reference is required").
			WithDetail("field", "productId")
	}
	if b.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	if !b.ExpiryDate.After(b.ManufactureDate) {
		return apperror.NewValidation("expiry date must be after manufacture date").
			WithDetail("field", "expiryDate")
	}
	return nil
}

// IsExhausted reports whether the batch has no remaining units.
func (b *Batch) IsExhausted() bool {
	return b.Quantity == 0
}

// ExpiringSoon reports whether the batch expires within daysThreshold
// days of today. The comparison is inclusive and already-expired batches
// also report true (negative day difference is below any threshold).
func (b *Batch) ExpiringSoon(daysThreshold int) bool {
	return b.ExpiringSoonAt(Today(), daysThreshold)
}

// ExpiringSoonAt is ExpiringSoon evaluated against an explicit reference
// day instead of the wall clock.
func (b *Batch) ExpiringSoonAt(day time.Time, daysThreshold int) bool {
	days := int(b.ExpiryDate.Sub(Day(day)).Hours() / 24)
	return days <= daysThreshold
}

// Deduct removes amount units from the batch.
func (b *Batch) Deduct(amount int) error {
	if amount < 0 {
		return apperror.NewValidation("deduction amount cannot be negative").
			WithDetail("field", "amount")
	}
	if amount > b.Quantity {
		return apperror.NewValidation("cannot deduct more than remaining quantity").
			WithDetail("field", "amount").
			WithDetail("remaining", b.Quantity)
	}
	b.Quantity -= amount
	return nil
}

// Day truncates t to its calendar date in UTC. Manufacture, expiry and
// sale dates are stored at day precision.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in UTC.
func Today() time.Time {
	return Day(time.Now())
}
