package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeQuote_WorkedExample(t *testing.T) {
	// subtotal 999.00 + shipping 50.00 + platform 20.00 - 10% of subtotal
	// = 999 + 50 + 20 - 99.90 = 969.10
	q := ComputeQuote(99900, 5000, 2000, 10)

	assert.Equal(t, int64(9990), q.DiscountCents)
	assert.Equal(t, int64(96910), q.TotalCents)
}

func TestComputeQuote_NoDiscount(t *testing.T) {
	q := ComputeQuote(10000, 500, 200, 0)
	assert.Equal(t, int64(0), q.DiscountCents)
	assert.Equal(t, int64(10700), q.TotalCents)
}

func TestComputeQuote_DiscountRoundsHalfUpToCents(t *testing.T) {
	// 3% of 1111 cents = 33.33 cents -> 33
	q := ComputeQuote(1111, 0, 0, 3)
	assert.Equal(t, int64(33), q.DiscountCents)

	// 15% of 1110 cents = 166.5 cents -> 167
	q = ComputeQuote(1110, 0, 0, 15)
	assert.Equal(t, int64(167), q.DiscountCents)
}

func TestComputeQuote_TotalNeverNegative(t *testing.T) {
	q := ComputeQuote(100, 0, 0, 100)
	assert.Equal(t, int64(0), q.TotalCents)

	// fee-free cart with a discount larger than the subtotal can't go below zero
	q = ComputeQuote(0, 0, 0, 50)
	assert.Equal(t, int64(0), q.TotalCents)
}

func TestComputeQuote_DiscountAppliesToSubtotalOnly(t *testing.T) {
	q := ComputeQuote(10000, 5000, 2000, 50)
	// 50% of subtotal, fees untouched
	assert.Equal(t, int64(5000), q.DiscountCents)
	assert.Equal(t, int64(12000), q.TotalCents)
}
