package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeQuote_NoCoupon(t *testing.T) {
	quote := ComputeQuote(100, 25, 15, 2, nil, nil)

	assert.Equal(t, 200.0, quote.BaseTotal)
	assert.Equal(t, 25.0, quote.CleaningFee)
	assert.Equal(t, 15.0, quote.ServiceFee)
	assert.Equal(t, 240.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.Taxes)
	assert.Equal(t, 0.0, quote.Discount)
	assert.Equal(t, 240.0, quote.Total)
	assert.Nil(t, quote.CouponCode)
	assert.Nil(t, quote.CouponPercent)
}

func TestComputeQuote_WithCoupon(t *testing.T) {
	// Two nights at 100 with no fees and a 10% code: discount 20, total 180.
	code := "SUMMER10"
	percent := 10.0

	quote := ComputeQuote(100, 0, 0, 2, &code, &percent)

	assert.Equal(t, 200.0, quote.Subtotal)
	assert.Equal(t, 20.0, quote.Discount)
	assert.Equal(t, 180.0, quote.Total)
	assert.Equal(t, &code, quote.CouponCode)
	assert.Equal(t, &percent, quote.CouponPercent)
}

func TestComputeQuote_DiscountAppliesToFees(t *testing.T) {
	code := "HALF"
	percent := 50.0

	quote := ComputeQuote(100, 30, 10, 1, &code, &percent)

	assert.Equal(t, 140.0, quote.Subtotal)
	assert.Equal(t, 70.0, quote.Discount)
	assert.Equal(t, 70.0, quote.Total)
}

func TestComputeQuote_FullDiscountFloorsAtZero(t *testing.T) {
	code := "FREE"
	percent := 100.0

	quote := ComputeQuote(80, 0, 0, 3, &code, &percent)

	assert.Equal(t, 240.0, quote.Discount)
	assert.Equal(t, 0.0, quote.Total)
}

func TestComputeQuote_SingleNight(t *testing.T) {
	quote := ComputeQuote(55.5, 0, 0, 1, nil, nil)

	assert.Equal(t, 55.5, quote.BaseTotal)
	assert.Equal(t, 55.5, quote.Total)
}
