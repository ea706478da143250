package usecase

import (
	"lodging-booking/internal/data/entity"
)

// ComputeQuote builds the price snapshot for a stay:
//
//	subtotal = basePrice*nights + cleaningFee + serviceFee
//	taxes    = 0 (reserved policy slot)
//	discount = subtotal * percent/100 when a coupon applies
//	total    = subtotal + taxes - discount, floored at 0
//
// Amounts stay in the property's declared unit; nothing is rounded here.
func ComputeQuote(basePrice, cleaningFee, serviceFee float64, nights int, couponCode *string, couponPercent *float64) entity.PriceSnapshot {
	baseTotal := basePrice * float64(nights)
	subtotal := baseTotal + cleaningFee + serviceFee

	var taxes float64

	var discount float64
	if couponPercent != nil {
		discount = subtotal * *couponPercent / 100
	}

	total := subtotal + taxes - discount
	if total < 0 {
		total = 0
	}

	return entity.PriceSnapshot{
		BaseTotal:     baseTotal,
		CleaningFee:   cleaningFee,
		ServiceFee:    serviceFee,
		Subtotal:      subtotal,
		Taxes:         taxes,
		Discount:      discount,
		Total:         total,
		CouponCode:    couponCode,
		CouponPercent: couponPercent,
	}
}
