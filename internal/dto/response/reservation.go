package response

import (
	"time"

	"lodging-booking/internal/data/entity"
)

type PriceBreakdown struct {
	BaseTotal     float64  `json:"base_total"`
	CleaningFee   float64  `json:"cleaning_fee"`
	ServiceFee    float64  `json:"service_fee"`
	Subtotal      float64  `json:"subtotal"`
	Taxes         float64  `json:"taxes"`
	Discount      float64  `json:"discount"`
	Total         float64  `json:"total"`
	CouponCode    *string  `json:"coupon_code,omitempty"`
	CouponPercent *float64 `json:"coupon_percent,omitempty"`
}

type ReservationResponse struct {
	ID                 string         `json:"id"`
	PropertyID         string         `json:"property_id"`
	CheckIn            string         `json:"check_in"`
	CheckOut           string         `json:"check_out"`
	Nights             int            `json:"nights"`
	Guests             int            `json:"guests"`
	Status             string         `json:"status"`
	Price              PriceBreakdown `json:"price"`
	ConfirmedAt        *time.Time     `json:"confirmed_at,omitempty"`
	AutoConfirmedAt    *time.Time     `json:"auto_confirmed_at,omitempty"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty"`
	CheckedInAt        *time.Time     `json:"checked_in_at,omitempty"`
	CheckedOutAt       *time.Time     `json:"checked_out_at,omitempty"`
	CancellationReason *string        `json:"cancellation_reason,omitempty"`
	RefundAmount       *float64       `json:"refund_amount,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

type CreateReservationResponse struct {
	Reservation   ReservationResponse `json:"reservation"`
	AppliedCoupon *CouponResponse     `json:"applied_coupon"`
}

type CancelReservationResponse struct {
	Outcome      string   `json:"outcome"`
	RefundAmount *float64 `json:"refund_amount,omitempty"`
}

func ReservationToResponse(res *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         res.ID.String(),
		PropertyID: res.PropertyID.String(),
		CheckIn:    res.CheckIn.Format("2006-01-02"),
		CheckOut:   res.CheckOut.Format("2006-01-02"),
		Nights:     res.Nights,
		Guests:     res.Guests,
		Status:     string(res.Status),
		Price: PriceBreakdown{
			BaseTotal:     res.Price.BaseTotal,
			CleaningFee:   res.Price.CleaningFee,
			ServiceFee:    res.Price.ServiceFee,
			Subtotal:      res.Price.Subtotal,
			Taxes:         res.Price.Taxes,
			Discount:      res.Price.Discount,
			Total:         res.Price.Total,
			CouponCode:    res.Price.CouponCode,
			CouponPercent: res.Price.CouponPercent,
		},
		ConfirmedAt:        res.ConfirmedAt,
		AutoConfirmedAt:    res.AutoConfirmedAt,
		CancelledAt:        res.CancelledAt,
		CheckedInAt:        res.CheckedInAt,
		CheckedOutAt:       res.CheckedOutAt,
		CancellationReason: res.CancellationReason,
		RefundAmount:       res.RefundAmount,
		CreatedAt:          res.CreatedAt,
	}
}
