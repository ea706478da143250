package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "pending"
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusRejected   ReservationStatus = "rejected"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
	ReservationStatusCheckedIn  ReservationStatus = "checked_in"
	ReservationStatusCheckedOut ReservationStatus = "checked_out"
)

// OccupiesInventory reports whether a reservation in this status still
// counts against the property's nightly room inventory. A pending
// reservation occupies a room while payment is outstanding.
func (s ReservationStatus) OccupiesInventory() bool {
	return s != ReservationStatusCancelled && s != ReservationStatusRejected
}

// PriceSnapshot is the persisted breakdown of a reservation's charges at
// the time of the last price computation.
type PriceSnapshot struct {
	BaseTotal     float64  `db:"base_total"`
	CleaningFee   float64  `db:"cleaning_fee"`
	ServiceFee    float64  `db:"service_fee"`
	Subtotal      float64  `db:"subtotal"`
	Taxes         float64  `db:"taxes"`
	Discount      float64  `db:"discount"`
	Total         float64  `db:"total"`
	CouponCode    *string  `db:"coupon_code"`
	CouponPercent *float64 `db:"coupon_percent"`
}

type Reservation struct {
	Base
	PropertyID uuid.UUID         `db:"property_id"`
	CustomerID uuid.UUID         `db:"customer_id"`
	CheckIn    time.Time         `db:"check_in"`
	CheckOut   time.Time         `db:"check_out"`
	Nights     int               `db:"nights"`
	Guests     int               `db:"guests"`
	Status     ReservationStatus `db:"status"`
	Price      PriceSnapshot
	CouponID   *uuid.UUID `db:"coupon_id"`

	ConfirmedAt        *time.Time `db:"confirmed_at"`
	AutoConfirmedAt    *time.Time `db:"auto_confirmed_at"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	CheckedInAt        *time.Time `db:"checked_in_at"`
	CheckedOutAt       *time.Time `db:"checked_out_at"`
	CancellationReason *string    `db:"cancellation_reason"`
	CancellationPolicy *string    `db:"cancellation_policy"`
	RefundAmount       *float64   `db:"refund_amount"`
}

// CoversNight reports whether the stay occupies the calendar night d.
// The stay is the half-open interval [CheckIn, CheckOut).
func (r *Reservation) CoversNight(d time.Time) bool {
	return !d.Before(r.CheckIn) && d.Before(r.CheckOut)
}
