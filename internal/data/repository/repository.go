package repository

import (
	"lodging-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Property    PropertyRepository
	Customer    CustomerRepository
	Coupon      CouponRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Property:    NewPropertyRepository(db, log),
		Customer:    NewCustomerRepository(db, log),
		Coupon:      NewCouponRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
