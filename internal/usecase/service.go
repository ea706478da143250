package usecase

import (
	"time"

	"lodging-booking/internal/data/repository"
	"lodging-booking/internal/notify"
	"lodging-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Availability AvailabilityService
	Coupon       CouponService
	Reservation  ReservationService
	Owner        OwnerService
	Sweep        *Sweep
}

func NewService(repo *repository.Repository, config *utils.Config, notifier notify.Notifier, log *zap.Logger) *Service {
	availability := NewAvailabilityService(repo.Reservation, log)
	coupon := NewCouponService(repo, log)

	return &Service{
		Availability: availability,
		Coupon:       coupon,
		Reservation:  NewReservationService(repo, availability, coupon, notifier, config, log),
		Owner:        NewOwnerService(repo, coupon, notifier, log),
		Sweep: NewSweep(
			repo.Reservation,
			notifier,
			time.Duration(config.Booking.SweepIntervalMinutes)*time.Minute,
			time.Duration(config.Booking.AutoConfirmAfterHours)*time.Hour,
			log,
		),
	}
}
