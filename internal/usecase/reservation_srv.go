package usecase

import (
	"context"
	"fmt"
	"time"

	"lodging-booking/internal/data/entity"
	"lodging-booking/internal/data/repository"
	"lodging-booking/internal/dto/request"
	"lodging-booking/internal/dto/response"
	"lodging-booking/internal/notify"
	"lodging-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	Create(ctx context.Context, accountID uuid.UUID, req *request.CreateReservationRequest) (*response.CreateReservationResponse, error)
	List(ctx context.Context, accountID uuid.UUID, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	GetByID(ctx context.Context, accountID uuid.UUID, reservationID string) (*response.ReservationResponse, error)
	Cancel(ctx context.Context, accountID uuid.UUID, reservationID, reason string) (*response.CancelReservationResponse, error)
	Reschedule(ctx context.Context, accountID uuid.UUID, reservationID string, req *request.RescheduleReservationRequest) (*response.ReservationResponse, error)
}

type reservationService struct {
	repo         *repository.Repository
	availability AvailabilityService
	coupons      CouponService
	notifier     notify.Notifier
	cancelWindow time.Duration
	log          *zap.Logger
}

func NewReservationService(
	repo *repository.Repository,
	availability AvailabilityService,
	coupons CouponService,
	notifier notify.Notifier,
	config *utils.Config,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		repo:         repo,
		availability: availability,
		coupons:      coupons,
		notifier:     notifier,
		cancelWindow: time.Duration(config.Booking.CancelWindowHours) * time.Hour,
		log:          log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) Create(ctx context.Context, accountID uuid.UUID, req *request.CreateReservationRequest) (*response.CreateReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create reservation validation failed", zap.Any("errors", errs))
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, NewValidationError("property_id must be a valid UUID")
	}

	checkIn, checkOut, vErr := parseStayRange(req.CheckIn, req.CheckOut)
	if vErr != nil {
		return nil, vErr
	}

	if failures := ValidateStayDates(checkIn, checkOut, time.Now()); len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}

	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, &NotFoundError{Resource: "property", ID: req.PropertyID}
	}

	if property.Suspended {
		return nil, &ConflictError{Message: "property is suspended and not accepting reservations"}
	}
	if !property.Approved {
		return nil, &ConflictError{Message: "property is not approved for reservations"}
	}

	if failures := ValidateGuests(req.Guests, property.Capacity); len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}

	customer, err := s.repo.Customer.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}

	available, conflict, err := s.availability.IsAvailable(ctx, propertyID, property.TotalRooms, checkIn, checkOut, "")
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, &ConflictError{Message: "no rooms available for the requested dates", Night: conflict}
	}

	coupon, err := s.coupons.FindAndReserve(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	var couponID *uuid.UUID
	var couponCode *string
	var couponPercent *float64
	if coupon != nil {
		couponID = &coupon.ID
		couponCode = &coupon.Code
		couponPercent = &coupon.Percent
	}

	nights := entity.StayNights(checkIn, checkOut)
	now := time.Now()

	res := &entity.Reservation{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PropertyID: propertyID,
		CustomerID: customer.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Nights:     nights,
		Guests:     req.Guests,
		Status:     entity.ReservationStatusPending,
		Price:      ComputeQuote(property.BasePrice, property.CleaningFee, property.ServiceFee, nights, couponCode, couponPercent),
		CouponID:   couponID,
	}

	// The insert re-checks capacity under the property lock; the earlier
	// availability call only produces a friendlier early answer.
	conflictNight, err := s.repo.Reservation.CreateExclusive(ctx, res, property.TotalRooms)
	if err != nil {
		if couponID != nil {
			s.coupons.ReleaseUsage(ctx, *couponID)
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	if conflictNight != nil {
		if couponID != nil {
			s.coupons.ReleaseUsage(ctx, *couponID)
		}
		return nil, &ConflictError{Message: "no rooms available for the requested dates", Night: conflictNight}
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.String("property_id", propertyID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.Int("nights", nights),
		zap.Float64("total", res.Price.Total),
	)

	s.notifier.Send(notify.Event{
		Type:          notify.EventReservationCreated,
		ReservationID: res.ID.String(),
		PropertyID:    propertyID.String(),
		CustomerID:    customer.ID.String(),
		OccurredAt:    now,
	})

	resp := &response.CreateReservationResponse{
		Reservation: response.ReservationToResponse(res),
	}
	if coupon != nil {
		couponResp := response.CouponToResponse(coupon)
		resp.AppliedCoupon = &couponResp
	}

	return resp, nil
}

func (s *reservationService) List(ctx context.Context, accountID uuid.UUID, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	customer, err := s.repo.Customer.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}

	status := entity.ReservationStatus(req.Status)

	reservations, err := s.repo.Reservation.FindByCustomerID(ctx, customer.ID, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Reservation.CountByCustomerID(ctx, customer.ID, status)
	if err != nil {
		return nil, err
	}

	responses := make([]response.ReservationResponse, len(reservations))
	for i, res := range reservations {
		responses[i] = response.ReservationToResponse(res)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *reservationService) GetByID(ctx context.Context, accountID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	res, err := s.findOwnReservation(ctx, accountID, reservationID)
	if err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

func (s *reservationService) Cancel(ctx context.Context, accountID uuid.UUID, reservationID, reason string) (*response.CancelReservationResponse, error) {
	res, err := s.findOwnReservation(ctx, accountID, reservationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	switch res.Status {
	case entity.ReservationStatusPending:
		// A pending stay leaves no audit trail; the record is removed and
		// any held coupon usage goes back.
		if err := s.repo.Reservation.Delete(ctx, res.ID); err != nil {
			return nil, err
		}
		if res.CouponID != nil {
			s.coupons.ReleaseUsage(ctx, *res.CouponID)
		}

		s.notifyStatus(notify.EventReservationCancelled, res, now)

		return &response.CancelReservationResponse{Outcome: "pending reservation cancelled and removed"}, nil

	case entity.ReservationStatusConfirmed:
		if !now.Before(res.CheckIn.Add(-s.cancelWindow)) {
			return nil, &ConflictError{Message: fmt.Sprintf(
				"confirmed reservations can only be cancelled more than %d hours before check-in",
				int(s.cancelWindow.Hours()),
			)}
		}

		refund := res.Price.Total
		changed, err := s.repo.Reservation.MarkCancelled(ctx, res.ID, now, reason, "free-cancellation-window", refund)
		if err != nil {
			return nil, err
		}
		if !changed {
			return nil, &ConflictError{Message: "reservation is no longer in a cancellable state"}
		}

		if res.CouponID != nil {
			s.coupons.ReleaseUsage(ctx, *res.CouponID)
		}

		s.log.Info("Reservation cancelled",
			zap.String("reservation_id", res.ID.String()),
			zap.Float64("refund", refund),
		)
		s.notifyStatus(notify.EventReservationCancelled, res, now)

		return &response.CancelReservationResponse{
			Outcome:      "confirmed reservation cancelled with full refund",
			RefundAmount: &refund,
		}, nil

	default:
		return nil, &ConflictError{Message: fmt.Sprintf("reservation in status %s cannot be cancelled", res.Status)}
	}
}

func (s *reservationService) Reschedule(ctx context.Context, accountID uuid.UUID, reservationID string, req *request.RescheduleReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	res, err := s.findOwnReservation(ctx, accountID, reservationID)
	if err != nil {
		return nil, err
	}

	if res.Status != entity.ReservationStatusPending && res.Status != entity.ReservationStatusConfirmed {
		return nil, &ConflictError{Message: fmt.Sprintf("reservation in status %s cannot be rescheduled", res.Status)}
	}

	checkIn, checkOut, vErr := parseStayRange(req.CheckIn, req.CheckOut)
	if vErr != nil {
		return nil, vErr
	}

	if failures := ValidateStayDates(checkIn, checkOut, time.Now()); len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}

	property, err := s.repo.Property.FindByID(ctx, res.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, &NotFoundError{Resource: "property", ID: res.PropertyID.String()}
	}
	if !property.Bookable() {
		return nil, &ConflictError{Message: "property is not accepting reservations"}
	}

	nights := entity.StayNights(checkIn, checkOut)

	// The previously applied percentage is reused as stored; the coupon's
	// validity window is not rechecked against the new dates.
	quote := ComputeQuote(property.BasePrice, res.Price.CleaningFee, res.Price.ServiceFee, nights, res.Price.CouponCode, res.Price.CouponPercent)

	res.CheckIn = checkIn
	res.CheckOut = checkOut
	res.Nights = nights
	res.Price.BaseTotal = quote.BaseTotal
	res.Price.Subtotal = quote.Subtotal
	res.Price.Discount = quote.Discount
	res.Price.Total = quote.Total
	res.UpdatedAt = time.Now()

	conflictNight, err := s.repo.Reservation.RescheduleExclusive(ctx, res, property.TotalRooms)
	if err != nil {
		return nil, fmt.Errorf("reschedule reservation: %w", err)
	}
	if conflictNight != nil {
		return nil, &ConflictError{Message: "no rooms available for the new dates", Night: conflictNight}
	}

	s.log.Info("Reservation rescheduled",
		zap.String("reservation_id", res.ID.String()),
		zap.String("check_in", req.CheckIn),
		zap.String("check_out", req.CheckOut),
		zap.Float64("total", res.Price.Total),
	)

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

// findOwnReservation loads a reservation and scopes it to the requesting
// account. A reservation belonging to someone else is reported as not
// found rather than leaking its existence.
func (s *reservationService) findOwnReservation(ctx context.Context, accountID uuid.UUID, reservationID string) (*entity.Reservation, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, NewValidationError("reservation id must be a valid UUID")
	}

	res, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Resource: "reservation", ID: reservationID}
	}

	customer, err := s.repo.Customer.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if res.CustomerID != customer.ID {
		return nil, &NotFoundError{Resource: "reservation", ID: reservationID}
	}

	return res, nil
}

func (s *reservationService) notifyStatus(eventType string, res *entity.Reservation, at time.Time) {
	s.notifier.Send(notify.Event{
		Type:          eventType,
		ReservationID: res.ID.String(),
		PropertyID:    res.PropertyID.String(),
		CustomerID:    res.CustomerID.String(),
		OccurredAt:    at,
	})
}

func parseStayRange(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := utils.ParseDate(checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("check_in must be a date in 2006-01-02 format")
	}
	checkOut, err := utils.ParseDate(checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("check_out must be a date in 2006-01-02 format")
	}
	return entity.Day(checkIn), entity.Day(checkOut), nil
}
