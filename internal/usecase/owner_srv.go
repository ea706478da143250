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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OwnerService covers the property-owner side of the reservation
// lifecycle. Every operation verifies that the acting account owns the
// property the reservation belongs to.
type OwnerService interface {
	Confirm(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error)
	Reject(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error)
	CheckIn(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error)
	CheckOut(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error)

	// ListProperties returns the acting account's property portfolio.
	ListProperties(ctx context.Context, ownerID uuid.UUID) ([]response.PropertyResponse, error)

	ListPropertyReservations(ctx context.Context, ownerID uuid.UUID, propertyID string, req *request.PaginatedRequest) ([]response.ReservationResponse, error)

	// SuspendProperty marks the property suspended and cancels every
	// pending or confirmed reservation unconditionally, bypassing the
	// cancellation window. Coupon usages held by the cancelled
	// reservations are released.
	SuspendProperty(ctx context.Context, ownerID uuid.UUID, propertyID string) (int, error)
}

type ownerService struct {
	repo     *repository.Repository
	coupons  CouponService
	notifier notify.Notifier
	log      *zap.Logger
}

func NewOwnerService(repo *repository.Repository, coupons CouponService, notifier notify.Notifier, log *zap.Logger) OwnerService {
	return &ownerService{
		repo:     repo,
		coupons:  coupons,
		notifier: notifier,
		log:      log.With(zap.String("service", "owner")),
	}
}

func (s *ownerService) Confirm(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	return s.transition(ctx, ownerID, reservationID, entity.ReservationStatusPending, notify.EventReservationConfirmed,
		func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			return s.repo.Reservation.MarkConfirmed(ctx, id, at)
		},
		func(res *entity.Reservation, at time.Time) {
			res.Status = entity.ReservationStatusConfirmed
			res.ConfirmedAt = &at
		},
	)
}

func (s *ownerService) Reject(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	return s.transition(ctx, ownerID, reservationID, entity.ReservationStatusPending, notify.EventReservationRejected,
		func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			return s.repo.Reservation.MarkRejected(ctx, id, at)
		},
		func(res *entity.Reservation, at time.Time) {
			res.Status = entity.ReservationStatusRejected
		},
	)
}

func (s *ownerService) CheckIn(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	return s.transition(ctx, ownerID, reservationID, entity.ReservationStatusConfirmed, notify.EventReservationCheckedIn,
		func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			return s.repo.Reservation.MarkCheckedIn(ctx, id, at)
		},
		func(res *entity.Reservation, at time.Time) {
			res.Status = entity.ReservationStatusCheckedIn
			res.CheckedInAt = &at
		},
	)
}

func (s *ownerService) CheckOut(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	return s.transition(ctx, ownerID, reservationID, entity.ReservationStatusCheckedIn, notify.EventReservationCheckedOut,
		func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			return s.repo.Reservation.MarkCheckedOut(ctx, id, at)
		},
		func(res *entity.Reservation, at time.Time) {
			res.Status = entity.ReservationStatusCheckedOut
			res.CheckedOutAt = &at
		},
	)
}

func (s *ownerService) transition(
	ctx context.Context,
	ownerID uuid.UUID,
	reservationID string,
	required entity.ReservationStatus,
	eventType string,
	mark func(context.Context, uuid.UUID, time.Time) (bool, error),
	apply func(*entity.Reservation, time.Time),
) (*response.ReservationResponse, error) {
	res, err := s.findOwnedReservation(ctx, ownerID, reservationID)
	if err != nil {
		return nil, err
	}

	if res.Status != required {
		return nil, &ConflictError{Message: fmt.Sprintf(
			"reservation is %s, expected %s", res.Status, required,
		)}
	}

	now := time.Now()
	changed, err := mark(ctx, res.ID, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Someone else settled the reservation between the read and the
		// conditional update.
		return nil, &ConflictError{Message: fmt.Sprintf("reservation is no longer %s", required)}
	}

	apply(res, now)

	s.log.Info("Reservation transitioned",
		zap.String("reservation_id", res.ID.String()),
		zap.String("status", string(res.Status)),
		zap.String("owner_id", ownerID.String()),
	)

	s.notifier.Send(notify.Event{
		Type:          eventType,
		ReservationID: res.ID.String(),
		PropertyID:    res.PropertyID.String(),
		CustomerID:    res.CustomerID.String(),
		OccurredAt:    now,
	})

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

func (s *ownerService) ListProperties(ctx context.Context, ownerID uuid.UUID) ([]response.PropertyResponse, error) {
	properties, err := s.repo.Property.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]response.PropertyResponse, len(properties))
	for i, p := range properties {
		responses[i] = response.PropertyToResponse(p)
	}
	return responses, nil
}

func (s *ownerService) ListPropertyReservations(ctx context.Context, ownerID uuid.UUID, propertyID string, req *request.PaginatedRequest) ([]response.ReservationResponse, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, NewValidationError("property id must be a valid UUID")
	}

	if _, err := s.findOwnedProperty(ctx, ownerID, id); err != nil {
		return nil, err
	}

	reservations, err := s.repo.Reservation.FindByPropertyID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	responses := make([]response.ReservationResponse, len(reservations))
	for i, res := range reservations {
		responses[i] = response.ReservationToResponse(res)
	}
	return responses, nil
}

func (s *ownerService) SuspendProperty(ctx context.Context, ownerID uuid.UUID, propertyID string) (int, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return 0, NewValidationError("property id must be a valid UUID")
	}

	if _, err := s.findOwnedProperty(ctx, ownerID, id); err != nil {
		return 0, err
	}

	if _, err := s.repo.Property.SetSuspended(ctx, id, true); err != nil {
		return 0, err
	}

	occupying, err := s.repo.Reservation.FindOccupyingByProperty(ctx, id)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	cancelled := 0

	// One failing reservation must not leave the rest of the cascade
	// undone.
	for _, res := range occupying {
		changed, err := s.repo.Reservation.CancelForSuspension(ctx, res.ID, now, "property suspended")
		if err != nil {
			s.log.Error("Failed to cancel reservation during suspension",
				zap.Error(err),
				zap.String("reservation_id", res.ID.String()),
			)
			continue
		}
		if !changed {
			continue
		}

		cancelled++
		if res.CouponID != nil {
			s.coupons.ReleaseUsage(ctx, *res.CouponID)
		}

		s.notifier.Send(notify.Event{
			Type:          notify.EventReservationCancelled,
			ReservationID: res.ID.String(),
			PropertyID:    res.PropertyID.String(),
			CustomerID:    res.CustomerID.String(),
			OccurredAt:    now,
		})
	}

	s.log.Info("Property suspended",
		zap.String("property_id", id.String()),
		zap.Int("reservations_cancelled", cancelled),
	)

	return cancelled, nil
}

func (s *ownerService) findOwnedProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*entity.Property, error) {
	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, &NotFoundError{Resource: "property", ID: propertyID.String()}
	}
	if property.OwnerID != ownerID {
		return nil, &AuthorizationError{Message: "account does not own this property"}
	}
	return property, nil
}

func (s *ownerService) findOwnedReservation(ctx context.Context, ownerID uuid.UUID, reservationID string) (*entity.Reservation, error) {
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

	if _, err := s.findOwnedProperty(ctx, ownerID, res.PropertyID); err != nil {
		return nil, err
	}

	return res, nil
}
