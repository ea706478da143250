package usecase

import (
	"context"
	"time"

	"lodging-booking/internal/data/entity"
	"lodging-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	// IsAvailable reports whether every night of [checkIn, checkOut) still
	// has a free room at the property. When it does not, the returned
	// night is the first one already at capacity. excludeID, when not
	// empty, removes that reservation's own nights from the count so an
	// existing stay can be rechecked against new dates.
	IsAvailable(ctx context.Context, propertyID uuid.UUID, totalRooms int, checkIn, checkOut time.Time, excludeID string) (bool, *time.Time, error)
}

type availabilityService struct {
	reservations repository.ReservationRepository
	log          *zap.Logger
}

func NewAvailabilityService(reservations repository.ReservationRepository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		reservations: reservations,
		log:          log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) IsAvailable(ctx context.Context, propertyID uuid.UUID, totalRooms int, checkIn, checkOut time.Time, excludeID string) (bool, *time.Time, error) {
	overlapping, err := s.reservations.FindOverlapping(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return false, nil, err
	}

	conflict := entity.FirstConflictNight(overlapping, checkIn, checkOut, totalRooms, excludeID)
	if conflict != nil {
		s.log.Debug("Range unavailable",
			zap.String("property_id", propertyID.String()),
			zap.Time("conflict_night", *conflict),
		)
		return false, conflict, nil
	}

	return true, nil, nil
}
