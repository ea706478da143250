package adaptor

import (
	"errors"
	"net/http"

	"lodging-booking/internal/usecase"
	"lodging-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Reservation *ReservationHandler
	Owner       *OwnerHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Reservation: NewReservationHandler(service.Reservation, log),
		Owner:       NewOwnerHandler(service.Owner, service.Coupon, log),
	}
}

// writeServiceError maps the service error taxonomy to HTTP responses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError
	var conflictErr *usecase.ConflictError
	var notFoundErr *usecase.NotFoundError
	var authErr *usecase.AuthorizationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, validationErr.Error(), validationErr.Failures)

	case errors.As(err, &conflictErr):
		log.Warn(operation+" conflict", zap.Error(err))
		utils.ResponseConflict(w, conflictErr.Error())

	case errors.As(err, &notFoundErr):
		log.Warn(operation+" target not found", zap.Error(err))
		utils.ResponseNotFound(w, notFoundErr.Error())

	case errors.As(err, &authErr):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, authErr.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
