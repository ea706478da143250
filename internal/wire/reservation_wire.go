package wire

import (
	"lodging-booking/internal/adaptor"
	"lodging-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	log *zap.Logger,
) {
	// ==================== CUSTOMER ROUTES (require identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Account(log))

		// POST /api/reservations - Create a reservation (auto-applies best coupon)
		r.Post("/api/reservations", reservationHandler.CreateReservation)

		// GET /api/reservations - List own reservations (optional ?status= filter)
		r.Get("/api/reservations", reservationHandler.GetReservations)

		// GET /api/reservations/{id} - Reservation details (own only)
		r.Get("/api/reservations/{id}", reservationHandler.GetReservationByID)

		// PUT /api/reservations/{id}/cancel - Cancel own reservation
		r.Put("/api/reservations/{id}/cancel", reservationHandler.CancelReservation)

		// PUT /api/reservations/{id}/reschedule - Move own reservation to new dates
		r.Put("/api/reservations/{id}/reschedule", reservationHandler.RescheduleReservation)
	})
}
