package wire

import (
	"lodging-booking/internal/adaptor"
	"lodging-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOwner(
	r chi.Router,
	ownerHandler *adaptor.OwnerHandler,
	log *zap.Logger,
) {
	// ==================== OWNER ROUTES (require identity) ====================
	r.Route("/api/owner", func(r chi.Router) {
		r.Use(middleware.Account(log))

		// Reservation lifecycle transitions
		r.Put("/reservations/{id}/confirm", ownerHandler.ConfirmReservation)
		r.Put("/reservations/{id}/reject", ownerHandler.RejectReservation)
		r.Put("/reservations/{id}/checkin", ownerHandler.CheckInReservation)
		r.Put("/reservations/{id}/checkout", ownerHandler.CheckOutReservation)

		// Property management
		r.Get("/properties", ownerHandler.GetProperties)
		r.Get("/properties/{id}/reservations", ownerHandler.GetPropertyReservations)
		r.Put("/properties/{id}/suspend", ownerHandler.SuspendProperty)

		// Coupon management
		r.Post("/properties/{id}/coupons", ownerHandler.CreateCoupon)
		r.Get("/properties/{id}/coupons", ownerHandler.GetCoupons)
		r.Get("/properties/{id}/coupons/{code}", ownerHandler.GetCouponByCode)
		r.Delete("/coupons/{id}", ownerHandler.DeleteCoupon)
	})
}
