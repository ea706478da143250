package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"lodging-booking/internal/dto/request"
	"lodging-booking/internal/dto/response"
	"lodging-booking/internal/usecase"
	"lodging-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OwnerHandler struct {
	owners  usecase.OwnerService
	coupons usecase.CouponService
	log     *zap.Logger
}

func NewOwnerHandler(owners usecase.OwnerService, coupons usecase.CouponService, log *zap.Logger) *OwnerHandler {
	return &OwnerHandler{
		owners:  owners,
		coupons: coupons,
		log:     log.With(zap.String("handler", "owner")),
	}
}

// ConfirmReservation handles PUT /api/owner/reservations/{id}/confirm
func (h *OwnerHandler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "confirm reservation", h.owners.Confirm)
}

// RejectReservation handles PUT /api/owner/reservations/{id}/reject
func (h *OwnerHandler) RejectReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reject reservation", h.owners.Reject)
}

// CheckInReservation handles PUT /api/owner/reservations/{id}/checkin
func (h *OwnerHandler) CheckInReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "check in reservation", h.owners.CheckIn)
}

// CheckOutReservation handles PUT /api/owner/reservations/{id}/checkout
func (h *OwnerHandler) CheckOutReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "check out reservation", h.owners.CheckOut)
}

func (h *OwnerHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	call func(ctx context.Context, ownerID uuid.UUID, reservationID string) (*response.ReservationResponse, error),
) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservationID := chi.URLParam(r, "id")
	if reservationID == "" {
		utils.ResponseBadRequest(w, "Reservation ID is required", nil)
		return
	}

	result, err := call(r.Context(), accountID, reservationID)
	if err != nil {
		writeServiceError(w, h.log, err, operation)
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetProperties handles GET /api/owner/properties
func (h *OwnerHandler) GetProperties(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	properties, err := h.owners.ListProperties(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, h.log, err, "list properties")
		return
	}

	utils.ResponseSuccess(w, "success", properties)
}

// GetPropertyReservations handles GET /api/owner/properties/{id}/reservations
func (h *OwnerHandler) GetPropertyReservations(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	propertyID := chi.URLParam(r, "id")
	if propertyID == "" {
		utils.ResponseBadRequest(w, "Property ID is required", nil)
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reservations, err := h.owners.ListPropertyReservations(r.Context(), accountID, propertyID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "list property reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// SuspendProperty handles PUT /api/owner/properties/{id}/suspend
func (h *OwnerHandler) SuspendProperty(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	propertyID := chi.URLParam(r, "id")
	if propertyID == "" {
		utils.ResponseBadRequest(w, "Property ID is required", nil)
		return
	}

	cancelled, err := h.owners.SuspendProperty(r.Context(), accountID, propertyID)
	if err != nil {
		writeServiceError(w, h.log, err, "suspend property")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]any{
		"property_id":            propertyID,
		"reservations_cancelled": cancelled,
	})
}

// CreateCoupon handles POST /api/owner/properties/{id}/coupons
func (h *OwnerHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Property ID must be a valid UUID", nil)
		return
	}

	var req request.CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	coupon, err := h.coupons.CreateCoupon(r.Context(), accountID, propertyID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create coupon")
		return
	}

	utils.ResponseCreated(w, "success", coupon)
}

// GetCoupons handles GET /api/owner/properties/{id}/coupons
func (h *OwnerHandler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Property ID must be a valid UUID", nil)
		return
	}

	coupons, err := h.coupons.ListCoupons(r.Context(), accountID, propertyID)
	if err != nil {
		writeServiceError(w, h.log, err, "list coupons")
		return
	}

	utils.ResponseSuccess(w, "success", coupons)
}

// GetCouponByCode handles GET /api/owner/properties/{id}/coupons/{code}
func (h *OwnerHandler) GetCouponByCode(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Property ID must be a valid UUID", nil)
		return
	}

	code := chi.URLParam(r, "code")
	if code == "" {
		utils.ResponseBadRequest(w, "Coupon code is required", nil)
		return
	}

	coupon, err := h.coupons.GetCouponByCode(r.Context(), accountID, propertyID, code)
	if err != nil {
		writeServiceError(w, h.log, err, "get coupon by code")
		return
	}

	utils.ResponseSuccess(w, "success", coupon)
}

// DeleteCoupon handles DELETE /api/owner/coupons/{id}
func (h *OwnerHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	couponID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Coupon ID must be a valid UUID", nil)
		return
	}

	if err := h.coupons.DeleteCoupon(r.Context(), accountID, couponID); err != nil {
		writeServiceError(w, h.log, err, "delete coupon")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
