package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lodging-booking/internal/dto/request"
	"lodging-booking/internal/dto/response"
	"lodging-booking/internal/usecase"
	"lodging-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubReservationService struct {
	createResp *response.CreateReservationResponse
	createErr  error
	cancelResp *response.CancelReservationResponse
	cancelErr  error
}

func (s *stubReservationService) Create(ctx context.Context, accountID uuid.UUID, req *request.CreateReservationRequest) (*response.CreateReservationResponse, error) {
	return s.createResp, s.createErr
}

func (s *stubReservationService) List(ctx context.Context, accountID uuid.UUID, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	return response.NewPaginatedResponse([]response.ReservationResponse{}, req.Page, req.PerPage, 0), nil
}

func (s *stubReservationService) GetByID(ctx context.Context, accountID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	return nil, &usecase.NotFoundError{Resource: "reservation", ID: reservationID}
}

func (s *stubReservationService) Cancel(ctx context.Context, accountID uuid.UUID, reservationID, reason string) (*response.CancelReservationResponse, error) {
	return s.cancelResp, s.cancelErr
}

func (s *stubReservationService) Reschedule(ctx context.Context, accountID uuid.UUID, reservationID string, req *request.RescheduleReservationRequest) (*response.ReservationResponse, error) {
	return nil, nil
}

func newTestRouter(svc usecase.ReservationService) *chi.Mux {
	handler := NewReservationHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/reservations", handler.CreateReservation)
	r.Get("/api/reservations/{id}", handler.GetReservationByID)
	r.Put("/api/reservations/{id}/cancel", handler.CancelReservation)
	return r
}

func doRequest(t *testing.T, router *chi.Mux, method, target string, body any, accountID *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if accountID != nil {
		req = req.WithContext(utils.SetAccountContext(req.Context(), *accountID))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateReservationHandler(t *testing.T) {
	accountID := uuid.New()
	body := request.CreateReservationRequest{
		PropertyID: uuid.New().String(),
		CheckIn:    "2026-09-10",
		CheckOut:   "2026-09-12",
		Guests:     2,
	}

	t.Run("created", func(t *testing.T) {
		svc := &stubReservationService{
			createResp: &response.CreateReservationResponse{
				Reservation: response.ReservationResponse{ID: uuid.New().String(), Status: "pending"},
			},
		}

		rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/reservations", body, &accountID)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp utils.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Status)
	})

	t.Run("missing identity", func(t *testing.T) {
		rec := doRequest(t, newTestRouter(&stubReservationService{}), http.MethodPost, "/api/reservations", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newTestRouter(&stubReservationService{})
		req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewBufferString("{not json"))
		req = req.WithContext(utils.SetAccountContext(req.Context(), accountID))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServiceErrorMapping(t *testing.T) {
	accountID := uuid.New()
	body := request.CreateReservationRequest{
		PropertyID: uuid.New().String(),
		CheckIn:    "2026-09-10",
		CheckOut:   "2026-09-12",
		Guests:     2,
	}
	night := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", usecase.NewValidationError("check-in date must not be in the past"), http.StatusBadRequest},
		{"conflict", &usecase.ConflictError{Message: "no rooms available", Night: &night}, http.StatusConflict},
		{"not found", &usecase.NotFoundError{Resource: "property", ID: "x"}, http.StatusNotFound},
		{"forbidden", &usecase.AuthorizationError{Message: "not the owner"}, http.StatusForbidden},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubReservationService{createErr: tt.err}
			rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/reservations", body, &accountID)
			assert.Equal(t, tt.code, rec.Code)

			var resp utils.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Status)
		})
	}
}

func TestGetReservationByIDHandler_NotFound(t *testing.T) {
	accountID := uuid.New()
	rec := doRequest(t, newTestRouter(&stubReservationService{}), http.MethodGet, "/api/reservations/"+uuid.New().String(), nil, &accountID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelReservationHandler(t *testing.T) {
	accountID := uuid.New()
	refund := 180.0
	svc := &stubReservationService{
		cancelResp: &response.CancelReservationResponse{
			Outcome:      "confirmed reservation cancelled with full refund",
			RefundAmount: &refund,
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/reservations/"+uuid.New().String()+"/cancel",
		request.CancelReservationRequest{Reason: "change of plans"}, &accountID)
	assert.Equal(t, http.StatusOK, rec.Code)
}
