package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lodging-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAccountMiddleware(t *testing.T) {
	var gotID uuid.UUID
	var called bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.GetAccountIDFromContext(r.Context())
		require.True(t, ok)
		gotID = id
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := Account(zap.NewNop())(next)

	t.Run("valid header", func(t *testing.T) {
		called = false
		accountID := uuid.New()

		req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
		req.Header.Set("X-Account-ID", accountID.String())
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, accountID, gotID)
	})

	t.Run("missing header", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("malformed header", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
		req.Header.Set("X-Account-ID", "not-a-uuid")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}
