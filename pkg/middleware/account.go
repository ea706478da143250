package middleware

import (
	"net/http"

	"lodging-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Account extracts the authenticated account id forwarded by the identity
// gateway in the X-Account-ID header. Authentication itself happens
// upstream; this engine only needs a trustworthy account reference.
func Account(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-Account-ID")
			if header == "" {
				utils.ResponseUnauthorized(w, "Missing account identity")
				return
			}

			accountID, err := uuid.Parse(header)
			if err != nil {
				logger.Warn("Malformed account header", zap.String("value", header))
				utils.ResponseUnauthorized(w, "Invalid account identity")
				return
			}

			ctx := utils.SetAccountContext(r.Context(), accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
