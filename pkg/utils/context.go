package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const AccountIDKey contextKey = "account_id"

// GetAccountIDFromContext returns the account id placed in the request
// context by the account middleware.
func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountVal := ctx.Value(AccountIDKey)
	if accountVal == nil {
		return uuid.Nil, false
	}

	accountStr, ok := accountVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	accountID, err := uuid.Parse(accountStr)
	if err != nil {
		return uuid.Nil, false
	}

	return accountID, true
}

func SetAccountContext(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID.String())
}
