package entity

import (
	"github.com/google/uuid"
)

// Customer is the local profile for an externally authenticated account.
// Identity lives in the gateway; the engine only needs a stable reference
// keyed by the account id it is handed.
type Customer struct {
	BaseSimple
	AccountID uuid.UUID `db:"account_id"`
}
