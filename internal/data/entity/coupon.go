package entity

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a property-scoped promotional code. MaxUses nil means
// unlimited; CurrentUses never exceeds MaxUses when it is set.
type Coupon struct {
	BaseSimple
	PropertyID  uuid.UUID `db:"property_id"`
	Code        string    `db:"code"`
	Percent     float64   `db:"percent"`
	ValidFrom   time.Time `db:"valid_from"`
	ValidTo     time.Time `db:"valid_to"`
	MaxUses     *int      `db:"max_uses"`
	CurrentUses int       `db:"current_uses"`
}

// ActiveAt reports whether the coupon can be applied at the given moment:
// inside the validity window and with usage budget remaining.
func (c *Coupon) ActiveAt(now time.Time) bool {
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return false
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return false
	}
	return true
}
