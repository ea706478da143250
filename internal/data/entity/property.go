package entity

import (
	"github.com/google/uuid"
)

// Property is the inventory record this engine books against. It is owned
// by the listings subsystem; here it is read for room count, flags,
// capacity and pricing, and written only for the suspension flag.
type Property struct {
	Base
	OwnerID     uuid.UUID `db:"owner_id"`
	Name        string    `db:"name"`
	TotalRooms  int       `db:"total_rooms"`
	Approved    bool      `db:"approved"`
	Suspended   bool      `db:"suspended"`
	Capacity    int       `db:"capacity"`
	BasePrice   float64   `db:"base_price"`
	CleaningFee float64   `db:"cleaning_fee"`
	ServiceFee  float64   `db:"service_fee"`
}

// Bookable reports whether new reservations may be created against the
// property at all.
func (p *Property) Bookable() bool {
	return p.Approved && !p.Suspended
}
