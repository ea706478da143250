package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func stay(checkIn, checkOut time.Time, status ReservationStatus) *Reservation {
	return &Reservation{
		Base:     Base{ID: uuid.New()},
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Status:   status,
	}
}

func TestDay(t *testing.T) {
	ts := time.Date(2026, 3, 15, 18, 42, 7, 123, time.Local)
	assert.Equal(t, date(2026, 3, 15), Day(ts))
	assert.Equal(t, date(2026, 3, 15), Day(date(2026, 3, 15)))
}

func TestStayNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"two full nights", date(2026, 6, 10), date(2026, 6, 12), 2},
		{"single night", date(2026, 6, 10), date(2026, 6, 11), 1},
		{"partial day rounds up", date(2026, 6, 10), time.Date(2026, 6, 11, 14, 0, 0, 0, time.Local), 2},
		{"same day", date(2026, 6, 10), date(2026, 6, 10), 0},
		{"reversed range", date(2026, 6, 12), date(2026, 6, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StayNights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestCoversNight(t *testing.T) {
	res := stay(date(2026, 6, 10), date(2026, 6, 12), ReservationStatusConfirmed)

	assert.True(t, res.CoversNight(date(2026, 6, 10)))
	assert.True(t, res.CoversNight(date(2026, 6, 11)))
	// Check-out day is not an occupied night.
	assert.False(t, res.CoversNight(date(2026, 6, 12)))
	assert.False(t, res.CoversNight(date(2026, 6, 9)))
}

func TestFirstConflictNight_SingleRoomOverlap(t *testing.T) {
	// One room, booked Jun 10-12. A request for Jun 11-13 must be refused
	// on the shared night of the 11th.
	existing := []*Reservation{
		stay(date(2026, 6, 10), date(2026, 6, 12), ReservationStatusConfirmed),
	}

	conflict := FirstConflictNight(existing, date(2026, 6, 11), date(2026, 6, 13), 1, "")
	require.NotNil(t, conflict)
	assert.Equal(t, date(2026, 6, 11), *conflict)
}

func TestFirstConflictNight_BackToBackStaysDoNotConflict(t *testing.T) {
	// Check-out day equals check-in day of the next stay; the half-open
	// interval leaves that night free.
	existing := []*Reservation{
		stay(date(2026, 6, 10), date(2026, 6, 12), ReservationStatusConfirmed),
	}

	conflict := FirstConflictNight(existing, date(2026, 6, 12), date(2026, 6, 14), 1, "")
	assert.Nil(t, conflict)
}

func TestFirstConflictNight_MultipleRooms(t *testing.T) {
	existing := []*Reservation{
		stay(date(2026, 6, 10), date(2026, 6, 12), ReservationStatusConfirmed),
		stay(date(2026, 6, 11), date(2026, 6, 13), ReservationStatusPending),
	}

	// Two rooms: both taken only on the 11th.
	conflict := FirstConflictNight(existing, date(2026, 6, 11), date(2026, 6, 12), 2, "")
	require.NotNil(t, conflict)
	assert.Equal(t, date(2026, 6, 11), *conflict)

	// Three rooms: always a room free.
	assert.Nil(t, FirstConflictNight(existing, date(2026, 6, 10), date(2026, 6, 13), 3, ""))
}

func TestFirstConflictNight_ReleasedStatusesFreeInventory(t *testing.T) {
	existing := []*Reservation{
		stay(date(2026, 6, 10), date(2026, 6, 12), ReservationStatusCancelled),
		stay(date(2026, 6, 10), date(2026, 6, 12), ReservationStatusRejected),
	}

	assert.Nil(t, FirstConflictNight(existing, date(2026, 6, 10), date(2026, 6, 12), 1, ""))
}

func TestFirstConflictNight_CheckedInStillOccupies(t *testing.T) {
	existing := []*Reservation{
		stay(date(2026, 6, 10), date(2026, 6, 12), ReservationStatusCheckedIn),
	}

	conflict := FirstConflictNight(existing, date(2026, 6, 10), date(2026, 6, 11), 1, "")
	require.NotNil(t, conflict)
	assert.Equal(t, date(2026, 6, 10), *conflict)
}

func TestFirstConflictNight_ExcludeOwnReservation(t *testing.T) {
	own := stay(date(2026, 6, 10), date(2026, 6, 12), ReservationStatusConfirmed)
	existing := []*Reservation{own}

	// Rescheduling over its own nights must not self-conflict.
	assert.Nil(t, FirstConflictNight(existing, date(2026, 6, 10), date(2026, 6, 12), 1, own.ID.String()))

	// But another reservation's nights still count.
	other := stay(date(2026, 6, 11), date(2026, 6, 13), ReservationStatusConfirmed)
	conflict := FirstConflictNight([]*Reservation{own, other}, date(2026, 6, 11), date(2026, 6, 13), 1, own.ID.String())
	require.NotNil(t, conflict)
	assert.Equal(t, date(2026, 6, 11), *conflict)
}

func TestFirstConflictNight_NoRooms(t *testing.T) {
	conflict := FirstConflictNight(nil, date(2026, 6, 10), date(2026, 6, 12), 0, "")
	require.NotNil(t, conflict)
	assert.Equal(t, date(2026, 6, 10), *conflict)
}

func TestReservationStatusOccupiesInventory(t *testing.T) {
	assert.True(t, ReservationStatusPending.OccupiesInventory())
	assert.True(t, ReservationStatusConfirmed.OccupiesInventory())
	assert.True(t, ReservationStatusCheckedIn.OccupiesInventory())
	assert.True(t, ReservationStatusCheckedOut.OccupiesInventory())
	assert.False(t, ReservationStatusCancelled.OccupiesInventory())
	assert.False(t, ReservationStatusRejected.OccupiesInventory())
}

func TestPropertyBookable(t *testing.T) {
	p := &Property{Approved: true}
	assert.True(t, p.Bookable())

	p.Suspended = true
	assert.False(t, p.Bookable())

	p.Suspended = false
	p.Approved = false
	assert.False(t, p.Bookable())
}

func TestCouponActiveAt(t *testing.T) {
	max := 2
	coupon := &Coupon{
		ValidFrom:   date(2026, 6, 1),
		ValidTo:     date(2026, 6, 30),
		MaxUses:     &max,
		CurrentUses: 0,
	}

	assert.True(t, coupon.ActiveAt(date(2026, 6, 15)))
	assert.False(t, coupon.ActiveAt(date(2026, 5, 31)))
	assert.False(t, coupon.ActiveAt(date(2026, 7, 1)))

	coupon.CurrentUses = 2
	assert.False(t, coupon.ActiveAt(date(2026, 6, 15)))

	coupon.MaxUses = nil
	assert.True(t, coupon.ActiveAt(date(2026, 6, 15)))
}
