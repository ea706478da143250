package entity

import (
	"time"
)

// Day normalizes a timestamp to local midnight. All stay comparisons are
// date-only; the half-open interval [checkIn, checkOut) is measured in
// these normalized days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StayNights returns the number of nights in [checkIn, checkOut), rounding
// partial days up and never returning less than 1 for a forward range.
func StayNights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	if nights < 1 {
		nights = 1
	}
	return nights
}

// FirstConflictNight walks each calendar night of [checkIn, checkOut) in
// chronological order and returns the first night on which the number of
// occupying reservations reaches totalRooms. Reservations whose status no
// longer occupies inventory are skipped, as is the reservation identified
// by excludeID (its own nights must not block a reschedule). A nil return
// means every night has a room free. totalRooms <= 0 conflicts on the
// first night unconditionally.
func FirstConflictNight(reservations []*Reservation, checkIn, checkOut time.Time, totalRooms int, excludeID string) *time.Time {
	checkIn = Day(checkIn)
	checkOut = Day(checkOut)

	for night := checkIn; night.Before(checkOut); night = night.AddDate(0, 0, 1) {
		if totalRooms <= 0 {
			n := night
			return &n
		}
		count := 0
		for _, r := range reservations {
			if excludeID != "" && r.ID.String() == excludeID {
				continue
			}
			if !r.Status.OccupiesInventory() {
				continue
			}
			if r.CoversNight(night) {
				count++
			}
		}
		if count >= totalRooms {
			n := night
			return &n
		}
	}

	return nil
}
