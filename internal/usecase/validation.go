package usecase

import (
	"fmt"
	"time"

	"lodging-booking/internal/data/entity"
)

// Pure stay validators. Each returns the list of failures instead of
// failing on the first one, so a caller can surface everything at once.

// ValidateStayDates checks the date-range rules for a stay: check-in not
// in the past and strictly before check-out. Inputs are expected to be
// midnight-normalized; today means the current local calendar day.
func ValidateStayDates(checkIn, checkOut, now time.Time) []string {
	var failures []string

	today := entity.Day(now)
	checkIn = entity.Day(checkIn)
	checkOut = entity.Day(checkOut)

	if checkIn.Before(today) {
		failures = append(failures, "check-in date must not be in the past")
	}
	if !checkIn.Before(checkOut) {
		failures = append(failures, "check-out date must be after check-in date")
	}

	return failures
}

// ValidateGuests checks the party size against the property capacity.
func ValidateGuests(guests, capacity int) []string {
	var failures []string

	if guests < 1 {
		failures = append(failures, "at least one guest is required")
	}
	if guests > capacity {
		failures = append(failures, fmt.Sprintf("guest count %d exceeds property capacity %d", guests, capacity))
	}

	return failures
}
