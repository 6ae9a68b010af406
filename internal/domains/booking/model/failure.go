package model

import (
	"fmt"
	"time"

	"roost/shared/constant"
	"roost/shared/failure"
)

// ErrInvalidRange rejects a range whose check-out is not after its check-in.
func ErrInvalidRange() error {
	return failure.BadRequestFromString("check-out date must be after check-in date")
}

// ErrUnavailable reports a date conflict. Without blocked dates the conflict
// comes from an existing booking; with them it comes from availability
// overrides, and the dates ride along in the details.
func ErrUnavailable(blockedDates []time.Time) error {
	if len(blockedDates) == 0 {
		return failure.Conflict("dates already booked")
	}

	dates := make([]string, len(blockedDates))
	for i, date := range blockedDates {
		dates[i] = date.Format(constant.DateOnlyFormat)
	}

	return failure.ConflictWithDetails(
		"property is not available for the requested dates",
		map[string]any{"blocked_dates": dates},
	)
}

func ErrGuestCountExceeded(maxGuests int) error {
	return failure.BadRequestWithDetails(
		fmt.Sprintf("guest count exceeds the property capacity of %d", maxGuests),
		map[string]any{"max_guests": maxGuests},
	)
}

func ErrStayTooShort(minStay int) error {
	return failure.BadRequestWithDetails(
		fmt.Sprintf("stay must be at least %d nights", minStay),
		map[string]any{"min_stay": minStay},
	)
}

func ErrStayTooLong(maxStay int) error {
	return failure.BadRequestWithDetails(
		fmt.Sprintf("stay cannot exceed %d nights", maxStay),
		map[string]any{"max_stay": maxStay},
	)
}

// ErrInvalidTransition names the current status and the attempted action so
// the caller can tell a stale request from a broken one.
func ErrInvalidTransition(current Status, action Action) error {
	return failure.ConflictWithDetails(
		fmt.Sprintf("action %s is not allowed while the booking is %s", action, current),
		map[string]any{"current_status": string(current), "action": string(action)},
	)
}
