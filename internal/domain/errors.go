package domain

import (
	"errors"
	"fmt"
)

// ErrBookingConflict is returned when a date range overlaps an existing booking
var ErrBookingConflict = errors.New("booking dates conflict")

// ConflictError carries the booking the candidate range collides with
type ConflictError struct {
	Booking Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v with booking %s (%s - %s)", ErrBookingConflict, e.Booking.ID, e.Booking.StartDate, e.Booking.EndDate)
}

func (e *ConflictError) Unwrap() error {
	return ErrBookingConflict
}
