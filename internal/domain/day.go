package domain

import "github.com/m04kA/SMC-ApartmentCalendar/pkg/types"

// DayStatus is the derived view of one calendar day. It is never persisted.
type DayStatus struct {
	Date       types.Date
	IsCheckIn  bool
	IsCheckOut bool
	IsOccupied bool
	Bookings   []Booking
}

// DayType is the display classification of a day
type DayType string

const (
	DayFree            DayType = "free"
	DayOccupied        DayType = "occupied"
	DayCheckIn         DayType = "checkin"
	DayCheckOut        DayType = "checkout"
	DayCheckOutCheckIn DayType = "checkout-checkin"
)

// SelectedRange is a date range picked by the user. Start is never after End.
type SelectedRange struct {
	Start types.Date
	End   types.Date
}

// NewSelectedRange orders a and b so that Start <= End
func NewSelectedRange(a, b types.Date) SelectedRange {
	if a.After(b) {
		a, b = b, a
	}
	return SelectedRange{Start: a, End: b}
}

// Nights returns the number of nights between Start and End
func (r SelectedRange) Nights() int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return int(r.End.Time().Sub(r.Start.Time()).Hours() / 24)
}
