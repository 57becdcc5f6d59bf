package calendar

import "github.com/m04kA/SMC-ApartmentCalendar/internal/domain"

// TypeOf maps a day status to its display type.
// Precedence: checkout-checkin, checkin, checkout, occupied, free.
func TypeOf(status domain.DayStatus) domain.DayType {
	switch {
	case status.IsCheckIn && status.IsCheckOut:
		return domain.DayCheckOutCheckIn
	case status.IsCheckIn:
		return domain.DayCheckIn
	case status.IsCheckOut:
		return domain.DayCheckOut
	case status.IsOccupied:
		return domain.DayOccupied
	default:
		return domain.DayFree
	}
}
