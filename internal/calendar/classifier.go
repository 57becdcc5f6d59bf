// Package calendar derives per-day occupancy from booking intervals and
// detects overlapping bookings. All math is done on whole days.
package calendar

import (
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// Classify returns one DayStatus per day of the month in ascending order.
//
// For a day D:
//   - IsCheckIn: some booking starts on D
//   - IsCheckOut: some booking ends on D
//   - IsOccupied: some booking has start < D < end
//   - Bookings: every booking whose [start, end] contains D
//
// A same-day turnover marks D as both check-in and check-out.
// The function has no state; equal inputs give equal outputs.
func Classify(bookings []domain.Booking, year int, month time.Month) []domain.DayStatus {
	first, last := MonthBounds(year, month)

	days := make([]domain.DayStatus, 0, last.Day())
	for day := first; !day.After(last); day = day.AddDays(1) {
		days = append(days, ClassifyDay(bookings, day))
	}
	return days
}

// ClassifyDay computes the status of a single day
func ClassifyDay(bookings []domain.Booking, day types.Date) domain.DayStatus {
	status := domain.DayStatus{
		Date:     day,
		Bookings: []domain.Booking{},
	}

	for i := range bookings {
		b := &bookings[i]

		if day.Equal(b.StartDate) {
			status.IsCheckIn = true
		}
		if day.Equal(b.EndDate) {
			status.IsCheckOut = true
		}
		if b.StartDate.Before(day) && day.Before(b.EndDate) {
			status.IsOccupied = true
		}
		if b.ContainsDay(day) {
			status.Bookings = append(status.Bookings, *b)
		}
	}

	return status
}
