package calendar

import (
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// GridCell is one cell of a month view
type GridCell struct {
	Date    types.Date
	InMonth bool
	Status  domain.DayStatus
}

// MonthGrid lays out the classified days of a month in Monday-first weeks.
// Leading and trailing cells belong to the neighbour months and carry a blank status.
func MonthGrid(year int, month time.Month, days []domain.DayStatus) [][]GridCell {
	first, last := MonthBounds(year, month)

	byDay := make(map[string]domain.DayStatus, len(days))
	for _, d := range days {
		byDay[d.Date.String()] = d
	}

	gridStart := first.AddDays(-mondayOffset(first.Weekday()))
	gridEnd := last.AddDays(6 - mondayOffset(last.Weekday()))

	var weeks [][]GridCell
	week := make([]GridCell, 0, 7)
	for day := gridStart; !day.After(gridEnd); day = day.AddDays(1) {
		cell := GridCell{Date: day}
		if !day.Before(first) && !day.After(last) {
			cell.InMonth = true
			cell.Status = byDay[day.String()]
		}
		if cell.Status.Date.IsZero() {
			cell.Status = domain.DayStatus{Date: day, Bookings: []domain.Booking{}}
		}

		week = append(week, cell)
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]GridCell, 0, 7)
		}
	}
	return weeks
}

// mondayOffset returns the number of days since Monday
func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}
