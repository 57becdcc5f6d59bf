package calendar

import (
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// MonthBounds returns the first and the last day of the month
func MonthBounds(year int, month time.Month) (types.Date, types.Date) {
	first := types.NewDateYMD(year, month, 1)
	last := types.NewDateYMD(year, month+1, 0)
	return first, last
}

// NormalizeRange returns a and b ordered so that the first is not after the second
func NormalizeRange(a, b types.Date) (types.Date, types.Date) {
	if a.After(b) {
		return b, a
	}
	return a, b
}
