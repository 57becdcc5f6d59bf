package calendar

import (
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] overlap.
// Sharing only a boundary day (check-out == next check-in) is not an overlap.
func Overlaps(aStart, aEnd, bStart, bEnd types.Date) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflict returns the first booking, in slice order, that overlaps the candidate range.
// The booking with id excludeBookingID is skipped, pass "" when creating.
// Candidate dates may come in any order.
//
// Nil means either "no conflict" or "missing date": callers that may pass
// incomplete input must check it themselves before trusting a nil result.
func FindConflict(candidateStart, candidateEnd types.Date, bookings []domain.Booking, excludeBookingID string) *domain.Booking {
	if candidateStart.IsZero() || candidateEnd.IsZero() {
		return nil
	}

	start, end := NormalizeRange(candidateStart, candidateEnd)

	for i := range bookings {
		b := &bookings[i]
		if excludeBookingID != "" && b.ID == excludeBookingID {
			continue
		}
		if Overlaps(start, end, b.StartDate, b.EndDate) {
			return b
		}
	}
	return nil
}
