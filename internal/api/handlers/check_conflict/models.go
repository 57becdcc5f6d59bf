package check_conflict

import (
	"errors"
	"net/url"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// ConflictQuery параметры проверки
type ConflictQuery struct {
	StartDate        types.Date
	EndDate          types.Date
	ExcludeBookingID string
}

// ConflictResponse результат проверки. Conflict пустой, если пересечений нет.
type ConflictResponse struct {
	HasConflict bool                      `json:"hasConflict"`
	Conflict    *handlers.BookingResponse `json:"conflict"`
}

var errDatesRequired = errors.New("startDate and endDate are required")

func parseQuery(q url.Values) (*ConflictQuery, error) {
	if q.Get("startDate") == "" || q.Get("endDate") == "" {
		return nil, errDatesRequired
	}
	start, err := types.ParseDate(q.Get("startDate"))
	if err != nil {
		return nil, err
	}
	end, err := types.ParseDate(q.Get("endDate"))
	if err != nil {
		return nil, err
	}
	return &ConflictQuery{
		StartDate:        start,
		EndDate:          end,
		ExcludeBookingID: q.Get("excludeBookingId"),
	}, nil
}

// FromDomainConflict конвертирует найденное бронирование в ответ
func FromDomainConflict(conflict *domain.Booking) *ConflictResponse {
	if conflict == nil {
		return &ConflictResponse{}
	}
	b := handlers.FromDomainBooking(*conflict)
	return &ConflictResponse{HasConflict: true, Conflict: &b}
}
