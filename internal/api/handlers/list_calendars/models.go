package list_calendars

import (
	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// ApartmentCalendarResponse бронирования одной квартиры
type ApartmentCalendarResponse struct {
	ApartmentID   string                     `json:"apartmentId"`
	ApartmentName string                     `json:"apartmentName"`
	Bookings      []handlers.BookingResponse `json:"bookings"`
}

// FromSnapshot конвертирует снимок в ответ, ключ - ключ квартиры
func FromSnapshot(snapshot domain.Snapshot) map[string]ApartmentCalendarResponse {
	result := make(map[string]ApartmentCalendarResponse, len(snapshot))
	for key, set := range snapshot {
		result[key] = ApartmentCalendarResponse{
			ApartmentID:   set.ApartmentID,
			ApartmentName: set.ApartmentName,
			Bookings:      handlers.FromDomainBookings(set.Bookings),
		}
	}
	return result
}
