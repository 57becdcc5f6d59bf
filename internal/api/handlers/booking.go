package handlers

import (
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// BookingResponse бронирование в ответах чтения календаря
type BookingResponse struct {
	ID         string  `json:"id"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Source     string  `json:"source"`
	Note       *string `json:"note,omitempty"`
	ExternalID *string `json:"externalId,omitempty"`
	GuestName  *string `json:"guestName,omitempty"`
}

// FromDomainBooking конвертирует доменное бронирование в ответ
func FromDomainBooking(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		StartDate:  b.StartDate.String(),
		EndDate:    b.EndDate.String(),
		Source:     string(b.Source),
		Note:       b.Note,
		ExternalID: b.ExternalID,
		GuestName:  b.GuestName,
	}
}

// FromDomainBookings конвертирует список, пустой список остаётся [] в JSON
func FromDomainBookings(bookings []domain.Booking) []BookingResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return result
}
