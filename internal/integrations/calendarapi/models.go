package calendarapi

import (
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// Booking бронирование в ответе GET /api/calendars
type Booking struct {
	ID         string     `json:"id"`
	StartDate  types.Date `json:"startDate"`
	EndDate    types.Date `json:"endDate"`
	Source     string     `json:"source"` // "manual" | "external"
	Note       *string    `json:"note,omitempty"`
	ExternalID *string    `json:"externalId,omitempty"`
	GuestName  *string    `json:"guestName,omitempty"`
}

// ApartmentCalendar набор бронирований одной квартиры
type ApartmentCalendar struct {
	ApartmentID   string    `json:"apartmentId"`
	ApartmentName string    `json:"apartmentName"`
	Bookings      []Booking `json:"bookings"`
}

// CreateBookingRequest тело POST /api/calendars/bookings
type CreateBookingRequest struct {
	ApartmentID string     `json:"apartmentId"`
	StartDate   types.Date `json:"startDate"`
	EndDate     types.Date `json:"endDate"`
	Note        *string    `json:"note,omitempty"`
	CreatedBy   string     `json:"createdBy"`
}

// UpdateBookingRequest тело PUT /api/calendars/bookings/{id}.
// Отправляются только заданные поля.
type UpdateBookingRequest struct {
	StartDate *types.Date `json:"startDate,omitempty"`
	EndDate   *types.Date `json:"endDate,omitempty"`
	Note      *string     `json:"note,omitempty"`
}

// ExternalNoteRequest тело PUT/DELETE /api/calendars/external-notes
type ExternalNoteRequest struct {
	ApartmentID string  `json:"apartmentId"`
	ExternalID  string  `json:"externalId"`
	Note        *string `json:"note,omitempty"`
	CreatedBy   string  `json:"createdBy,omitempty"`
}

// ErrorResponse тело ошибки сервера
type ErrorResponse struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Conflict *ConflictRange `json:"conflict,omitempty"`
}

// ConflictRange бронирование, с которым пересекаются даты
type ConflictRange struct {
	ID        string     `json:"id"`
	StartDate types.Date `json:"startDate"`
	EndDate   types.Date `json:"endDate"`
}

// toDomain переводит ответ списка в снимок
func toDomain(calendars map[string]ApartmentCalendar) domain.Snapshot {
	snapshot := make(domain.Snapshot, len(calendars))
	for key, cal := range calendars {
		set := &domain.ApartmentBookingSet{
			ApartmentID:   cal.ApartmentID,
			ApartmentName: cal.ApartmentName,
			Bookings:      make([]domain.Booking, 0, len(cal.Bookings)),
		}
		for _, b := range cal.Bookings {
			source := domain.SourceManual
			if b.Source == string(domain.SourceExternal) {
				source = domain.SourceExternal
			}
			set.Bookings = append(set.Bookings, domain.Booking{
				ID:          b.ID,
				ApartmentID: cal.ApartmentID,
				StartDate:   b.StartDate,
				EndDate:     b.EndDate,
				Source:      source,
				Note:        b.Note,
				ExternalID:  b.ExternalID,
				GuestName:   b.GuestName,
			})
		}
		snapshot[key] = set
	}
	return snapshot
}
