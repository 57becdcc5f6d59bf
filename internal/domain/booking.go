package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// BookingSource tells where a booking came from
type BookingSource string

const (
	SourceManual   BookingSource = "manual"
	SourceExternal BookingSource = "external"
)

// Booking is a reservation of one apartment for a whole-day interval.
// EndDate is the check-out day and is part of the interval.
type Booking struct {
	ID          string
	ApartmentID string
	StartDate   types.Date
	EndDate     types.Date
	Source      BookingSource
	Note        *string
	ExternalID  *string // only for external bookings
	GuestName   *string // display only, taken from the feed event summary

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExternal returns true for bookings imported from a calendar feed
func (b *Booking) IsExternal() bool {
	return b.Source == SourceExternal
}

// CanEditDates returns true if the booking dates may be changed.
// External bookings are owned by the feed and only accept note annotations.
func (b *Booking) CanEditDates() bool {
	return b.Source == SourceManual
}

// ContainsDay returns true if day lies in [StartDate, EndDate], both ends included
func (b *Booking) ContainsDay(day types.Date) bool {
	if day.Equal(b.StartDate) || day.Equal(b.EndDate) {
		return true
	}
	return b.StartDate.Before(day) && day.Before(b.EndDate)
}

// NoteText returns the trimmed note or an empty string
func (b *Booking) NoteText() string {
	if b.Note == nil {
		return ""
	}
	return strings.TrimSpace(*b.Note)
}

// Public returns a copy reduced to occupancy data for unauthenticated readers
func (b Booking) Public() Booking {
	return Booking{
		ID:          b.ID,
		ApartmentID: b.ApartmentID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		Source:      b.Source,
	}
}

// BookingPatch holds only the fields that changed. Nil means "leave as is".
type BookingPatch struct {
	StartDate *types.Date
	EndDate   *types.Date
	Note      *string // empty string clears the note
}

// IsEmpty returns true when the patch changes nothing
func (p BookingPatch) IsEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.Note == nil
}

// Apply returns a copy of b with the patch applied
func (p BookingPatch) Apply(b Booking) Booking {
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.Note != nil {
		note := strings.TrimSpace(*p.Note)
		if note == "" {
			b.Note = nil
		} else {
			b.Note = &note
		}
	}
	return b
}

// ExternalNote is an admin annotation attached to an external booking
type ExternalNote struct {
	ApartmentID string
	ExternalID  string
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApartmentBookingSet is every booking of one apartment as returned by a single list call
type ApartmentBookingSet struct {
	ApartmentID   string
	ApartmentName string
	Bookings      []Booking
}

// FindBooking returns the booking with the given id or nil
func (s *ApartmentBookingSet) FindBooking(id string) *Booking {
	for i := range s.Bookings {
		if s.Bookings[i].ID == id {
			return &s.Bookings[i]
		}
	}
	return nil
}

// FindExternal returns the external booking with the given feed id or nil
func (s *ApartmentBookingSet) FindExternal(externalID string) *Booking {
	for i := range s.Bookings {
		b := &s.Bookings[i]
		if b.ExternalID != nil && *b.ExternalID == externalID {
			return b
		}
	}
	return nil
}

// Snapshot maps apartment key to its booking set
type Snapshot map[string]*ApartmentBookingSet

// ByApartmentID finds an apartment key and set by apartment id
func (s Snapshot) ByApartmentID(apartmentID string) (string, *ApartmentBookingSet) {
	for key, set := range s {
		if set.ApartmentID == apartmentID {
			return key, set
		}
	}
	return "", nil
}

// FindBooking searches every apartment for a booking id
func (s Snapshot) FindBooking(id string) (string, *Booking) {
	for key, set := range s {
		if b := set.FindBooking(id); b != nil {
			return key, b
		}
	}
	return "", nil
}
