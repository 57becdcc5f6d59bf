package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ApartmentCalendar/pkg/ptr"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

func TestBooking_ContainsDay(t *testing.T) {
	b := Booking{
		StartDate: types.MustParseDate("2024-05-10"),
		EndDate:   types.MustParseDate("2024-05-15"),
	}

	assert.True(t, b.ContainsDay(types.MustParseDate("2024-05-10")))
	assert.True(t, b.ContainsDay(types.MustParseDate("2024-05-12")))
	assert.True(t, b.ContainsDay(types.MustParseDate("2024-05-15")))
	assert.False(t, b.ContainsDay(types.MustParseDate("2024-05-09")))
	assert.False(t, b.ContainsDay(types.MustParseDate("2024-05-16")))
}

func TestBookingPatch_Apply(t *testing.T) {
	original := Booking{
		ID:        "b1",
		StartDate: types.MustParseDate("2024-05-10"),
		EndDate:   types.MustParseDate("2024-05-15"),
		Note:      ptr.Ptr("early arrival"),
	}

	assert.True(t, BookingPatch{}.IsEmpty())

	end := types.MustParseDate("2024-05-17")
	patched := BookingPatch{EndDate: &end, Note: ptr.Ptr("   ")}.Apply(original)

	assert.Equal(t, "2024-05-10", patched.StartDate.String())
	assert.Equal(t, "2024-05-17", patched.EndDate.String())
	assert.Nil(t, patched.Note)
	assert.Equal(t, "early arrival", original.NoteText(), "original must stay untouched")
}

func TestBooking_Public(t *testing.T) {
	b := Booking{
		ID:         "ext-1",
		Source:     SourceExternal,
		Note:       ptr.Ptr("VIP"),
		ExternalID: ptr.Ptr("uid-1"),
		GuestName:  ptr.Ptr("Jan Kowalski"),
		CreatedBy:  "admin",
	}

	public := b.Public()
	assert.Nil(t, public.Note)
	assert.Nil(t, public.ExternalID)
	assert.Nil(t, public.GuestName)
	assert.Empty(t, public.CreatedBy)
	assert.Equal(t, "ext-1", public.ID)
}

func TestNewSelectedRange_Normalizes(t *testing.T) {
	r := NewSelectedRange(types.MustParseDate("2024-05-15"), types.MustParseDate("2024-05-10"))

	assert.Equal(t, "2024-05-10", r.Start.String())
	assert.Equal(t, "2024-05-15", r.End.String())
	assert.Equal(t, 5, r.Nights())
}

func TestSnapshot_Lookups(t *testing.T) {
	snap := Snapshot{
		"apartment1": {
			ApartmentID: "a1",
			Bookings: []Booking{
				{ID: "b1"},
				{ID: "ext-x", ExternalID: ptr.Ptr("x")},
			},
		},
	}

	key, set := snap.ByApartmentID("a1")
	assert.Equal(t, "apartment1", key)
	assert.NotNil(t, set)

	key, b := snap.FindBooking("b1")
	assert.Equal(t, "apartment1", key)
	assert.Equal(t, "b1", b.ID)

	assert.NotNil(t, set.FindExternal("x"))
	assert.Nil(t, set.FindExternal("y"))
}
