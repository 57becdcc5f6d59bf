package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/calendar"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/ptr"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

func TestRenderMonth_MarksStay(t *testing.T) {
	bookings := []domain.Booking{{
		ID:        "b1",
		StartDate: types.MustParseDate("2024-05-10"),
		EndDate:   types.MustParseDate("2024-05-13"),
	}}
	days := calendar.Classify(bookings, 2024, time.May)

	var buf bytes.Buffer
	renderMonth(&buf, "apartment1", 2024, time.May, days)

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "apartment1  May 2024", lines[0])
	// 1 мая 2024 - среда, первые две ячейки пустые
	assert.Equal(t, "            1    2    3    4    5", lines[2])
	assert.Contains(t, buf.String(), " 10>")
	assert.Contains(t, buf.String(), "#11 ")
	// 12 мая - воскресенье, хвостовой пробел строки обрезается
	assert.Contains(t, buf.String(), "#12\n")
	assert.Contains(t, buf.String(), "<13")
}

func TestFormatCell(t *testing.T) {
	day := types.MustParseDate("2024-06-01")

	tests := []struct {
		name   string
		status domain.DayStatus
		want   string
	}{
		{name: "free", status: domain.DayStatus{Date: day}, want: "  1 "},
		{name: "turnover", status: domain.DayStatus{Date: day, IsCheckIn: true, IsCheckOut: true}, want: "< 1>"},
		{name: "occupied", status: domain.DayStatus{Date: day, IsOccupied: true}, want: "# 1 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCell(calendar.GridCell{Date: day, InMonth: true, Status: tt.status}))
		})
	}

	assert.Equal(t, "    ", formatCell(calendar.GridCell{Date: day}))
}

func TestRenderApartment(t *testing.T) {
	var buf bytes.Buffer
	renderApartment(&buf, "apartment1", &domain.ApartmentBookingSet{
		ApartmentID:   "apt-1",
		ApartmentName: "Sea View",
		Bookings: []domain.Booking{{
			ID:        "b1",
			StartDate: types.MustParseDate("2024-05-10"),
			EndDate:   types.MustParseDate("2024-05-15"),
			Source:    domain.SourceManual,
			Note:      ptr.Ptr("  family  "),
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "apartment1  Sea View (apt-1)")
	assert.Contains(t, out, "2024-05-10")
	assert.Contains(t, out, "family")
	assert.Regexp(t, `b1\s+2024-05-10\s+2024-05-15\s+5\s+manual`, out)
}

func TestRenderApartment_GuestName(t *testing.T) {
	var buf bytes.Buffer
	renderApartment(&buf, "apartment1", &domain.ApartmentBookingSet{
		ApartmentID:   "apt-1",
		ApartmentName: "Sea View",
		Bookings: []domain.Booking{{
			ID:         "ext-u1",
			StartDate:  types.MustParseDate("2024-05-20"),
			EndDate:    types.MustParseDate("2024-05-23"),
			Source:     domain.SourceExternal,
			ExternalID: ptr.Ptr("u1"),
			GuestName:  ptr.Ptr("Jan Kowalski"),
			Note:       ptr.Ptr("VIP"),
		}},
	})

	assert.Regexp(t, `ext-u1\s+2024-05-20\s+2024-05-23\s+3\s+external\s+Jan Kowalski\s+VIP`, buf.String())
}

func TestRenderApartment_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderApartment(&buf, "apartment2", &domain.ApartmentBookingSet{ApartmentID: "apt-2", ApartmentName: "Garden"})

	assert.Contains(t, buf.String(), "no bookings")
}
