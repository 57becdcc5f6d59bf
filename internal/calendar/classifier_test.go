package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

func booking(id, start, end string) domain.Booking {
	return domain.Booking{
		ID:        id,
		StartDate: types.MustParseDate(start),
		EndDate:   types.MustParseDate(end),
		Source:    domain.SourceManual,
	}
}

func dayOf(t *testing.T, days []domain.DayStatus, date string) domain.DayStatus {
	t.Helper()
	for _, d := range days {
		if d.Date.String() == date {
			return d
		}
	}
	require.FailNow(t, "day not found", date)
	return domain.DayStatus{}
}

func TestClassify_OneEntryPerDay(t *testing.T) {
	days := Classify(nil, 2024, time.February)

	require.Len(t, days, 29)
	assert.Equal(t, "2024-02-01", days[0].Date.String())
	assert.Equal(t, "2024-02-29", days[28].Date.String())
	for _, d := range days {
		assert.False(t, d.IsCheckIn || d.IsCheckOut || d.IsOccupied)
		assert.NotNil(t, d.Bookings)
		assert.Empty(t, d.Bookings)
	}
}

func TestClassify_StayInteriorAndBoundaries(t *testing.T) {
	days := Classify([]domain.Booking{booking("b1", "2024-05-10", "2024-05-15")}, 2024, time.May)

	checkIn := dayOf(t, days, "2024-05-10")
	assert.True(t, checkIn.IsCheckIn)
	assert.False(t, checkIn.IsOccupied)
	assert.False(t, checkIn.IsCheckOut)

	for day := 11; day <= 14; day++ {
		d := dayOf(t, days, fmt.Sprintf("2024-05-%02d", day))
		assert.True(t, d.IsOccupied, "day %d", day)
		assert.False(t, d.IsCheckIn, "day %d", day)
		assert.False(t, d.IsCheckOut, "day %d", day)
		assert.Len(t, d.Bookings, 1)
	}

	checkOut := dayOf(t, days, "2024-05-15")
	assert.True(t, checkOut.IsCheckOut)
	assert.False(t, checkOut.IsOccupied)
	assert.False(t, checkOut.IsCheckIn)
	assert.Len(t, checkOut.Bookings, 1)

	assert.Empty(t, dayOf(t, days, "2024-05-09").Bookings)
	assert.Empty(t, dayOf(t, days, "2024-05-16").Bookings)
}

func TestClassify_SameDayTurnover(t *testing.T) {
	bookings := []domain.Booking{
		booking("a", "2024-05-28", "2024-06-01"),
		booking("b", "2024-06-01", "2024-06-04"),
	}

	d := dayOf(t, Classify(bookings, 2024, time.June), "2024-06-01")

	assert.True(t, d.IsCheckIn)
	assert.True(t, d.IsCheckOut)
	assert.False(t, d.IsOccupied)
	assert.Len(t, d.Bookings, 2)
	assert.Equal(t, domain.DayCheckOutCheckIn, TypeOf(d))
}

func TestClassify_SingleDayBooking(t *testing.T) {
	days := Classify([]domain.Booking{booking("s", "2024-07-01", "2024-07-01")}, 2024, time.July)

	d := dayOf(t, days, "2024-07-01")
	assert.True(t, d.IsCheckIn)
	assert.True(t, d.IsCheckOut)
	assert.False(t, d.IsOccupied)

	for _, other := range days[1:] {
		assert.Empty(t, other.Bookings)
		assert.False(t, other.IsCheckIn || other.IsCheckOut || other.IsOccupied)
	}
}

func TestClassify_BookingSpanningMonths(t *testing.T) {
	days := Classify([]domain.Booking{booking("x", "2024-04-28", "2024-05-02")}, 2024, time.May)

	first := dayOf(t, days, "2024-05-01")
	assert.True(t, first.IsOccupied)
	assert.False(t, first.IsCheckIn)

	assert.True(t, dayOf(t, days, "2024-05-02").IsCheckOut)
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	zone := time.FixedZone("CEST", 2*60*60)
	b := domain.Booking{
		ID:        "t",
		StartDate: types.NewDate(time.Date(2024, 5, 10, 15, 0, 0, 0, zone)),
		EndDate:   types.NewDate(time.Date(2024, 5, 12, 10, 0, 0, 0, zone)),
	}

	days := Classify([]domain.Booking{b}, 2024, time.May)
	assert.True(t, dayOf(t, days, "2024-05-10").IsCheckIn)
	assert.True(t, dayOf(t, days, "2024-05-11").IsOccupied)
	assert.True(t, dayOf(t, days, "2024-05-12").IsCheckOut)
}

func TestClassify_Idempotent(t *testing.T) {
	bookings := []domain.Booking{
		booking("a", "2024-05-01", "2024-05-05"),
		booking("b", "2024-05-05", "2024-05-09"),
		booking("c", "2024-05-20", "2024-05-20"),
	}

	first := Classify(bookings, 2024, time.May)
	second := Classify(bookings, 2024, time.May)

	assert.Equal(t, first, second)
}

func TestClassify_NonOverlappingSetSharesOnlyBoundaryDays(t *testing.T) {
	bookings := []domain.Booking{
		booking("a", "2024-05-01", "2024-05-05"),
		booking("b", "2024-05-05", "2024-05-08"),
		booking("c", "2024-05-10", "2024-05-12"),
		booking("d", "2024-05-12", "2024-05-12"),
		booking("e", "2024-05-20", "2024-05-25"),
	}

	for _, d := range Classify(bookings, 2024, time.May) {
		if len(d.Bookings) <= 1 {
			continue
		}
		assert.True(t, d.IsCheckIn && d.IsCheckOut, "day %s shared without being a boundary", d.Date)
		assert.False(t, d.IsOccupied, "day %s", d.Date)
	}
}

func TestTypeOf_Precedence(t *testing.T) {
	tests := []struct {
		status domain.DayStatus
		want   domain.DayType
	}{
		{domain.DayStatus{}, domain.DayFree},
		{domain.DayStatus{IsOccupied: true}, domain.DayOccupied},
		{domain.DayStatus{IsCheckOut: true}, domain.DayCheckOut},
		{domain.DayStatus{IsCheckIn: true}, domain.DayCheckIn},
		{domain.DayStatus{IsCheckIn: true, IsOccupied: true}, domain.DayCheckIn},
		{domain.DayStatus{IsCheckIn: true, IsCheckOut: true}, domain.DayCheckOutCheckIn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeOf(tt.status))
	}
}
