package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/calendar"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/ptr"
)

// renderApartment печатает бронирования квартиры таблицей
func renderApartment(w io.Writer, key string, set *domain.ApartmentBookingSet) {
	fmt.Fprintf(w, "%s  %s (%s)\n", key, set.ApartmentName, set.ApartmentID)
	if len(set.Bookings) == 0 {
		fmt.Fprintln(w, "  no bookings")
		fmt.Fprintln(w)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tCHECK-IN\tCHECK-OUT\tNIGHTS\tSOURCE\tGUEST\tNOTE")
	for _, b := range set.Bookings {
		nights := domain.NewSelectedRange(b.StartDate, b.EndDate).Nights()
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			b.ID, b.StartDate, b.EndDate, nights, b.Source, ptr.Deref(b.GuestName), b.NoteText())
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

// renderMonth печатает месяц сеткой с понедельника.
// Заезд отмечается ">" после числа, выезд "<" перед ним, занятый день "#".
func renderMonth(w io.Writer, key string, year int, month time.Month, days []domain.DayStatus) {
	fmt.Fprintf(w, "%s  %s %d\n", key, month, year)
	fmt.Fprintln(w, " Mo   Tu   We   Th   Fr   Sa   Su")

	for _, week := range calendar.MonthGrid(year, month, days) {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, formatCell(cell))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "legend: 7> check-in, <7 check-out, <7> turnover, #7 occupied")
}

func formatCell(cell calendar.GridCell) string {
	if !cell.InMonth {
		return "    "
	}
	day := cell.Date.Day()
	switch calendar.TypeOf(cell.Status) {
	case domain.DayCheckOutCheckIn:
		return fmt.Sprintf("<%2d>", day)
	case domain.DayCheckIn:
		return fmt.Sprintf(" %2d>", day)
	case domain.DayCheckOut:
		return fmt.Sprintf("<%2d ", day)
	case domain.DayOccupied:
		return fmt.Sprintf("#%2d ", day)
	default:
		return fmt.Sprintf(" %2d ", day)
	}
}
