package get_month_days

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/calendar"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

var (
	errInvalidYear  = errors.New("invalid year")
	errInvalidMonth = errors.New("invalid month")
)

// DayResponse классифицированный день
type DayResponse struct {
	Date       string                     `json:"date"`
	Type       string                     `json:"type"`
	IsCheckIn  bool                       `json:"isCheckIn"`
	IsCheckOut bool                       `json:"isCheckOut"`
	IsOccupied bool                       `json:"isOccupied"`
	Bookings   []handlers.BookingResponse `json:"bookings"`
}

// MonthDaysResponse все дни месяца квартиры
type MonthDaysResponse struct {
	ApartmentKey string        `json:"apartmentKey"`
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	Days         []DayResponse `json:"days"`
}

// parseMonth читает year и month из query. Отсутствующие значения берутся из now.
func parseMonth(q url.Values, now time.Time) (int, time.Month, error) {
	year, month := now.Year(), now.Month()

	if raw := q.Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 || y > 9999 {
			return 0, 0, errInvalidYear
		}
		year = y
	}
	if raw := q.Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, errInvalidMonth
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// FromDomainDays конвертирует статусы дней в ответ
func FromDomainDays(apartmentKey string, year int, month time.Month, days []domain.DayStatus) *MonthDaysResponse {
	resp := &MonthDaysResponse{
		ApartmentKey: apartmentKey,
		Year:         year,
		Month:        int(month),
		Days:         make([]DayResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, DayResponse{
			Date:       d.Date.String(),
			Type:       string(calendar.TypeOf(d)),
			IsCheckIn:  d.IsCheckIn,
			IsCheckOut: d.IsCheckOut,
			IsOccupied: d.IsOccupied,
			Bookings:   handlers.FromDomainBookings(d.Bookings),
		})
	}
	return resp
}
