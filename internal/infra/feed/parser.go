package feed

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// uidNamespace пространство имён для детерминированных идентификаторов событий без UID
var uidNamespace = uuid.MustParse("4f3c7a52-9d0e-4c38-8c4e-0b6f1f0d2a11")

// Window интервал, в котором разворачиваются повторяющиеся события
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow окно [now - past, now + future] в днях
func NewWindow(now time.Time, pastDays, futureDays int) Window {
	return Window{
		From: now.AddDate(0, 0, -pastDays),
		To:   now.AddDate(0, 0, futureDays),
	}
}

// Parse разбирает iCal-документ в бронирования квартиры.
// DTSTART - день заезда, DTEND - день выезда; без DTEND событие занимает один день.
// Отменённые события пропускаются, некорректные события логирует и пропускает вызывающий
// по возвращённому счётчику skipped.
func Parse(apartmentID string, body []byte, window Window) (bookings []domain.Booking, skipped int, err error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, 0, fmt.Errorf("%w: empty body", ErrParse)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrParse, err)
	}

	bookings = make([]domain.Booking, 0)
	for _, ve := range cal.Events() {
		parsed, perr := parseEvent(apartmentID, ve, window)
		if perr != nil {
			skipped++
			continue
		}
		bookings = append(bookings, parsed...)
	}
	return bookings, skipped, nil
}

func parseEvent(apartmentID string, ve *ical.VEvent, window Window) ([]domain.Booking, error) {
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil && strings.EqualFold(strings.TrimSpace(p.Value), "CANCELLED") {
		return nil, nil
	}

	startAt, err := eventTime(ve, ical.ComponentPropertyDtStart)
	if err != nil {
		return nil, fmt.Errorf("dtstart: %w", err)
	}
	start := types.NewDate(startAt)

	end := start
	if ve.GetProperty(ical.ComponentPropertyDtEnd) != nil {
		endAt, err := eventTime(ve, ical.ComponentPropertyDtEnd)
		if err != nil {
			return nil, fmt.Errorf("dtend: %w", err)
		}
		end = types.NewDate(endAt)
	}
	if end.Before(start) {
		start, end = end, start
	}

	uid := eventUID(ve)
	guest := guestName(ve)

	rule := ve.GetProperty(ical.ComponentPropertyRrule)
	if rule == nil || strings.TrimSpace(rule.Value) == "" {
		return []domain.Booking{newExternalBooking(apartmentID, uid, guest, start, end)}, nil
	}

	occurrences, err := expandRecurrence(rule.Value, startAt, exceptionDates(ve), window)
	if err != nil {
		return nil, err
	}

	nights := int(end.Time().Sub(start.Time()).Hours() / 24)
	result := make([]domain.Booking, 0, len(occurrences))
	for _, occ := range occurrences {
		occStart := types.NewDate(occ)
		instanceUID := uid + "_" + occStart.Time().Format("20060102")
		result = append(result, newExternalBooking(apartmentID, instanceUID, guest, occStart, occStart.AddDays(nights)))
	}
	return result, nil
}

func newExternalBooking(apartmentID, externalID string, guest *string, start, end types.Date) domain.Booking {
	ext := externalID
	return domain.Booking{
		ID:          domain.ExternalIDPrefix + externalID,
		ApartmentID: apartmentID,
		StartDate:   start,
		EndDate:     end,
		Source:      domain.SourceExternal,
		ExternalID:  &ext,
		GuestName:   guest,
	}
}

// closedSummary формат Booking.com "CLOSED - Имя Фамилия"
var closedSummary = regexp.MustCompile(`(?i)CLOSED\s*-\s*(.+)`)

// guestName имя гостя из SUMMARY. Если формат не распознан - сам SUMMARY, пустой - nil.
func guestName(ve *ical.VEvent) *string {
	p := ve.GetProperty(ical.ComponentPropertySummary)
	if p == nil {
		return nil
	}
	summary := strings.TrimSpace(p.Value)
	if m := closedSummary.FindStringSubmatch(summary); m != nil {
		summary = strings.TrimSpace(m[1])
	}
	if summary == "" {
		return nil
	}
	return &summary
}

// eventTime читает DTSTART/DTEND как дату-время, а при неудаче как дату целого дня
func eventTime(ve *ical.VEvent, prop ical.ComponentProperty) (time.Time, error) {
	var (
		t   time.Time
		err error
	)
	switch prop {
	case ical.ComponentPropertyDtEnd:
		if t, err = ve.GetEndAt(); err != nil {
			t, err = ve.GetAllDayEndAt()
		}
	default:
		if t, err = ve.GetStartAt(); err != nil {
			t, err = ve.GetAllDayStartAt()
		}
	}
	return t, err
}

// eventUID возвращает UID события, а если его нет - стабильный идентификатор по содержимому
func eventUID(ve *ical.VEvent) string {
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil && strings.TrimSpace(p.Value) != "" {
		return strings.TrimSpace(p.Value)
	}

	var key strings.Builder
	for _, prop := range []ical.ComponentProperty{
		ical.ComponentPropertyDtStart,
		ical.ComponentPropertyDtEnd,
		ical.ComponentPropertySummary,
	} {
		if p := ve.GetProperty(prop); p != nil {
			key.WriteString(p.Value)
		}
		key.WriteByte('|')
	}
	return uuid.NewSHA1(uidNamespace, []byte(key.String())).String()
}

// exceptionDates собирает все EXDATE события, значения могут идти через запятую
func exceptionDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime разбирает значение DATE / DATE-TIME без учёта TZID
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, fmt.Errorf("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.UTC)
	default:
		return time.ParseInLocation("20060102", v, time.UTC)
	}
}
