package feed

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// maxOccurrences ограничение на число экземпляров одного повторяющегося события
const maxOccurrences = 1000

// expandRecurrence разворачивает RRULE в моменты начала экземпляров внутри окна
func expandRecurrence(rawRule string, start time.Time, exdates []time.Time, window Window) ([]time.Time, error) {
	r, err := rrule.StrToRRule(rawRule)
	if err != nil {
		return nil, fmt.Errorf("rrule %q: %w", rawRule, err)
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exdates {
		// EXDATE без TZID приводим к календарной дате и времени начала события
		set.ExDate(time.Date(ex.Year(), ex.Month(), ex.Day(), ex.Hour(), ex.Minute(), ex.Second(), 0, start.Location()))
	}

	occurrences := set.Between(window.From.In(start.Location()), window.To.In(start.Location()), true)
	if len(occurrences) > maxOccurrences {
		occurrences = occurrences[:maxOccurrences]
	}
	return occurrences, nil
}
