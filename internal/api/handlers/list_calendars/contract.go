package list_calendars

import (
	"context"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

type CalendarsService interface {
	ListCalendars(ctx context.Context, includePrivate bool) (domain.Snapshot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
