package get_month_days

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

type CalendarsService interface {
	MonthDays(ctx context.Context, apartmentKey string, year int, month time.Month, includePrivate bool) ([]domain.DayStatus, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
