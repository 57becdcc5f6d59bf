package check_conflict

import (
	"context"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

type CalendarsService interface {
	CheckConflict(ctx context.Context, apartmentKey string, start, end types.Date, excludeBookingID string) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
