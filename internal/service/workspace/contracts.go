package workspace

import (
	"context"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/integrations/calendarapi"
)

// CalendarAPI интерфейс клиента REST API календарей
type CalendarAPI interface {
	List(ctx context.Context) (domain.Snapshot, error)
	Create(ctx context.Context, req *calendarapi.CreateBookingRequest) error
	Update(ctx context.Context, bookingID string, req *calendarapi.UpdateBookingRequest) error
	Delete(ctx context.Context, bookingID string) error
	UpsertExternalNote(ctx context.Context, req *calendarapi.ExternalNoteRequest) error
	DeleteExternalNote(ctx context.Context, req *calendarapi.ExternalNoteRequest) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
