package bookings

import (
	"context"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Delete(ctx context.Context, id string) (bool, error)
}

// NoteRepository интерфейс репозитория заметок к внешним бронированиям
type NoteRepository interface {
	Upsert(ctx context.Context, note *domain.ExternalNote) (*domain.ExternalNote, error)
	Delete(ctx context.Context, apartmentID, externalID string) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
