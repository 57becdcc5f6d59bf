package calendars

import (
	"context"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// BookingRepository интерфейс репозитория ручных бронирований
type BookingRepository interface {
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListByApartment(ctx context.Context, apartmentID string) ([]domain.Booking, error)
}

// NoteRepository интерфейс репозитория заметок к внешним бронированиям
type NoteRepository interface {
	ListAll(ctx context.Context) ([]domain.ExternalNote, error)
}

// FeedProvider внешние бронирования и исходный текст каналов
type FeedProvider interface {
	Bookings(ctx context.Context, apt domain.Apartment) []domain.Booking
	Raw(ctx context.Context, apartmentKey string) ([]byte, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
