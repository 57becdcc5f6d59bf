package create_booking

import (
	"context"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListByApartment(ctx context.Context, apartmentID string) ([]domain.Booking, error)
}

// FeedProvider внешние бронирования квартиры из iCal-канала
type FeedProvider interface {
	Bookings(ctx context.Context, apt domain.Apartment) []domain.Booking
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConflictRecorder учёт отклонённых из-за пересечения запросов
type ConflictRecorder interface {
	ObserveConflict(operation string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
