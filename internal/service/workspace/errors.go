package workspace

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

var (
	// ErrNetworkFailure возвращается при ошибке транспорта или статусе вне 2xx (кроме 409)
	ErrNetworkFailure = errors.New("workspace: network failure")

	// ErrConflict возвращается, когда даты пересекаются с другим бронированием
	ErrConflict = errors.New("workspace: booking dates conflict")

	// ErrValidation возвращается до отправки запроса, если не хватает данных
	ErrValidation = errors.New("workspace: validation failed")

	// ErrReadOnly возвращается при попытке изменить данные в публичном режиме
	ErrReadOnly = errors.New("workspace: read-only view")

	// ErrBusy возвращается, пока предыдущее изменение ещё выполняется
	ErrBusy = errors.New("workspace: another change is in progress")

	// ErrExternalBooking возвращается при попытке изменить даты или удалить внешнее бронирование
	ErrExternalBooking = errors.New("workspace: external bookings accept notes only")

	// ErrBookingNotFound возвращается, когда бронирования нет в загруженном снимке
	ErrBookingNotFound = errors.New("workspace: booking not found")
)

// ConflictError коллизия с конкретным бронированием.
// Даты бронирования могут быть пустыми, если сервер не сообщил диапазон.
type ConflictError struct {
	Booking domain.Booking
}

func (e *ConflictError) Error() string {
	if e.Booking.StartDate.IsZero() {
		return "booking dates conflict with an existing booking"
	}
	return fmt.Sprintf("booking dates conflict with %s - %s", e.Booking.StartDate, e.Booking.EndDate)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
