package calendarapi

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

var (
	// ErrTransport возвращается, когда запрос не дошёл до сервера или ответ не прочитан
	ErrTransport = errors.New("calendarapi client: transport error")

	// ErrInvalidResponse возвращается, когда тело ответа не удалось разобрать
	ErrInvalidResponse = errors.New("calendarapi client: invalid response")

	// ErrConflict возвращается при 409: даты пересекаются с существующим бронированием
	ErrConflict = errors.New("calendarapi client: booking dates conflict")

	// ErrUnauthorized возвращается при 401/403
	ErrUnauthorized = errors.New("calendarapi client: unauthorized")

	// ErrNotFound возвращается при 404
	ErrNotFound = errors.New("calendarapi client: not found")

	// ErrBadRequest возвращается при 400
	ErrBadRequest = errors.New("calendarapi client: bad request")

	// ErrUnexpectedStatus возвращается при любом другом статусе вне 2xx
	ErrUnexpectedStatus = errors.New("calendarapi client: unexpected status")
)

// ConflictError ответ 409 с диапазоном бронирования, с которым произошла коллизия.
// Диапазон может отсутствовать, если сервер его не прислал.
type ConflictError struct {
	BookingID string
	StartDate types.Date
	EndDate   types.Date
	Message   string
}

func (e *ConflictError) Error() string {
	if e.StartDate.IsZero() {
		return fmt.Sprintf("%v: %s", ErrConflict, e.Message)
	}
	return fmt.Sprintf("%v: collides with %s - %s", ErrConflict, e.StartDate, e.EndDate)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
