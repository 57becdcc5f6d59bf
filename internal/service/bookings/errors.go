package bookings

import "errors"

var (
	// ErrApartmentNotFound возвращается, когда квартира не настроена
	ErrApartmentNotFound = errors.New("apartment not found")

	// ErrExternalBooking возвращается при попытке удалить бронирование из iCal-канала
	ErrExternalBooking = errors.New("external bookings cannot be deleted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
