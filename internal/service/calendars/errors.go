package calendars

import "errors"

var (
	// ErrApartmentNotFound возвращается, когда квартира не настроена
	ErrApartmentNotFound = errors.New("calendars: apartment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("calendars: invalid input data")

	// ErrFeedUnavailable возвращается, когда у квартиры нет канала или его не удалось получить
	ErrFeedUnavailable = errors.New("calendars: feed unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendars: internal error")
)
