package create_booking

import "errors"

var (
	// ErrApartmentNotFound возвращается, когда квартира не настроена
	ErrApartmentNotFound = errors.New("create_booking: apartment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
