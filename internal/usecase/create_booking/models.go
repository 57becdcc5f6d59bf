package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ApartmentID string     // ID квартиры
	StartDate   types.Date // День заезда
	EndDate     types.Date // День выезда, входит в бронирование
	Note        *string    // Заметка (опционально)
	CreatedBy   string     // Кто создал
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          string
	ApartmentID string
	StartDate   types.Date
	EndDate     types.Date
	Note        *string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
