package update_booking

import (
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// Request частичное обновление. nil - поле не меняется, пустая заметка удаляет заметку.
type Request struct {
	BookingID string
	StartDate *types.Date
	EndDate   *types.Date
	Note      *string
}

// Response бронирование после обновления
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
