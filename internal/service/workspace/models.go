package workspace

import "github.com/m04kA/SMC-ApartmentCalendar/pkg/types"

// Capabilities что разрешено представлению.
// Публичный режим видит только занятость, админ - заметки и изменения.
type Capabilities struct {
	CanEdit   bool
	ShowNotes bool
}

// PublicCapabilities режим только для чтения
func PublicCapabilities() Capabilities {
	return Capabilities{}
}

// AdminCapabilities полный доступ
func AdminCapabilities() Capabilities {
	return Capabilities{CanEdit: true, ShowNotes: true}
}

// BookingInput данные формы бронирования
type BookingInput struct {
	ApartmentKey string
	StartDate    types.Date
	EndDate      types.Date
	Note         *string // nil - заметка не меняется, пустая строка очищает её
}
