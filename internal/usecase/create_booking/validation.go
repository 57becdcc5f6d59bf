package create_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// validateRequest проверяет обязательные поля и нормализует заметку
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ApartmentID) == "" {
		return fmt.Errorf("%w: apartmentId is required", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate %s is before startDate %s", ErrInvalidInput, req.EndDate, req.StartDate)
	}

	if req.Note != nil {
		note := strings.TrimSpace(*req.Note)
		if utf8.RuneCountInString(note) > domain.MaxNoteLength {
			return fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNoteLength)
		}
		if note == "" {
			req.Note = nil
		} else {
			req.Note = &note
		}
	}

	if strings.TrimSpace(req.CreatedBy) == "" {
		req.CreatedBy = domain.DefaultCreatedBy
	}
	return nil
}
