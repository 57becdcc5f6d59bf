package models

import (
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// UpsertExternalNoteRequest запрос на сохранение заметки к внешнему бронированию
type UpsertExternalNoteRequest struct {
	ApartmentID string
	ExternalID  string
	Note        string
	CreatedBy   string
}

// ToDomain конвертирует запрос в доменную заметку
func (r *UpsertExternalNoteRequest) ToDomain() *domain.ExternalNote {
	return &domain.ExternalNote{
		ApartmentID: r.ApartmentID,
		ExternalID:  r.ExternalID,
		Note:        r.Note,
		CreatedBy:   r.CreatedBy,
	}
}

// ExternalNoteResponse сохранённая заметка
type ExternalNoteResponse struct {
	ApartmentID string
	ExternalID  string
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FromDomainNote конвертирует доменную заметку в ответ
func FromDomainNote(n *domain.ExternalNote) *ExternalNoteResponse {
	return &ExternalNoteResponse{
		ApartmentID: n.ApartmentID,
		ExternalID:  n.ExternalID,
		Note:        n.Note,
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
