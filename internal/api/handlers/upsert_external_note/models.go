package upsert_external_note

import (
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings/models"
)

// UpsertExternalNoteRequest HTTP request model
type UpsertExternalNoteRequest struct {
	ApartmentID string `json:"apartmentId" validate:"required"`
	ExternalID  string `json:"externalId" validate:"required"`
	Note        string `json:"note" validate:"required"`
	CreatedBy   string `json:"createdBy,omitempty" validate:"omitempty,max=255"`
}

// ExternalNoteResponse HTTP response model
type ExternalNoteResponse struct {
	ApartmentID string `json:"apartmentId"`
	ExternalID  string `json:"externalId"`
	Note        string `json:"note"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertExternalNoteRequest) ToServiceRequest(subject string) *models.UpsertExternalNoteRequest {
	createdBy := r.CreatedBy
	if createdBy == "" {
		createdBy = subject
	}
	return &models.UpsertExternalNoteRequest{
		ApartmentID: r.ApartmentID,
		ExternalID:  r.ExternalID,
		Note:        r.Note,
		CreatedBy:   createdBy,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.ExternalNoteResponse) *ExternalNoteResponse {
	return &ExternalNoteResponse{
		ApartmentID: resp.ApartmentID,
		ExternalID:  resp.ExternalID,
		Note:        resp.Note,
		CreatedBy:   resp.CreatedBy,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
