package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	createBooking "github.com/m04kA/SMC-ApartmentCalendar/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ApartmentID string  `json:"apartmentId" validate:"required"`
	StartDate   string  `json:"startDate" validate:"required"` // "2024-05-10"
	EndDate     string  `json:"endDate" validate:"required"`   // день выезда
	Note        *string `json:"note,omitempty"`
	CreatedBy   string  `json:"createdBy,omitempty" validate:"omitempty,max=255"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          string  `json:"id"`
	ApartmentID string  `json:"apartmentId"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Source      string  `json:"source"`
	Note        *string `json:"note,omitempty"`
	CreatedBy   string  `json:"createdBy"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// createdBy из тела имеет приоритет над subject токена.
func (r *CreateBookingRequest) ToUseCaseRequest(subject string) (*createBooking.Request, error) {
	start, err := types.ParseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	end, err := types.ParseDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	createdBy := r.CreatedBy
	if createdBy == "" {
		createdBy = subject
	}

	return &createBooking.Request{
		ApartmentID: r.ApartmentID,
		StartDate:   start,
		EndDate:     end,
		Note:        r.Note,
		CreatedBy:   createdBy,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		ApartmentID: resp.ApartmentID,
		StartDate:   resp.StartDate.String(),
		EndDate:     resp.EndDate.String(),
		Source:      string(domain.SourceManual),
		Note:        resp.Note,
		CreatedBy:   resp.CreatedBy,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
