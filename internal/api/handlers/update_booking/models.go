package update_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	updateBooking "github.com/m04kA/SMC-ApartmentCalendar/internal/usecase/update_booking"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// UpdateBookingRequest частичное обновление, отсутствующее поле не меняется
type UpdateBookingRequest struct {
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	Note      *string `json:"note,omitempty"`
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

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID string) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		BookingID: bookingID,
		Note:      r.Note,
	}

	if r.StartDate != nil {
		start, err := types.ParseDate(*r.StartDate)
		if err != nil {
			return nil, fmt.Errorf("startDate: %w", err)
		}
		req.StartDate = &start
	}
	if r.EndDate != nil {
		end, err := types.ParseDate(*r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("endDate: %w", err)
		}
		req.EndDate = &end
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
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
