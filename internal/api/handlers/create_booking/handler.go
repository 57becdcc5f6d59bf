package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/middleware"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	createBooking "github.com/m04kA/SMC-ApartmentCalendar/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные бронирования"
	msgApartmentNotFound  = "квартира не найдена"
	msgDatesConflict      = "даты пересекаются с существующим бронированием"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/calendars/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	subject, _ := middleware.GetSubject(r.Context())

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest(subject)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *domain.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /bookings - Dates conflict: apartment_id=%s, %s..%s with booking_id=%s",
				req.ApartmentID, req.StartDate, req.EndDate, conflict.Booking.ID)
			handlers.RespondConflict(w, msgDatesConflict, conflict.Booking)

		case errors.Is(err, createBooking.ErrApartmentNotFound):
			h.logger.Warn("POST /bookings - Apartment not found: apartment_id=%s", req.ApartmentID)
			handlers.RespondNotFound(w, msgApartmentNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: apartment_id=%s, error=%v", req.ApartmentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: apartment_id=%s, error=%v", req.ApartmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, apartment_id=%s",
		result.ID, result.ApartmentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
