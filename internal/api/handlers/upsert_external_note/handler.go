package upsert_external_note

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/middleware"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные заметки"
	msgApartmentNotFound  = "квартира не найдена"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/calendars/external-notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpsertExternalNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /external-notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	subject, _ := middleware.GetSubject(r.Context())

	result, err := h.service.UpsertExternalNote(r.Context(), req.ToServiceRequest(subject))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrApartmentNotFound):
			h.logger.Warn("PUT /external-notes - Apartment not found: apartment_id=%s", req.ApartmentID)
			handlers.RespondNotFound(w, msgApartmentNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PUT /external-notes - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /external-notes - Failed to save note: apartment_id=%s, external_id=%s, error=%v",
				req.ApartmentID, req.ExternalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /external-notes - Note saved: apartment_id=%s, external_id=%s", result.ApartmentID, result.ExternalID)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
