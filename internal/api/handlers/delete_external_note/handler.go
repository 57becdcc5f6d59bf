package delete_external_note

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный идентификатор внешнего бронирования"
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

// Handle DELETE /api/calendars/external-notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req DeleteExternalNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /external-notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.DeleteExternalNote(r.Context(), req.ApartmentID, req.ExternalID); err != nil {
		switch {
		case errors.Is(err, bookings.ErrApartmentNotFound):
			h.logger.Warn("DELETE /external-notes - Apartment not found: apartment_id=%s", req.ApartmentID)
			handlers.RespondNotFound(w, msgApartmentNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("DELETE /external-notes - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("DELETE /external-notes - Failed to delete note: apartment_id=%s, external_id=%s, error=%v",
				req.ApartmentID, req.ExternalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /external-notes - Note removed: apartment_id=%s, external_id=%s", req.ApartmentID, req.ExternalID)
	handlers.RespondNoContent(w)
}
