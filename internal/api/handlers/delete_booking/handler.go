package delete_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный идентификатор бронирования"
	msgExternalBooking  = "бронирование из внешнего календаря нельзя удалить"
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

// Handle DELETE /api/calendars/bookings/{id}
// Повторное удаление тоже отвечает 204.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]

	if err := h.service.DeleteBooking(r.Context(), bookingID); err != nil {
		switch {
		case errors.Is(err, bookings.ErrExternalBooking):
			h.logger.Warn("DELETE /bookings/%s - External booking cannot be deleted", bookingID)
			handlers.RespondBadRequest(w, msgExternalBooking)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("DELETE /bookings/%s - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("DELETE /bookings/%s - Failed to delete booking: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/%s - Booking deleted", bookingID)
	handlers.RespondNoContent(w)
}
