package get_ical_feed

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/calendars"
)

const (
	msgApartmentNotFound = "квартира не найдена"
	msgFeedUnavailable   = "внешний календарь недоступен"
)

type Handler struct {
	service CalendarsService
	logger  Logger
}

func NewHandler(service CalendarsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/ical/{apartmentKey}
// Отдаёт исходный iCal канала квартиры без изменений.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	apartmentKey := mux.Vars(r)["apartmentKey"]

	body, err := h.service.FeedText(r.Context(), apartmentKey)
	if err != nil {
		switch {
		case errors.Is(err, calendars.ErrApartmentNotFound):
			h.logger.Warn("GET /ical/%s - Apartment not found", apartmentKey)
			handlers.RespondNotFound(w, msgApartmentNotFound)

		case errors.Is(err, calendars.ErrFeedUnavailable):
			h.logger.Warn("GET /ical/%s - Feed unavailable: %v", apartmentKey, err)
			handlers.RespondError(w, http.StatusBadGateway, msgFeedUnavailable)

		default:
			h.logger.Error("GET /ical/%s - Failed to load feed: %v", apartmentKey, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
