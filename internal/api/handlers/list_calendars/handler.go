package list_calendars

import (
	"net/http"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/middleware"
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

// Handle GET /api/calendars
// Администратор получает заметки и внешние идентификаторы, остальные только занятость.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	private := middleware.IsAuthenticated(r.Context())

	snapshot, err := h.service.ListCalendars(r.Context(), private)
	if err != nil {
		h.logger.Error("GET /calendars - Failed to list calendars: private=%t, error=%v", private, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendars - Calendars listed: apartments=%d, private=%t", len(snapshot), private)
	handlers.RespondJSON(w, http.StatusOK, FromSnapshot(snapshot))
}
