package check_conflict

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/calendars"
)

const (
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDatesRequired     = "необходимо указать startDate и endDate"
	msgApartmentNotFound = "квартира не найдена"
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

// Handle GET /api/v1/apartments/{apartmentKey}/conflicts?startDate=&endDate=&excludeBookingId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	apartmentKey := mux.Vars(r)["apartmentKey"]

	query, err := parseQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /apartments/%s/conflicts - Invalid dates: %v", apartmentKey, err)
		if errors.Is(err, errDatesRequired) {
			handlers.RespondBadRequest(w, msgDatesRequired)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	conflict, err := h.service.CheckConflict(r.Context(), apartmentKey, query.StartDate, query.EndDate, query.ExcludeBookingID)
	if err != nil {
		switch {
		case errors.Is(err, calendars.ErrApartmentNotFound):
			h.logger.Warn("GET /apartments/%s/conflicts - Apartment not found", apartmentKey)
			handlers.RespondNotFound(w, msgApartmentNotFound)

		case errors.Is(err, calendars.ErrInvalidInput):
			h.logger.Warn("GET /apartments/%s/conflicts - Invalid input: %v", apartmentKey, err)
			handlers.RespondBadRequest(w, msgDatesRequired)

		default:
			h.logger.Error("GET /apartments/%s/conflicts - Failed to check %s..%s: %v",
				apartmentKey, query.StartDate, query.EndDate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainConflict(conflict))
}
