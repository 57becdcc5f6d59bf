package get_month_days

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/middleware"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/calendars"
)

const (
	msgInvalidYear       = "некорректный год, ожидается число от 1 до 9999"
	msgInvalidMonth      = "некорректный месяц, ожидается число от 1 до 12"
	msgApartmentNotFound = "квартира не найдена"
	msgInvalidRequest    = "некорректный запрос"
)

type Handler struct {
	service CalendarsService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service CalendarsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/apartments/{apartmentKey}/days?year=2024&month=5
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	apartmentKey := mux.Vars(r)["apartmentKey"]

	year, month, err := parseMonth(r.URL.Query(), h.now().UTC())
	if err != nil {
		h.logger.Warn("GET /apartments/%s/days - Invalid query: %v", apartmentKey, err)
		if errors.Is(err, errInvalidYear) {
			handlers.RespondBadRequest(w, msgInvalidYear)
		} else {
			handlers.RespondBadRequest(w, msgInvalidMonth)
		}
		return
	}

	private := middleware.IsAuthenticated(r.Context())

	days, err := h.service.MonthDays(r.Context(), apartmentKey, year, month, private)
	if err != nil {
		switch {
		case errors.Is(err, calendars.ErrApartmentNotFound):
			h.logger.Warn("GET /apartments/%s/days - Apartment not found", apartmentKey)
			handlers.RespondNotFound(w, msgApartmentNotFound)

		case errors.Is(err, calendars.ErrInvalidInput):
			h.logger.Warn("GET /apartments/%s/days - Invalid input: %v", apartmentKey, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /apartments/%s/days - Failed to classify month %d-%02d: %v", apartmentKey, year, month, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainDays(apartmentKey, year, month, days))
}
