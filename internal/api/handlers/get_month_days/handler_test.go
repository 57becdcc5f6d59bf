package get_month_days

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/calendars"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) MonthDays(ctx context.Context, apartmentKey string, year int, month time.Month, includePrivate bool) ([]domain.DayStatus, error) {
	args := m.Called(ctx, apartmentKey, year, month, includePrivate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DayStatus), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newHandler(svc *MockService) *Handler {
	h := NewHandler(svc, nopLogger{})
	h.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return h
}

func serve(h *Handler, key, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/apartments/"+key+"/days?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"apartmentKey": key})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_ClassifiedDays(t *testing.T) {
	svc := new(MockService)
	h := newHandler(svc)

	b := domain.Booking{
		ID:        "b1",
		StartDate: types.MustParseDate("2024-05-10"),
		EndDate:   types.MustParseDate("2024-05-15"),
		Source:    domain.SourceManual,
	}
	svc.On("MonthDays", mock.Anything, "apartment1", 2024, time.May, false).Return([]domain.DayStatus{
		{Date: types.MustParseDate("2024-05-09")},
		{Date: types.MustParseDate("2024-05-10"), IsCheckIn: true, Bookings: []domain.Booking{b}},
		{Date: types.MustParseDate("2024-05-11"), IsOccupied: true, Bookings: []domain.Booking{b}},
	}, nil)

	rec := serve(h, "apartment1", "year=2024&month=5")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"apartmentKey": "apartment1",
		"year": 2024,
		"month": 5,
		"days": [
			{"date": "2024-05-09", "type": "free", "isCheckIn": false, "isCheckOut": false, "isOccupied": false, "bookings": []},
			{"date": "2024-05-10", "type": "checkin", "isCheckIn": true, "isCheckOut": false, "isOccupied": false,
			 "bookings": [{"id": "b1", "startDate": "2024-05-10", "endDate": "2024-05-15", "source": "manual"}]},
			{"date": "2024-05-11", "type": "occupied", "isCheckIn": false, "isCheckOut": false, "isOccupied": true,
			 "bookings": [{"id": "b1", "startDate": "2024-05-10", "endDate": "2024-05-15", "source": "manual"}]}
		]
	}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandle_DefaultsToCurrentMonth(t *testing.T) {
	svc := new(MockService)
	h := newHandler(svc)

	svc.On("MonthDays", mock.Anything, "apartment1", 2024, time.June, false).Return([]domain.DayStatus{}, nil)

	rec := serve(h, "apartment1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{name: "month out of range", query: "year=2024&month=13", wantStatus: http.StatusBadRequest, wantMsg: msgInvalidMonth},
		{name: "year not a number", query: "year=abc&month=1", wantStatus: http.StatusBadRequest, wantMsg: msgInvalidYear},
		{name: "unknown apartment", query: "year=2024&month=1", svcErr: calendars.ErrApartmentNotFound, wantStatus: http.StatusNotFound, wantMsg: msgApartmentNotFound},
		{name: "internal", query: "year=2024&month=1", svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.svcErr != nil {
				svc.On("MonthDays", mock.Anything, "apartment1", 2024, time.January, false).Return(nil, tt.svcErr)
			}
			h := newHandler(svc)

			rec := serve(h, "apartment1", tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	year, month, err := parseMonth(url.Values{"month": {"12"}}, now)
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.December, month)

	_, _, err = parseMonth(url.Values{"month": {"0"}}, now)
	assert.ErrorIs(t, err, errInvalidMonth)
}
