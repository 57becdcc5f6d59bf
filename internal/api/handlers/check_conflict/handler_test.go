package check_conflict

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/calendars"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CheckConflict(ctx context.Context, apartmentKey string, start, end types.Date, excludeBookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, apartmentKey, start, end, excludeBookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/apartments/apartment1/conflicts?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"apartmentKey": "apartment1"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_NoConflict(t *testing.T) {
	svc := new(MockService)
	h := NewHandler(svc, nopLogger{})

	svc.On("CheckConflict", mock.Anything, "apartment1",
		types.MustParseDate("2024-06-01"), types.MustParseDate("2024-06-05"), "").Return(nil, nil)

	rec := serve(h, "startDate=2024-06-01&endDate=2024-06-05")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hasConflict": false, "conflict": null}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandle_Conflict(t *testing.T) {
	svc := new(MockService)
	h := NewHandler(svc, nopLogger{})

	svc.On("CheckConflict", mock.Anything, "apartment1",
		types.MustParseDate("2024-05-12"), types.MustParseDate("2024-05-20"), "b1").Return(&domain.Booking{
		ID:        "b2",
		StartDate: types.MustParseDate("2024-05-15"),
		EndDate:   types.MustParseDate("2024-05-18"),
		Source:    domain.SourceManual,
	}, nil)

	rec := serve(h, "startDate=2024-05-12&endDate=2024-05-20&excludeBookingId=b1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"hasConflict": true,
		"conflict": {"id": "b2", "startDate": "2024-05-15", "endDate": "2024-05-18", "source": "manual"}
	}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{name: "missing end", query: "startDate=2024-05-12", wantStatus: http.StatusBadRequest, wantMsg: msgDatesRequired},
		{name: "bad format", query: "startDate=12/05/2024&endDate=2024-05-20", wantStatus: http.StatusBadRequest, wantMsg: msgInvalidDate},
		{name: "unknown apartment", query: "startDate=2024-05-12&endDate=2024-05-20", svcErr: calendars.ErrApartmentNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", query: "startDate=2024-05-12&endDate=2024-05-20", svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.svcErr != nil {
				svc.On("CheckConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}
			h := NewHandler(svc, nopLogger{})

			rec := serve(h, tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
		})
	}
}
