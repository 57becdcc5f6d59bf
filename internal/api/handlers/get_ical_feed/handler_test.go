package get_ical_feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/calendars"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) FeedText(ctx context.Context, apartmentKey string) ([]byte, error) {
	args := m.Called(ctx, apartmentKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/ical/"+key, nil)
	req = mux.SetURLVars(req, map[string]string{"apartmentKey": key})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_ProxiesFeed(t *testing.T) {
	svc := new(MockService)
	h := NewHandler(svc, nopLogger{})

	body := []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	svc.On("FeedText", mock.Anything, "apartment1").Return(body, nil)

	rec := serve(h, "apartment1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, body, rec.Body.Bytes())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "unknown apartment", svcErr: calendars.ErrApartmentNotFound, wantStatus: http.StatusNotFound},
		{name: "feed unavailable", svcErr: fmt.Errorf("%w: upstream 503", calendars.ErrFeedUnavailable), wantStatus: http.StatusBadGateway},
		{name: "internal", svcErr: calendars.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("FeedText", mock.Anything, "apartment1").Return(nil, tt.svcErr)
			h := NewHandler(svc, nopLogger{})

			rec := serve(h, "apartment1")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
