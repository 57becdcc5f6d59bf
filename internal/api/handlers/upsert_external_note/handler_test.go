package upsert_external_note

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/middleware"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpsertExternalNote(ctx context.Context, req *models.UpsertExternalNoteRequest) (*models.ExternalNoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExternalNoteResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(ctx context.Context, h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/calendars/external-notes", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Saved(t *testing.T) {
	svc := new(MockService)
	h := NewHandler(svc, nopLogger{})

	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	svc.On("UpsertExternalNote", mock.Anything, &models.UpsertExternalNoteRequest{
		ApartmentID: "apt-1",
		ExternalID:  "abc@airbnb.com",
		Note:        "late arrival",
		CreatedBy:   "admin-7",
	}).Return(&models.ExternalNoteResponse{
		ApartmentID: "apt-1",
		ExternalID:  "abc@airbnb.com",
		Note:        "late arrival",
		CreatedBy:   "admin-7",
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil)

	ctx := middleware.WithSubject(context.Background(), "admin-7")
	rec := serve(ctx, h, `{"apartmentId":"apt-1","externalId":"abc@airbnb.com","note":"late arrival"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"apartmentId": "apt-1",
		"externalId": "abc@airbnb.com",
		"note": "late arrival",
		"createdBy": "admin-7",
		"createdAt": "2024-05-01T09:30:00Z",
		"updatedAt": "2024-05-01T09:30:00Z"
	}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{name: "missing note", body: `{"apartmentId":"apt-1","externalId":"abc"}`, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{name: "apartment not found", body: `{"apartmentId":"x","externalId":"abc","note":"n"}`,
			svcErr: fmt.Errorf("%w: id=x", bookings.ErrApartmentNotFound), wantStatus: http.StatusNotFound, wantMsg: msgApartmentNotFound},
		{name: "blank note", body: `{"apartmentId":"apt-1","externalId":"abc","note":"  "}`,
			svcErr: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidInput},
		{name: "internal", body: `{"apartmentId":"apt-1","externalId":"abc","note":"n"}`,
			svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.svcErr != nil {
				svc.On("UpsertExternalNote", mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}
			h := NewHandler(svc, nopLogger{})

			rec := serve(context.Background(), h, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
		})
	}
}
