package upsert_external_note

import (
	"context"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings/models"
)

type BookingsService interface {
	UpsertExternalNote(ctx context.Context, req *models.UpsertExternalNoteRequest) (*models.ExternalNoteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
