package delete_external_note

import "context"

type BookingsService interface {
	DeleteExternalNote(ctx context.Context, apartmentID, externalID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
