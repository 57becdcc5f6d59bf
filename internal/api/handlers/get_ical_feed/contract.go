package get_ical_feed

import "context"

type CalendarsService interface {
	FeedText(ctx context.Context, apartmentKey string) ([]byte, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
