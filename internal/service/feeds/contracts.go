package feeds

import (
	"context"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/infra/feed"
)

// Fetcher загрузчик iCal-каналов
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (feed.FetchResult, error)
	Refresh(ctx context.Context, feedURL string) (feed.FetchResult, error)
}

// Recorder метрики загрузки каналов
type Recorder interface {
	ObserveFeedFetch(apartment, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
