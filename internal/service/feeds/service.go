package feeds

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/infra/feed"
)

// Значения метки result для метрики загрузки каналов
const (
	ResultOK          = "ok"
	ResultCached      = "cached"
	ResultFetchFailed = "fetch_failed"
	ResultParseFailed = "parse_failed"
)

// Config окно разворачивания повторяющихся событий в днях
type Config struct {
	PastDays   int
	FutureDays int
}

// Service отдаёт внешние бронирования квартир из их iCal-каналов.
// Ошибка канала одной квартиры никогда не становится ошибкой запроса:
// используется последний успешно разобранный список, а если его нет - пустой.
type Service struct {
	fetcher    Fetcher
	apartments domain.Apartments
	cfg        Config
	recorder   Recorder
	logger     Logger
	now        func() time.Time

	mu       sync.RWMutex
	lastGood map[string][]domain.Booking
}

// NewService создает сервис каналов
func NewService(fetcher Fetcher, apartments domain.Apartments, cfg Config, recorder Recorder, logger Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		apartments: apartments,
		cfg:        cfg,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
		lastGood:   make(map[string][]domain.Booking),
	}
}

// Raw возвращает исходный текст канала квартиры без разбора
func (s *Service) Raw(ctx context.Context, apartmentKey string) ([]byte, error) {
	apt, ok := s.apartments.ByKey(apartmentKey)
	if !ok {
		return nil, fmt.Errorf("%w: key=%s", ErrApartmentNotFound, apartmentKey)
	}
	if !apt.HasFeed() {
		return nil, fmt.Errorf("%w: key=%s", ErrNoFeed, apartmentKey)
	}

	res, err := s.fetcher.Fetch(ctx, apt.FeedURL)
	if err != nil {
		s.recorder.ObserveFeedFetch(apt.Key, ResultFetchFailed)
		s.logger.Error("Feeds.Raw: %s unavailable: %v", apt.Key, err)
		return nil, fmt.Errorf("%w: key=%s: %v", ErrFeedUnavailable, apartmentKey, err)
	}
	s.recorder.ObserveFeedFetch(apt.Key, resultLabel(res))
	return res.Body, nil
}

// Bookings возвращает внешние бронирования квартиры. Всегда не nil.
func (s *Service) Bookings(ctx context.Context, apt domain.Apartment) []domain.Booking {
	if !apt.HasFeed() {
		return []domain.Booking{}
	}

	res, err := s.fetcher.Fetch(ctx, apt.FeedURL)
	if err != nil {
		s.recorder.ObserveFeedFetch(apt.Key, ResultFetchFailed)
		s.logger.Error("Feeds: %s fetch failed, using last good bookings: %v", apt.Key, err)
		return s.fallback(apt.Key)
	}

	return s.parse(apt, res)
}

// RefreshAll принудительно перезапрашивает все каналы. Используется фоновым обновлением.
func (s *Service) RefreshAll(ctx context.Context) {
	for _, apt := range s.apartments {
		if !apt.HasFeed() {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		res, err := s.fetcher.Refresh(ctx, apt.FeedURL)
		if err != nil {
			s.recorder.ObserveFeedFetch(apt.Key, ResultFetchFailed)
			s.logger.Warn("Feeds.RefreshAll: %s: %v", apt.Key, err)
			continue
		}
		bookings := s.parse(apt, res)
		s.logger.Info("Feeds.RefreshAll: %s refreshed, %d bookings", apt.Key, len(bookings))
	}
}

func (s *Service) parse(apt domain.Apartment, res feed.FetchResult) []domain.Booking {
	bookings, skipped, err := feed.Parse(apt.ID, res.Body, feed.NewWindow(s.now(), s.cfg.PastDays, s.cfg.FutureDays))
	if err != nil {
		s.recorder.ObserveFeedFetch(apt.Key, ResultParseFailed)
		if errors.Is(err, feed.ErrParse) {
			s.logger.Error("Feeds: %s feed is malformed, no external bookings: %v", apt.Key, err)
		} else {
			s.logger.Error("Feeds: %s parse failed, no external bookings: %v", apt.Key, err)
		}

		// Разобранный ранее список больше не соответствует каналу
		s.mu.Lock()
		delete(s.lastGood, apt.Key)
		s.mu.Unlock()
		return []domain.Booking{}
	}
	if skipped > 0 {
		s.logger.Warn("Feeds: %s skipped %d malformed events", apt.Key, skipped)
	}

	s.mu.Lock()
	s.lastGood[apt.Key] = bookings
	s.mu.Unlock()

	s.recorder.ObserveFeedFetch(apt.Key, resultLabel(res))
	return copyBookings(bookings)
}

// fallback последний успешно разобранный список квартиры или пустой.
// Используется только при ошибке загрузки канала.
func (s *Service) fallback(key string) []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyBookings(s.lastGood[key])
}

func copyBookings(in []domain.Booking) []domain.Booking {
	out := make([]domain.Booking, len(in))
	copy(out, in)
	return out
}

func resultLabel(res feed.FetchResult) string {
	if res.FromCache {
		return ResultCached
	}
	return ResultOK
}
