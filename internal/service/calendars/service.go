package calendars

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/calendar"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/feeds"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// maxParallelFeeds сколько каналов загружается одновременно
const maxParallelFeeds = 4

// Service чтение календарей квартир: ручные бронирования из БД плюс внешние из iCal-каналов
type Service struct {
	bookings   BookingRepository
	notes      NoteRepository
	feeds      FeedProvider
	apartments domain.Apartments
	logger     Logger
}

// NewService создает сервис календарей
func NewService(
	bookings BookingRepository,
	notes NoteRepository,
	feedProvider FeedProvider,
	apartments domain.Apartments,
	logger Logger,
) *Service {
	return &Service{
		bookings:   bookings,
		notes:      notes,
		feeds:      feedProvider,
		apartments: apartments,
		logger:     logger,
	}
}

// ListCalendars собирает снимок всех квартир.
// Каждая настроенная квартира присутствует в ответе, даже без бронирований.
// Без includePrivate заметки и внешние идентификаторы вырезаются.
func (s *Service) ListCalendars(ctx context.Context, includePrivate bool) (domain.Snapshot, error) {
	s.logger.Info("ListCalendars: apartments=%d, private=%t", len(s.apartments), includePrivate)

	// 1. Ручные бронирования одним запросом
	manual, err := s.bookings.ListAll(ctx)
	if err != nil {
		s.logger.Error("ListCalendars: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: ListCalendars - list bookings: %v", ErrInternal, err)
	}
	manualByApartment := make(map[string][]domain.Booking, len(s.apartments))
	for _, b := range manual {
		manualByApartment[b.ApartmentID] = append(manualByApartment[b.ApartmentID], b)
	}

	// 2. Заметки нужны только администратору
	var notes map[string]string
	if includePrivate {
		notes, err = s.loadNotes(ctx)
		if err != nil {
			return nil, err
		}
	}

	// 3. Каналы квартир параллельно, ошибка канала не прерывает сборку
	external := make([][]domain.Booking, len(s.apartments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFeeds)
	for i := range s.apartments {
		i := i
		g.Go(func() error {
			external[i] = s.feeds.Bookings(gctx, s.apartments[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: ListCalendars - load feeds: %v", ErrInternal, err)
	}

	// 4. Сборка снимка
	snapshot := make(domain.Snapshot, len(s.apartments))
	for i, apt := range s.apartments {
		bookings := make([]domain.Booking, 0, len(manualByApartment[apt.ID])+len(external[i]))
		bookings = append(bookings, manualByApartment[apt.ID]...)
		bookings = append(bookings, attachNotes(external[i], notes)...)
		sortBookings(bookings)

		if !includePrivate {
			for j := range bookings {
				bookings[j] = bookings[j].Public()
			}
		}

		snapshot[apt.Key] = &domain.ApartmentBookingSet{
			ApartmentID:   apt.ID,
			ApartmentName: apt.Name,
			Bookings:      bookings,
		}
	}

	s.logger.Info("ListCalendars: built snapshot for %d apartments", len(snapshot))
	return snapshot, nil
}

// MonthDays классифицирует дни месяца квартиры
func (s *Service) MonthDays(ctx context.Context, apartmentKey string, year int, month time.Month, includePrivate bool) ([]domain.DayStatus, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, fmt.Errorf("%w: invalid month %d-%d", ErrInvalidInput, year, month)
	}

	bookings, err := s.apartmentBookings(ctx, apartmentKey, includePrivate)
	if err != nil {
		return nil, err
	}
	if !includePrivate {
		for i := range bookings {
			bookings[i] = bookings[i].Public()
		}
	}

	return calendar.Classify(bookings, year, month), nil
}

// CheckConflict проверяет диапазон на пересечение с бронированиями квартиры.
// Даты можно передать в любом порядке; nil означает, что пересечений нет.
func (s *Service) CheckConflict(ctx context.Context, apartmentKey string, start, end types.Date, excludeBookingID string) (*domain.Booking, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	bookings, err := s.apartmentBookings(ctx, apartmentKey, false)
	if err != nil {
		return nil, err
	}

	conflict := calendar.FindConflict(start, end, bookings, strings.TrimSpace(excludeBookingID))
	if conflict == nil {
		return nil, nil
	}
	found := conflict.Public()
	return &found, nil
}

// FeedText возвращает исходный iCal квартиры
func (s *Service) FeedText(ctx context.Context, apartmentKey string) ([]byte, error) {
	body, err := s.feeds.Raw(ctx, apartmentKey)
	if err != nil {
		switch {
		case errors.Is(err, feeds.ErrApartmentNotFound):
			return nil, ErrApartmentNotFound
		case errors.Is(err, feeds.ErrNoFeed), errors.Is(err, feeds.ErrFeedUnavailable):
			return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
		default:
			return nil, fmt.Errorf("%w: FeedText: %v", ErrInternal, err)
		}
	}
	return body, nil
}

// apartmentBookings ручные и внешние бронирования одной квартиры, упорядоченные по заезду.
// С withNotes внешние бронирования получают заметки администратора.
func (s *Service) apartmentBookings(ctx context.Context, apartmentKey string, withNotes bool) ([]domain.Booking, error) {
	apt, ok := s.apartments.ByKey(apartmentKey)
	if !ok {
		s.logger.Warn("Calendars: apartment key=%s not found", apartmentKey)
		return nil, ErrApartmentNotFound
	}

	manual, err := s.bookings.ListByApartment(ctx, apt.ID)
	if err != nil {
		s.logger.Error("Calendars: failed to list bookings for apartment=%s: %v", apt.ID, err)
		return nil, fmt.Errorf("%w: list bookings: %v", ErrInternal, err)
	}

	external := s.feeds.Bookings(ctx, *apt)
	if withNotes {
		notes, err := s.loadNotes(ctx)
		if err != nil {
			return nil, err
		}
		external = attachNotes(external, notes)
	}

	bookings := append(manual, external...)
	sortBookings(bookings)
	return bookings, nil
}

func (s *Service) loadNotes(ctx context.Context) (map[string]string, error) {
	list, err := s.notes.ListAll(ctx)
	if err != nil {
		s.logger.Error("Calendars: failed to list external notes: %v", err)
		return nil, fmt.Errorf("%w: list notes: %v", ErrInternal, err)
	}

	notes := make(map[string]string, len(list))
	for _, n := range list {
		ext := n.ExternalID
		notes[noteKey(n.ApartmentID, &ext)] = n.Note
	}
	return notes, nil
}

// attachNotes проставляет заметки внешним бронированиям, входной срез не меняется
func attachNotes(external []domain.Booking, notes map[string]string) []domain.Booking {
	out := make([]domain.Booking, 0, len(external))
	for _, b := range external {
		if note, ok := notes[noteKey(b.ApartmentID, b.ExternalID)]; ok {
			text := note
			b.Note = &text
		}
		out = append(out, b)
	}
	return out
}

func noteKey(apartmentID string, externalID *string) string {
	if externalID == nil {
		return ""
	}
	return apartmentID + "\x00" + *externalID
}

func sortBookings(bookings []domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].StartDate.Equal(bookings[j].StartDate) {
			return bookings[i].StartDate.Before(bookings[j].StartDate)
		}
		return bookings[i].ID < bookings[j].ID
	})
}
