package workspace

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/calendar"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

// Service рабочее пространство календаря на стороне клиента.
// Владеет последним снимком бронирований и заменяет его целиком после каждого изменения.
type Service struct {
	api       CalendarAPI
	caps      Capabilities
	createdBy string
	logger    Logger

	// issued номер последнего отправленного запроса списка
	issued atomic.Uint64

	mu       sync.RWMutex
	snapshot domain.Snapshot
	applied  uint64

	// inFlight не даёт запустить второе изменение, пока первое не завершилось
	inFlight sync.Mutex
}

// NewService создает рабочее пространство. createdBy пишется в новые бронирования и заметки.
func NewService(api CalendarAPI, caps Capabilities, createdBy string, logger Logger) *Service {
	if createdBy == "" {
		createdBy = domain.DefaultCreatedBy
	}
	return &Service{
		api:       api,
		caps:      caps,
		createdBy: createdBy,
		logger:    logger,
	}
}

// Capabilities возвращает возможности представления
func (s *Service) Capabilities() Capabilities {
	return s.caps
}

// Refresh загружает полный снимок.
// Ответ применяется, только если за время запроса не был отправлен более новый;
// устаревший ответ отбрасывается без ошибки.
func (s *Service) Refresh(ctx context.Context) error {
	seq := s.issued.Add(1)

	snapshot, err := s.api.List(ctx)
	if err != nil {
		s.logger.Error("Workspace: refresh seq=%d failed: %v", seq, err)
		return fmt.Errorf("%w: refresh: %v", ErrNetworkFailure, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if latest := s.issued.Load(); seq != latest {
		s.logger.Info("Workspace: discarding stale snapshot seq=%d, latest=%d", seq, latest)
		return nil
	}

	s.snapshot = snapshot
	s.applied = seq
	s.logger.Info("Workspace: snapshot seq=%d applied, apartments=%d", seq, len(snapshot))
	return nil
}

// Loaded сообщает, применён ли хотя бы один снимок
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// Snapshot возвращает копию всего снимка с учётом возможностей представления.
// До первой успешной загрузки возвращает nil.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil
	}
	out := make(domain.Snapshot, len(s.snapshot))
	for key, set := range s.snapshot {
		out[key] = s.view(set)
	}
	return out
}

// ApartmentKeys возвращает ключи квартир в алфавитном порядке
func (s *Service) ApartmentKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.snapshot))
	for key := range s.snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Apartment возвращает копию набора бронирований квартиры с учётом возможностей представления
func (s *Service) Apartment(key string) (*domain.ApartmentBookingSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	return s.view(set), nil
}

// DayStatuses классифицирует дни месяца для квартиры.
// Результат вычисляется заново при каждом вызове.
func (s *Service) DayStatuses(key string, year int, month time.Month) ([]domain.DayStatus, error) {
	set, err := s.Apartment(key)
	if err != nil {
		return nil, err
	}
	return calendar.Classify(set.Bookings, year, month), nil
}

// CheckConflict проверяет диапазон на пересечение с бронированиями квартиры.
// В отличие от calendar.FindConflict, неполные данные дают ErrValidation, а не nil.
func (s *Service) CheckConflict(key string, start, end types.Date, excludeBookingID string) (*domain.Booking, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}

	set, err := s.Apartment(key)
	if err != nil {
		return nil, err
	}

	conflict := calendar.FindConflict(start, end, set.Bookings, excludeBookingID)
	if conflict == nil {
		return nil, nil
	}
	found := *conflict
	return &found, nil
}

// lookup ищет квартиру по ключу. Вызывать под s.mu.
func (s *Service) lookup(key string) (*domain.ApartmentBookingSet, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: apartment is required", ErrValidation)
	}
	if s.snapshot == nil {
		return nil, fmt.Errorf("%w: calendar is not loaded", ErrValidation)
	}
	set, ok := s.snapshot[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown apartment %q", ErrValidation, key)
	}
	return set, nil
}

// view копирует набор, в публичном режиме оставляя только занятость
func (s *Service) view(set *domain.ApartmentBookingSet) *domain.ApartmentBookingSet {
	out := &domain.ApartmentBookingSet{
		ApartmentID:   set.ApartmentID,
		ApartmentName: set.ApartmentName,
		Bookings:      make([]domain.Booking, 0, len(set.Bookings)),
	}
	for _, b := range set.Bookings {
		if !s.caps.ShowNotes {
			b = b.Public()
		}
		out.Bookings = append(out.Bookings, b)
	}
	return out
}
