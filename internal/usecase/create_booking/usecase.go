package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/calendar"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// UseCase use case для создания ручного бронирования
type UseCase struct {
	bookingRepo BookingRepository
	feeds       FeedProvider
	apartments  domain.Apartments
	txManager   TransactionManager
	recorder    ConflictRecorder
	logger      Logger
	newID       func() string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	feeds FeedProvider,
	apartments domain.Apartments,
	txManager TransactionManager,
	recorder ConflictRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		feeds:       feeds,
		apartments:  apartments,
		txManager:   txManager,
		recorder:    recorder,
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка идут в одной сериализуемой транзакции,
// поэтому два параллельных запроса на пересекающиеся даты не пройдут оба.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: apartment=%s, dates=%s..%s", req.ApartmentID, req.StartDate, req.EndDate)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Квартира должна быть в конфигурации
	apt, ok := uc.apartments.ByID(req.ApartmentID)
	if !ok {
		uc.logger.Warn("CreateBooking: apartment id=%s not found", req.ApartmentID)
		return nil, ErrApartmentNotFound
	}

	// 3. Внешние бронирования читаем до транзакции, канал не должен держать блокировки
	external := uc.feeds.Bookings(ctx, *apt)

	var result *domain.Booking

	// 4. Проверка пересечений и вставка
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		manual, err := uc.bookingRepo.ListByApartment(txCtx, apt.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list bookings for apartment=%s: %v", apt.ID, err)
			return fmt.Errorf("%w: failed to list bookings: %w", ErrInternal, err)
		}

		existing := make([]domain.Booking, 0, len(manual)+len(external))
		existing = append(existing, manual...)
		existing = append(existing, external...)

		if conflict := calendar.FindConflict(req.StartDate, req.EndDate, existing, ""); conflict != nil {
			uc.logger.Warn("CreateBooking: %s..%s conflicts with booking %s", req.StartDate, req.EndDate, conflict.ID)
			return &domain.ConflictError{Booking: *conflict}
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ID:          uc.newID(),
			ApartmentID: apt.ID,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Source:      domain.SourceManual,
			Note:        req.Note,
			CreatedBy:   req.CreatedBy,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrBookingConflict) {
			uc.recorder.ObserveConflict("create")
			return nil, err
		}
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created booking id=%s for apartment=%s", result.ID, apt.ID)
	return toResponse(result), nil
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:          b.ID,
		ApartmentID: b.ApartmentID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		Note:        b.Note,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
