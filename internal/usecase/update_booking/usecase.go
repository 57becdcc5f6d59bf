package update_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/calendar"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ApartmentCalendar/internal/infra/storage/booking"
)

// UseCase use case для изменения ручного бронирования
type UseCase struct {
	bookingRepo BookingRepository
	feeds       FeedProvider
	apartments  domain.Apartments
	txManager   TransactionManager
	recorder    ConflictRecorder
	logger      Logger
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
	}
}

// Execute применяет изменения. Пересечения проверяются только при смене дат,
// само бронирование при проверке не учитывается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: id=%s", req.BookingID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Квартиру бронирования узнаём до транзакции, чтобы прочитать канал без блокировок
	current, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	var external []domain.Booking
	if req.StartDate != nil || req.EndDate != nil {
		if apt, ok := uc.apartments.ByID(current.ApartmentID); ok {
			external = uc.feeds.Bookings(ctx, *apt)
		}
	}

	var result *domain.Booking

	// 3. Перечитываем под блокировкой, проверяем и обновляем
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		locked, err := uc.getBooking(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		patch := diff(locked, req)
		if patch.IsEmpty() {
			uc.logger.Info("UpdateBooking: id=%s nothing changed", req.BookingID)
			result = locked
			return nil
		}

		updated := patch.Apply(*locked)
		if updated.EndDate.Before(updated.StartDate) {
			return fmt.Errorf("%w: endDate %s is before startDate %s", ErrInvalidInput, updated.EndDate, updated.StartDate)
		}

		if patch.StartDate != nil || patch.EndDate != nil {
			manual, err := uc.bookingRepo.ListByApartment(txCtx, locked.ApartmentID)
			if err != nil {
				uc.logger.Error("UpdateBooking: failed to list bookings for apartment=%s: %v", locked.ApartmentID, err)
				return fmt.Errorf("%w: failed to list bookings: %w", ErrInternal, err)
			}

			existing := make([]domain.Booking, 0, len(manual)+len(external))
			existing = append(existing, manual...)
			existing = append(existing, external...)

			if conflict := calendar.FindConflict(updated.StartDate, updated.EndDate, existing, locked.ID); conflict != nil {
				uc.logger.Warn("UpdateBooking: id=%s %s..%s conflicts with booking %s",
					locked.ID, updated.StartDate, updated.EndDate, conflict.ID)
				return &domain.ConflictError{Booking: *conflict}
			}
		}

		saved, err := uc.bookingRepo.Update(txCtx, locked.ID, patch)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to update id=%s: %v", locked.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		result = saved
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingConflict):
			uc.recorder.ObserveConflict("update")
			return nil, err
		case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInternal):
			return nil, err
		default:
			uc.logger.Error("UpdateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("UpdateBooking: id=%s saved", result.ID)
	return toResponse(result), nil
}

func (uc *UseCase) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBooking: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}
	return b, nil
}

// diff оставляет в патче только поля, отличающиеся от текущего бронирования
func diff(current *domain.Booking, req *Request) domain.BookingPatch {
	var patch domain.BookingPatch
	if req.StartDate != nil && !req.StartDate.Equal(current.StartDate) {
		patch.StartDate = req.StartDate
	}
	if req.EndDate != nil && !req.EndDate.Equal(current.EndDate) {
		patch.EndDate = req.EndDate
	}
	if req.Note != nil && strings.TrimSpace(*req.Note) != current.NoteText() {
		patch.Note = req.Note
	}
	return patch
}

func validateRequest(req *Request) error {
	if strings.TrimSpace(req.BookingID) == "" {
		return fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if strings.HasPrefix(req.BookingID, domain.ExternalIDPrefix) {
		return ErrExternalBooking
	}
	if req.StartDate == nil && req.EndDate == nil && req.Note == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if (req.StartDate != nil && req.StartDate.IsZero()) || (req.EndDate != nil && req.EndDate.IsZero()) {
		return fmt.Errorf("%w: dates must not be empty", ErrInvalidInput)
	}
	if req.Note != nil && utf8.RuneCountInString(strings.TrimSpace(*req.Note)) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	return nil
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
