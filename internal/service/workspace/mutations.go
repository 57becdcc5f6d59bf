package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/calendar"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/integrations/calendarapi"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/ptr"
)

// CreateBooking создает ручное бронирование.
// Даты можно передать в любом порядке.
func (s *Service) CreateBooking(ctx context.Context, in BookingInput) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	// 1. Валидация до сети
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	note := strings.TrimSpace(ptr.Deref(in.Note))
	if err := validateNote(note); err != nil {
		return err
	}

	s.mu.RLock()
	set, err := s.lookup(in.ApartmentKey)
	if err != nil {
		s.mu.RUnlock()
		return err
	}
	apartmentID := set.ApartmentID
	bookings := set.Bookings
	s.mu.RUnlock()

	start, end := calendar.NormalizeRange(in.StartDate, in.EndDate)

	// 2. Предварительная проверка пересечений, окончательно решает сервер
	if conflict := calendar.FindConflict(start, end, bookings, ""); conflict != nil {
		s.logger.Warn("Workspace: create %s %s..%s conflicts with booking %s", in.ApartmentKey, start, end, conflict.ID)
		return &ConflictError{Booking: *conflict}
	}

	req := &calendarapi.CreateBookingRequest{
		ApartmentID: apartmentID,
		StartDate:   start,
		EndDate:     end,
		CreatedBy:   s.createdBy,
	}
	if note != "" {
		req.Note = &note
	}

	// 3. Запрос и полная пересинхронизация
	if err := s.api.Create(ctx, req); err != nil {
		return s.mapAPIError("create", err)
	}
	s.logger.Info("Workspace: booking created for %s %s..%s", in.ApartmentKey, start, end)

	return s.refreshAfter(ctx, "create")
}

// UpdateBooking изменяет ручное бронирование.
// Отправляются только поля, отличающиеся от загруженного бронирования;
// если ничего не изменилось, запрос не выполняется.
func (s *Service) UpdateBooking(ctx context.Context, bookingID string, in BookingInput) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	s.mu.RLock()
	current, bookings, err := s.findBooking(bookingID)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if !current.CanEditDates() {
		return ErrExternalBooking
	}

	startIn, endIn := in.StartDate, in.EndDate
	if startIn.IsZero() {
		startIn = current.StartDate
	}
	if endIn.IsZero() {
		endIn = current.EndDate
	}
	start, end := calendar.NormalizeRange(startIn, endIn)

	// 1. Собираем разницу
	patch := &calendarapi.UpdateBookingRequest{}
	if !start.Equal(current.StartDate) {
		patch.StartDate = &start
	}
	if !end.Equal(current.EndDate) {
		patch.EndDate = &end
	}
	if in.Note != nil {
		note := strings.TrimSpace(*in.Note)
		if err := validateNote(note); err != nil {
			return err
		}
		if note != current.NoteText() {
			patch.Note = &note
		}
	}

	if patch.StartDate == nil && patch.EndDate == nil && patch.Note == nil {
		s.logger.Info("Workspace: booking %s unchanged, nothing to send", bookingID)
		return nil
	}

	// 2. Пересечения проверяем только при изменении дат, себя не учитываем
	if patch.StartDate != nil || patch.EndDate != nil {
		if conflict := calendar.FindConflict(start, end, bookings, bookingID); conflict != nil {
			s.logger.Warn("Workspace: update %s %s..%s conflicts with booking %s", bookingID, start, end, conflict.ID)
			return &ConflictError{Booking: *conflict}
		}
	}

	if err := s.api.Update(ctx, bookingID, patch); err != nil {
		return s.mapAPIError("update", err)
	}
	s.logger.Info("Workspace: booking %s updated", bookingID)

	return s.refreshAfter(ctx, "update")
}

// DeleteBooking удаляет ручное бронирование
func (s *Service) DeleteBooking(ctx context.Context, bookingID string) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	s.mu.RLock()
	current, _, err := s.findBooking(bookingID)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if current.IsExternal() {
		return ErrExternalBooking
	}

	if err := s.api.Delete(ctx, bookingID); err != nil {
		return s.mapAPIError("delete", err)
	}
	s.logger.Info("Workspace: booking %s deleted", bookingID)

	return s.refreshAfter(ctx, "delete")
}

// UpsertExternalNote сохраняет заметку к внешнему бронированию. Пустая заметка не принимается.
func (s *Service) UpsertExternalNote(ctx context.Context, apartmentKey, externalID, note string) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	note = strings.TrimSpace(note)
	if note == "" {
		return fmt.Errorf("%w: note is required", ErrValidation)
	}
	if err := validateNote(note); err != nil {
		return err
	}

	apartmentID, err := s.findExternal(apartmentKey, externalID)
	if err != nil {
		return err
	}

	req := &calendarapi.ExternalNoteRequest{
		ApartmentID: apartmentID,
		ExternalID:  externalID,
		Note:        &note,
		CreatedBy:   s.createdBy,
	}
	if err := s.api.UpsertExternalNote(ctx, req); err != nil {
		return s.mapAPIError("upsert note", err)
	}
	s.logger.Info("Workspace: note saved for external booking %s/%s", apartmentKey, externalID)

	return s.refreshAfter(ctx, "upsert note")
}

// DeleteExternalNote удаляет заметку. Само внешнее бронирование остаётся.
func (s *Service) DeleteExternalNote(ctx context.Context, apartmentKey, externalID string) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	apartmentID, err := s.findExternal(apartmentKey, externalID)
	if err != nil {
		return err
	}

	req := &calendarapi.ExternalNoteRequest{
		ApartmentID: apartmentID,
		ExternalID:  externalID,
	}
	if err := s.api.DeleteExternalNote(ctx, req); err != nil {
		return s.mapAPIError("delete note", err)
	}
	s.logger.Info("Workspace: note removed from external booking %s/%s", apartmentKey, externalID)

	return s.refreshAfter(ctx, "delete note")
}

// begin проверяет права и захватывает единственный слот изменения
func (s *Service) begin() (func(), error) {
	if !s.caps.CanEdit {
		return nil, ErrReadOnly
	}
	if !s.inFlight.TryLock() {
		return nil, ErrBusy
	}
	return s.inFlight.Unlock, nil
}

// findBooking ищет бронирование и все бронирования его квартиры. Вызывать под s.mu.
func (s *Service) findBooking(bookingID string) (domain.Booking, []domain.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return domain.Booking{}, nil, fmt.Errorf("%w: booking id is required", ErrValidation)
	}
	key, b := s.snapshot.FindBooking(bookingID)
	if b == nil {
		return domain.Booking{}, nil, fmt.Errorf("%w: id=%s", ErrBookingNotFound, bookingID)
	}
	return *b, s.snapshot[key].Bookings, nil
}

func (s *Service) findExternal(apartmentKey, externalID string) (string, error) {
	if strings.TrimSpace(externalID) == "" {
		return "", fmt.Errorf("%w: external id is required", ErrValidation)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	set, err := s.lookup(apartmentKey)
	if err != nil {
		return "", err
	}
	if set.FindExternal(externalID) == nil {
		return "", fmt.Errorf("%w: external id=%s", ErrBookingNotFound, externalID)
	}
	return set.ApartmentID, nil
}

// refreshAfter перечитывает снимок после успешного изменения
func (s *Service) refreshAfter(ctx context.Context, op string) error {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("Workspace: %s saved, but refresh failed: %v", op, err)
		return fmt.Errorf("%s saved, but the calendar could not be reloaded: %w", op, err)
	}
	return nil
}

// mapAPIError переводит ошибки клиента в таксономию рабочего пространства
func (s *Service) mapAPIError(op string, err error) error {
	var apiConflict *calendarapi.ConflictError
	if errors.As(err, &apiConflict) {
		s.logger.Warn("Workspace: %s rejected by server: %v", op, err)
		conflict := &ConflictError{Booking: domain.Booking{
			ID:        apiConflict.BookingID,
			StartDate: apiConflict.StartDate,
			EndDate:   apiConflict.EndDate,
		}}

		if apiConflict.BookingID != "" {
			s.mu.RLock()
			if _, known := s.snapshot.FindBooking(apiConflict.BookingID); known != nil {
				conflict.Booking = *known
			}
			s.mu.RUnlock()
		}
		return conflict
	}

	s.logger.Error("Workspace: %s failed: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrNetworkFailure, op, err)
}

func validateNote(note string) error {
	if utf8.RuneCountInString(note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note is longer than %d characters", ErrValidation, domain.MaxNoteLength)
	}
	return nil
}
