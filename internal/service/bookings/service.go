package bookings

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings/models"
)

// Service удаление бронирований и заметки к внешним бронированиям
type Service struct {
	bookingRepo BookingRepository
	noteRepo    NoteRepository
	apartments  domain.Apartments
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	noteRepo NoteRepository,
	apartments domain.Apartments,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		noteRepo:    noteRepo,
		apartments:  apartments,
		logger:      logger,
	}
}

// DeleteBooking удаляет ручное бронирование.
// Повторное удаление не ошибка: результат тот же, бронирования нет.
func (s *Service) DeleteBooking(ctx context.Context, id string) error {
	s.logger.Info("DeleteBooking: id=%s", id)

	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if strings.HasPrefix(id, domain.ExternalIDPrefix) {
		s.logger.Warn("DeleteBooking: id=%s is an external booking", id)
		return ErrExternalBooking
	}

	deleted, err := s.bookingRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("DeleteBooking: repository error for id=%s: %v", id, err)
		return fmt.Errorf("%w: DeleteBooking - repository error: %v", ErrInternal, err)
	}

	if !deleted {
		s.logger.Info("DeleteBooking: id=%s was already absent", id)
		return nil
	}
	s.logger.Info("DeleteBooking: id=%s deleted", id)
	return nil
}

// UpsertExternalNote сохраняет заметку к внешнему бронированию
func (s *Service) UpsertExternalNote(ctx context.Context, req *models.UpsertExternalNoteRequest) (*models.ExternalNoteResponse, error) {
	s.logger.Info("UpsertExternalNote: apartment=%s, externalId=%s", req.ApartmentID, req.ExternalID)

	if err := s.validateNoteTarget(req.ApartmentID, req.ExternalID); err != nil {
		s.logger.Warn("UpsertExternalNote: %v", err)
		return nil, err
	}

	req.Note = strings.TrimSpace(req.Note)
	if req.Note == "" {
		return nil, fmt.Errorf("%w: note is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Note) > domain.MaxNoteLength {
		return nil, fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		req.CreatedBy = domain.DefaultCreatedBy
	}

	saved, err := s.noteRepo.Upsert(ctx, req.ToDomain())
	if err != nil {
		s.logger.Error("UpsertExternalNote: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpsertExternalNote - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertExternalNote: saved note for %s/%s", req.ApartmentID, req.ExternalID)
	return models.FromDomainNote(saved), nil
}

// DeleteExternalNote удаляет заметку. Само внешнее бронирование не затрагивается.
func (s *Service) DeleteExternalNote(ctx context.Context, apartmentID, externalID string) error {
	s.logger.Info("DeleteExternalNote: apartment=%s, externalId=%s", apartmentID, externalID)

	if err := s.validateNoteTarget(apartmentID, externalID); err != nil {
		s.logger.Warn("DeleteExternalNote: %v", err)
		return err
	}

	deleted, err := s.noteRepo.Delete(ctx, apartmentID, externalID)
	if err != nil {
		s.logger.Error("DeleteExternalNote: repository error: %v", err)
		return fmt.Errorf("%w: DeleteExternalNote - repository error: %v", ErrInternal, err)
	}

	if !deleted {
		s.logger.Info("DeleteExternalNote: %s/%s had no note", apartmentID, externalID)
	}
	return nil
}

func (s *Service) validateNoteTarget(apartmentID, externalID string) error {
	if strings.TrimSpace(apartmentID) == "" || strings.TrimSpace(externalID) == "" {
		return fmt.Errorf("%w: apartmentId and externalId are required", ErrInvalidInput)
	}
	if len(externalID) > domain.MaxExternalIDLength {
		return fmt.Errorf("%w: externalId is longer than %d characters", ErrInvalidInput, domain.MaxExternalIDLength)
	}
	if _, ok := s.apartments.ByID(apartmentID); !ok {
		return fmt.Errorf("%w: id=%s", ErrApartmentNotFound, apartmentID)
	}
	return nil
}
