package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/txmanager"
)

const table = "bookings"

var columns = []string{
	"id",
	"apartment_id",
	"start_date",
	"end_date",
	"note",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий ручных бронирований.
// Внешние бронирования в БД не хранятся, они приходят из iCal-каналов.
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование. ID генерирует вызывающий.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "apartment_id", "start_date", "end_date", "note", "created_by").
		Values(
			booking.ID,
			booking.ApartmentID,
			booking.StartDate,
			booking.EndDate,
			booking.Note,
			booking.CreatedBy,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.Source = domain.SourceManual
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if txmanager.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListAll возвращает все ручные бронирования, упорядоченные по квартире и дате заезда
func (r *Repository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("apartment_id", "start_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	return r.list(ctx, "ListAll", query, args)
}

// ListByApartment возвращает бронирования квартиры.
// Внутри транзакции строки блокируются, чтобы параллельная запись ждала проверки пересечений.
func (r *Repository) ListByApartment(ctx context.Context, apartmentID string) ([]domain.Booking, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		OrderBy("start_date", "id")
	if txmanager.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByApartment - build select query: %v", ErrBuildQuery, err)
	}

	return r.list(ctx, "ListByApartment", query, args)
}

// Update применяет изменённые поля и возвращает обновлённое бронирование
func (r *Repository) Update(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	set := map[string]interface{}{
		"updated_at": squirrel.Expr("NOW()"),
	}
	if patch.StartDate != nil {
		set["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		set["end_date"] = *patch.EndDate
	}
	if patch.Note != nil {
		// пустая заметка хранится как NULL
		applied := patch.Apply(domain.Booking{})
		set["note"] = applied.Note
	}

	query, args, err := psqlbuilder.Update(table).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// Delete удаляет бронирование. Отсутствие строки ошибкой не считается.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Delete - rows affected: %w", ErrExecQuery, err)
	}
	return affected > 0, nil
}

func (r *Repository) list(ctx context.Context, op, query string, args []interface{}) ([]domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %w", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		note                 sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.ApartmentID,
		&booking.StartDate,
		&booking.EndDate,
		&note,
		&booking.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Source = domain.SourceManual
	if note.Valid && note.String != "" {
		text := note.String
		booking.Note = &text
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
