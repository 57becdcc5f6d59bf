package externalnote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/txmanager"
)

const table = "external_notes"

// Repository заметки администратора к бронированиям из iCal-каналов.
// Ключ - пара (apartment_id, external_id).
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заметок
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создаёт заметку или заменяет текст существующей. Автор первой записи сохраняется.
func (r *Repository) Upsert(ctx context.Context, note *domain.ExternalNote) (*domain.ExternalNote, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("apartment_id", "external_id", "note", "created_by").
		Values(note.ApartmentID, note.ExternalID, note.Note, note.CreatedBy).
		Suffix("ON CONFLICT (apartment_id, external_id) DO UPDATE SET note = EXCLUDED.note, updated_at = NOW() " +
			"RETURNING created_by, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&note.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	note.CreatedAt = createdAt.Time
	note.UpdatedAt = updatedAt.Time
	return note, nil
}

// Delete удаляет заметку. Возвращает false, если удалять было нечего.
func (r *Repository) Delete(ctx context.Context, apartmentID, externalID string) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"apartment_id": apartmentID, "external_id": externalID}).
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

// ListAll возвращает все заметки
func (r *Repository) ListAll(ctx context.Context) ([]domain.ExternalNote, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("apartment_id", "external_id", "note", "created_by", "created_at", "updated_at").
		From(table).
		OrderBy("apartment_id", "external_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	notes := make([]domain.ExternalNote, 0)
	for rows.Next() {
		var (
			n                    domain.ExternalNote
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(&n.ApartmentID, &n.ExternalID, &n.Note, &n.CreatedBy, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListAll - scan note: %w", ErrScanRow, err)
		}
		n.CreatedAt = createdAt.Time
		n.UpdatedAt = updatedAt.Time
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAll - iterate rows: %w", ErrScanRow, err)
	}
	return notes, nil
}
