package create_booking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/ptr"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		return fn(ctx, booking), args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByApartment(ctx context.Context, apartmentID string) ([]domain.Booking, error) {
	args := m.Called(ctx, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type stubFeeds struct {
	bookings []domain.Booking
}

func (s stubFeeds) Bookings(context.Context, domain.Apartment) []domain.Booking {
	return s.bookings
}

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type conflictCounter struct {
	ops []string
}

func (c *conflictCounter) ObserveConflict(operation string) {
	c.ops = append(c.ops, operation)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func date(s string) types.Date {
	return types.MustParseDate(s)
}

func apartments() domain.Apartments {
	return domain.Apartments{{Key: "apartment1", ID: "a1", Name: "Sea view"}}
}

func newUseCase(repo BookingRepository, external []domain.Booking, rec ConflictRecorder) *UseCase {
	uc := NewUseCase(repo, stubFeeds{bookings: external}, apartments(), inlineTx{}, rec, nopLogger{})
	uc.newID = func() string { return "new-id" }
	return uc
}

func manual(id, start, end string) domain.Booking {
	return domain.Booking{ID: id, ApartmentID: "a1", StartDate: date(start), EndDate: date(end), Source: domain.SourceManual}
}

func TestUseCase_Execute_Success(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("ListByApartment", mock.Anything, "a1").
		Return([]domain.Booking{manual("b1", "2024-05-10", "2024-05-15")}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.ID == "new-id" && b.ApartmentID == "a1" &&
			b.StartDate.String() == "2024-05-15" && b.EndDate.String() == "2024-05-18" &&
			b.NoteText() == "family of four" && b.CreatedBy == "admin"
	})).Return(func(_ context.Context, b *domain.Booking) *domain.Booking { return b }, nil)

	uc := newUseCase(repo, nil, &conflictCounter{})

	resp, err := uc.Execute(context.Background(), &Request{
		ApartmentID: "a1",
		StartDate:   date("2024-05-15"),
		EndDate:     date("2024-05-18"),
		Note:        ptr.Ptr("  family of four  "),
	})

	require.NoError(t, err)
	assert.Equal(t, "new-id", resp.ID)
	assert.Equal(t, "family of four", *resp.Note)
	repo.AssertExpectations(t)
}

func TestUseCase_Execute_ConflictWithManual(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("ListByApartment", mock.Anything, "a1").
		Return([]domain.Booking{manual("b1", "2024-05-10", "2024-05-15")}, nil)

	rec := &conflictCounter{}
	uc := newUseCase(repo, nil, rec)

	_, err := uc.Execute(context.Background(), &Request{
		ApartmentID: "a1",
		StartDate:   date("2024-05-14"),
		EndDate:     date("2024-05-16"),
	})

	require.Error(t, err)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "b1", conflict.Booking.ID)
	assert.Equal(t, []string{"create"}, rec.ops)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUseCase_Execute_ConflictWithExternal(t *testing.T) {
	ext := domain.Booking{
		ID: "ext-u1", ApartmentID: "a1", Source: domain.SourceExternal,
		StartDate: date("2024-05-20"), EndDate: date("2024-05-23"), ExternalID: ptr.Ptr("u1"),
	}

	repo := new(MockBookingRepository)
	repo.On("ListByApartment", mock.Anything, "a1").Return([]domain.Booking{}, nil)

	uc := newUseCase(repo, []domain.Booking{ext}, &conflictCounter{})

	_, err := uc.Execute(context.Background(), &Request{
		ApartmentID: "a1",
		StartDate:   date("2024-05-18"),
		EndDate:     date("2024-05-21"),
	})

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "ext-u1", conflict.Booking.ID)
}

func TestUseCase_Execute_TouchingIsAllowed(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("ListByApartment", mock.Anything, "a1").
		Return([]domain.Booking{manual("b1", "2024-05-10", "2024-05-15")}, nil)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(func(_ context.Context, b *domain.Booking) *domain.Booking { return b }, nil)

	uc := newUseCase(repo, nil, &conflictCounter{})

	_, err := uc.Execute(context.Background(), &Request{
		ApartmentID: "a1",
		StartDate:   date("2024-05-05"),
		EndDate:     date("2024-05-10"),
	})
	require.NoError(t, err)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "missing apartment",
			req:     &Request{StartDate: date("2024-05-01"), EndDate: date("2024-05-02")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing dates",
			req:     &Request{ApartmentID: "a1", StartDate: date("2024-05-01")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "reversed range",
			req:     &Request{ApartmentID: "a1", StartDate: date("2024-05-05"), EndDate: date("2024-05-01")},
			wantErr: ErrInvalidInput,
		},
		{
			name: "note too long",
			req: &Request{
				ApartmentID: "a1", StartDate: date("2024-05-01"), EndDate: date("2024-05-02"),
				Note: ptr.Ptr(strings.Repeat("я", domain.MaxNoteLength+1)),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown apartment",
			req:     &Request{ApartmentID: "zzz", StartDate: date("2024-05-01"), EndDate: date("2024-05-02")},
			wantErr: ErrApartmentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBookingRepository)
			uc := newUseCase(repo, nil, &conflictCounter{})

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "ListByApartment", mock.Anything, mock.Anything)
		})
	}
}

func TestUseCase_Execute_RepositoryErrorKeepsCause(t *testing.T) {
	serialization := &pq.Error{Code: "40001"}

	repo := new(MockBookingRepository)
	repo.On("ListByApartment", mock.Anything, "a1").Return(nil, serialization)

	uc := newUseCase(repo, nil, &conflictCounter{})

	_, err := uc.Execute(context.Background(), &Request{
		ApartmentID: "a1",
		StartDate:   date("2024-05-01"),
		EndDate:     date("2024-05-02"),
	})

	assert.ErrorIs(t, err, ErrInternal)
	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
}
