package update_booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ApartmentCalendar/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/ptr"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	b := *args.Get(0).(*domain.Booking)
	return &b, args.Error(1)
}

func (m *MockBookingRepository) ListByApartment(ctx context.Context, apartmentID string) ([]domain.Booking, error) {
	args := m.Called(ctx, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
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

func datePtr(s string) *types.Date {
	d := types.MustParseDate(s)
	return &d
}

func manual(id, start, end string) domain.Booking {
	return domain.Booking{ID: id, ApartmentID: "a1", StartDate: date(start), EndDate: date(end), Source: domain.SourceManual}
}

func newUseCase(repo BookingRepository, external []domain.Booking, rec ConflictRecorder) *UseCase {
	apartments := domain.Apartments{{Key: "apartment1", ID: "a1", FeedURL: "https://feeds.example.com/a1.ics"}}
	return NewUseCase(repo, stubFeeds{bookings: external}, apartments, inlineTx{}, rec, nopLogger{})
}

func TestUseCase_Execute_MoveDates(t *testing.T) {
	b1 := manual("b1", "2024-05-10", "2024-05-15")
	b2 := manual("b2", "2024-05-20", "2024-05-23")

	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, "b1").Return(&b1, nil)
	repo.On("ListByApartment", mock.Anything, "a1").Return([]domain.Booking{b1, b2}, nil)
	repo.On("Update", mock.Anything, "b1", mock.MatchedBy(func(p domain.BookingPatch) bool {
		return p.StartDate == nil && p.EndDate != nil && p.EndDate.String() == "2024-05-20" && p.Note == nil
	})).Return(&domain.Booking{ID: "b1", ApartmentID: "a1", StartDate: date("2024-05-10"), EndDate: date("2024-05-20")}, nil)

	uc := newUseCase(repo, nil, &conflictCounter{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: "b1",
		StartDate: datePtr("2024-05-10"),
		EndDate:   datePtr("2024-05-20"),
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", resp.EndDate.String())
	repo.AssertExpectations(t)
}

func TestUseCase_Execute_SelfIsExcluded(t *testing.T) {
	b1 := manual("b1", "2024-05-10", "2024-05-15")

	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, "b1").Return(&b1, nil)
	repo.On("ListByApartment", mock.Anything, "a1").Return([]domain.Booking{b1}, nil)
	repo.On("Update", mock.Anything, "b1", mock.Anything).Return(&b1, nil)

	uc := newUseCase(repo, nil, &conflictCounter{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: "b1", StartDate: datePtr("2024-05-11")})
	require.NoError(t, err)
}

func TestUseCase_Execute_ConflictWithExternal(t *testing.T) {
	b1 := manual("b1", "2024-05-10", "2024-05-15")
	ext := domain.Booking{
		ID: "ext-u1", ApartmentID: "a1", Source: domain.SourceExternal,
		StartDate: date("2024-05-20"), EndDate: date("2024-05-23"), ExternalID: ptr.Ptr("u1"),
	}

	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, "b1").Return(&b1, nil)
	repo.On("ListByApartment", mock.Anything, "a1").Return([]domain.Booking{b1}, nil)

	rec := &conflictCounter{}
	uc := newUseCase(repo, []domain.Booking{ext}, rec)

	_, err := uc.Execute(context.Background(), &Request{BookingID: "b1", EndDate: datePtr("2024-05-21")})

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "ext-u1", conflict.Booking.ID)
	assert.Equal(t, []string{"update"}, rec.ops)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_NoteOnlySkipsConflictCheck(t *testing.T) {
	b1 := manual("b1", "2024-05-10", "2024-05-15")

	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, "b1").Return(&b1, nil)
	repo.On("Update", mock.Anything, "b1", mock.MatchedBy(func(p domain.BookingPatch) bool {
		return p.StartDate == nil && p.EndDate == nil && p.Note != nil && *p.Note == "vip"
	})).Return(&b1, nil)

	uc := newUseCase(repo, nil, &conflictCounter{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: "b1", Note: ptr.Ptr("vip")})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "ListByApartment", mock.Anything, mock.Anything)
}

func TestUseCase_Execute_NothingChanged(t *testing.T) {
	b1 := manual("b1", "2024-05-10", "2024-05-15")
	b1.Note = ptr.Ptr("late arrival")

	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, "b1").Return(&b1, nil)

	uc := newUseCase(repo, nil, &conflictCounter{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: "b1",
		EndDate:   datePtr("2024-05-15"),
		Note:      ptr.Ptr(" late arrival "),
	})
	require.NoError(t, err)
	assert.Equal(t, "b1", resp.ID)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	b1 := manual("b1", "2024-05-10", "2024-05-15")

	tests := []struct {
		name    string
		req     *Request
		setup   func(repo *MockBookingRepository)
		wantErr error
	}{
		{
			name:    "empty request",
			req:     &Request{BookingID: "b1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "external booking",
			req:     &Request{BookingID: "ext-u1", Note: ptr.Ptr("x")},
			wantErr: ErrExternalBooking,
		},
		{
			name: "not found",
			req:  &Request{BookingID: "missing", Note: ptr.Ptr("x")},
			setup: func(repo *MockBookingRepository) {
				repo.On("GetByID", mock.Anything, "missing").Return(nil, bookingRepo.ErrBookingNotFound)
			},
			wantErr: ErrBookingNotFound,
		},
		{
			name: "end before start",
			req:  &Request{BookingID: "b1", EndDate: datePtr("2024-05-01")},
			setup: func(repo *MockBookingRepository) {
				repo.On("GetByID", mock.Anything, "b1").Return(&b1, nil)
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBookingRepository)
			if tt.setup != nil {
				tt.setup(repo)
			}
			uc := newUseCase(repo, nil, &conflictCounter{})

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
