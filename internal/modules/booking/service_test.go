package booking

import (
	"context"
	"testing"
	"time"

	"rentlens/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateWithPayment(ctx context.Context, b *domain.Booking, p *domain.Payment) error {
	args := m.Called(ctx, b, p)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	if p != nil {
		p.ID = 500
		p.BookingID = 999
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByRenterID(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, renterID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByOwnerID(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatusGuarded(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (bool, error) {
	args := m.Called(ctx, bookingID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) CancelGuarded(ctx context.Context, bookingID int64, from domain.BookingStatus, reason string) (bool, error) {
	args := m.Called(ctx, bookingID, from, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) HasOverlap(ctx context.Context, productID int64, start, end time.Time) (bool, error) {
	args := m.Called(ctx, productID, start, end)
	return args.Bool(0), args.Error(1)
}

type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

type MockPaymentReader struct {
	mock.Mock
}

func (m *MockPaymentReader) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyBookingCreated(ctx context.Context, ownerID, bookingID, productID int64) error {
	args := m.Called(ctx, ownerID, bookingID, productID)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyBookingStatus(ctx context.Context, userID, bookingID int64, status domain.BookingStatus, reason string) error {
	args := m.Called(ctx, userID, bookingID, status, reason)
	return args.Error(0)
}

func newTestService(bookings *MockBookingRepository, products *MockProductReader, payments *MockPaymentReader) *Service {
	notifs := new(MockNotificationSender)
	notifs.On("NotifyBookingCreated", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifs.On("NotifyBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return NewService(bookings, products, payments, notifs, 25000)
}

func futureDate(days int) time.Time {
	return time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, days)
}

func TestCreate_TotalPriceIsDaysTimesRate(t *testing.T) {
	bookings := new(MockBookingRepository)
	products := new(MockProductReader)
	payments := new(MockPaymentReader)

	products.On("GetByID", mock.Anything, int64(7)).Return(&domain.Product{
		ID: 7, OwnerID: 2, PricePerDay: 100000, IsAvailable: true,
	}, nil)
	bookings.On("HasOverlap", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(false, nil)
	bookings.On("CreateWithPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(bookings, products, payments)

	// Three chargeable days.
	start := futureDate(10)
	end := start.AddDate(0, 0, 3)

	b, pay, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		ProductID: 7,
		StartDate: start,
		EndDate:   end,
	})
	assert.NoError(t, err)
	assert.Equal(t, 300000.0, b.TotalPrice)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, domain.PaymentPending, pay.Status)
	assert.Equal(t, b.TotalPrice, pay.Amount)
	assert.Contains(t, pay.OrderID, "RL-")
}

func TestCreate_CourierAddsFlatFee(t *testing.T) {
	bookings := new(MockBookingRepository)
	products := new(MockProductReader)
	payments := new(MockPaymentReader)

	products.On("GetByID", mock.Anything, int64(7)).Return(&domain.Product{
		ID: 7, OwnerID: 2, PricePerDay: 100000, IsAvailable: true,
	}, nil)
	bookings.On("HasOverlap", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(false, nil)
	bookings.On("CreateWithPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(bookings, products, payments)

	start := futureDate(10)
	b, _, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		ProductID:      7,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 2),
		DeliveryMethod: "courier",
	})
	assert.NoError(t, err)
	assert.Equal(t, 225000.0, b.TotalPrice)
	assert.Equal(t, 25000.0, b.DeliveryFee)
}

func TestCreate_RejectsInvalidRanges(t *testing.T) {
	svc := newTestService(new(MockBookingRepository), new(MockProductReader), new(MockPaymentReader))

	start := futureDate(10)

	// End before start.
	_, _, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		ProductID: 7, StartDate: start, EndDate: start.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Zero-length range.
	_, _, err = svc.Create(context.Background(), 1, CreateBookingRequest{
		ProductID: 7, StartDate: start, EndDate: start,
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Start in the past.
	_, _, err = svc.Create(context.Background(), 1, CreateBookingRequest{
		ProductID: 7, StartDate: futureDate(-2), EndDate: futureDate(1),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_RejectsOwnProduct(t *testing.T) {
	bookings := new(MockBookingRepository)
	products := new(MockProductReader)

	products.On("GetByID", mock.Anything, int64(7)).Return(&domain.Product{
		ID: 7, OwnerID: 1, PricePerDay: 100000, IsAvailable: true,
	}, nil)

	svc := newTestService(bookings, products, new(MockPaymentReader))

	start := futureDate(5)
	_, _, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		ProductID: 7, StartDate: start, EndDate: start.AddDate(0, 0, 1),
	})
	assert.ErrorIs(t, err, ErrOwnProduct)
}

func TestCreate_RejectsOverlap(t *testing.T) {
	bookings := new(MockBookingRepository)
	products := new(MockProductReader)

	products.On("GetByID", mock.Anything, int64(7)).Return(&domain.Product{
		ID: 7, OwnerID: 2, PricePerDay: 100000, IsAvailable: true,
	}, nil)
	bookings.On("HasOverlap", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(true, nil)

	svc := newTestService(bookings, products, new(MockPaymentReader))

	start := futureDate(5)
	_, _, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		ProductID: 7, StartDate: start, EndDate: start.AddDate(0, 0, 1),
	})
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestConfirm_RequiresPaidPayment(t *testing.T) {
	bookings := new(MockBookingRepository)
	payments := new(MockPaymentReader)

	bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
		ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingPending,
	}, nil)
	payments.On("GetByBookingID", mock.Anything, int64(1)).Return(&domain.Payment{
		BookingID: 1, Status: domain.PaymentPending,
	}, nil)

	svc := newTestService(bookings, new(MockProductReader), payments)

	_, err := svc.Confirm(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	bookings.AssertNotCalled(t, "UpdateStatusGuarded")
}

func TestConfirm_PaidBookingConfirms(t *testing.T) {
	bookings := new(MockBookingRepository)
	payments := new(MockPaymentReader)

	pending := &domain.Booking{ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingPending}
	confirmed := &domain.Booking{ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingConfirmed}

	bookings.On("GetByID", mock.Anything, int64(1)).Return(pending, nil).Once()
	payments.On("GetByBookingID", mock.Anything, int64(1)).Return(&domain.Payment{
		BookingID: 1, Status: domain.PaymentPaid,
	}, nil)
	bookings.On("UpdateStatusGuarded", mock.Anything, int64(1), domain.BookingPending, domain.BookingConfirmed).Return(true, nil)
	bookings.On("GetByID", mock.Anything, int64(1)).Return(confirmed, nil)

	svc := newTestService(bookings, new(MockProductReader), payments)

	b, err := svc.Confirm(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestConfirm_OnlyOwner(t *testing.T) {
	bookings := new(MockBookingRepository)
	bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
		ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingPending,
	}, nil)

	svc := newTestService(bookings, new(MockProductReader), new(MockPaymentReader))

	_, err := svc.Confirm(context.Background(), 1, 1) // renter, not owner
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransitions_TerminalStatesAreFrozen(t *testing.T) {
	for _, terminal := range []domain.BookingStatus{domain.BookingCompleted, domain.BookingCancelled} {
		bookings := new(MockBookingRepository)
		payments := new(MockPaymentReader)
		bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
			ID: 1, OwnerID: 2, RenterID: 1, Status: terminal,
		}, nil)
		payments.On("GetByBookingID", mock.Anything, int64(1)).Return(&domain.Payment{
			BookingID: 1, Status: domain.PaymentPaid,
		}, nil)

		svc := newTestService(bookings, new(MockProductReader), payments)

		_, err := svc.Confirm(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrInvalidTransition, "confirm from %s", terminal)

		_, err = svc.Start(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrInvalidTransition, "start from %s", terminal)

		_, err = svc.Complete(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrInvalidTransition, "complete from %s", terminal)

		_, err = svc.Cancel(context.Background(), 1, 1, "changed plans")
		assert.ErrorIs(t, err, ErrInvalidTransition, "cancel from %s", terminal)
	}
}

func TestTransitions_NoSkipping(t *testing.T) {
	bookings := new(MockBookingRepository)
	bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
		ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingPending,
	}, nil)

	svc := newTestService(bookings, new(MockProductReader), new(MockPaymentReader))

	// pending cannot jump to active or completed.
	_, err := svc.Start(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Complete(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_OwnerCannotCancelConfirmed(t *testing.T) {
	bookings := new(MockBookingRepository)
	bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
		ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingConfirmed,
	}, nil)

	svc := newTestService(bookings, new(MockProductReader), new(MockPaymentReader))

	// Owner reject exists only for pending bookings.
	_, err := svc.Cancel(context.Background(), 1, 2, "no longer renting this out")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_RenterCancelsConfirmed(t *testing.T) {
	bookings := new(MockBookingRepository)

	confirmed := &domain.Booking{ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingConfirmed}
	cancelled := &domain.Booking{ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingCancelled, CancelReason: "trip cancelled"}

	bookings.On("GetByID", mock.Anything, int64(1)).Return(confirmed, nil).Once()
	bookings.On("CancelGuarded", mock.Anything, int64(1), domain.BookingConfirmed, "trip cancelled").Return(true, nil)
	bookings.On("GetByID", mock.Anything, int64(1)).Return(cancelled, nil)

	svc := newTestService(bookings, new(MockProductReader), new(MockPaymentReader))

	b, err := svc.Cancel(context.Background(), 1, 1, "trip cancelled")
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
}

func TestCancel_RequiresReason(t *testing.T) {
	svc := newTestService(new(MockBookingRepository), new(MockProductReader), new(MockPaymentReader))

	_, err := svc.Cancel(context.Background(), 1, 1, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancel_StrangerForbidden(t *testing.T) {
	bookings := new(MockBookingRepository)
	bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
		ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingPending,
	}, nil)

	svc := newTestService(bookings, new(MockProductReader), new(MockPaymentReader))

	_, err := svc.Cancel(context.Background(), 1, 77, "not mine")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApply_LostRaceSurfacesAsConflict(t *testing.T) {
	bookings := new(MockBookingRepository)
	payments := new(MockPaymentReader)

	bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
		ID: 1, OwnerID: 2, RenterID: 1, Status: domain.BookingPending,
	}, nil)
	payments.On("GetByBookingID", mock.Anything, int64(1)).Return(&domain.Payment{
		BookingID: 1, Status: domain.PaymentPaid,
	}, nil)
	// Guarded update affects zero rows: another actor moved the row.
	bookings.On("UpdateStatusGuarded", mock.Anything, int64(1), domain.BookingPending, domain.BookingConfirmed).Return(false, nil)

	svc := newTestService(bookings, new(MockProductReader), payments)

	_, err := svc.Confirm(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
