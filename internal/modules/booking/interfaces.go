package booking

import (
	"context"
	"time"

	"rentlens/internal/domain"
)

// BookingRepository defines the persistence operations the service
// needs. Guarded updates return false when the row was not in the
// expected status.
type BookingRepository interface {
	CreateWithPayment(ctx context.Context, b *domain.Booking, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRenterID(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error)
	GetByOwnerID(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Booking, error)
	UpdateStatusGuarded(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (bool, error)
	CancelGuarded(ctx context.Context, bookingID int64, from domain.BookingStatus, reason string) (bool, error)
	HasOverlap(ctx context.Context, productID int64, start, end time.Time) (bool, error)
}

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type PaymentReader interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
}

type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, ownerID, bookingID, productID int64) error
	NotifyBookingStatus(ctx context.Context, userID, bookingID int64, status domain.BookingStatus, reason string) error
}
