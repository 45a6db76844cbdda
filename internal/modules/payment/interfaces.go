package payment

import (
	"context"
	"time"

	"rentlens/internal/domain"
)

type PaymentRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	MarkPaidIdempotent(ctx context.Context, orderID, gatewayTxID string, paidAt time.Time) (bool, error)
	UpdateStatusIfNotPaid(ctx context.Context, orderID string, status domain.PaymentStatus, gatewayTxID string) error
	SetQRPayload(ctx context.Context, orderID, qrPayload, gatewayTxID string) error
}

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type NotificationSender interface {
	NotifyPaymentSettled(ctx context.Context, userID, bookingID int64, orderID string) error
	NotifyPaymentFailed(ctx context.Context, userID, bookingID int64, orderID string) error
}
