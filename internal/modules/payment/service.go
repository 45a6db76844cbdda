package payment

import (
	"context"
	"errors"
	"log"
	"math/big"
	"strconv"
	"strings"
	"time"

	"rentlens/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	payments  PaymentRepository
	bookings  BookingReader
	users     UserReader
	gateway   GatewayClient
	notifs    NotificationSender
	serverKey string
}

func NewService(payments PaymentRepository, bookings BookingReader, users UserReader, gateway GatewayClient, notifs NotificationSender, serverKey string) *Service {
	return &Service{
		payments:  payments,
		bookings:  bookings,
		users:     users,
		gateway:   gateway,
		notifs:    notifs,
		serverKey: serverKey,
	}
}

// Charge requests a QRIS payload from the gateway for a booking's
// pending payment. Idempotent: an existing payload is returned without
// a second gateway charge.
func (s *Service) Charge(ctx context.Context, bookingID, actorID int64) (*domain.Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.RenterID != actorID {
		return nil, ErrForbidden
	}

	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Status == domain.PaymentPaid {
		return nil, ErrAlreadyPaid
	}
	if p.QRPayload != "" {
		return p, nil
	}

	customerName := ""
	if u, err := s.users.GetByID(ctx, b.RenterID); err == nil {
		customerName = u.Name
	}

	res, err := s.gateway.ChargeQRIS(ctx, p.OrderID, p.Amount, customerName)
	if err != nil {
		return nil, err
	}

	if err := s.payments.SetQRPayload(ctx, p.OrderID, res.QRPayload, res.TransactionID); err != nil {
		return nil, err
	}

	return s.payments.GetByOrderID(ctx, p.OrderID)
}

// HandleNotification processes a gateway webhook. Signature and amount
// are verified before any state changes; settlements are applied
// idempotently and a paid payment is never downgraded.
func (s *Service) HandleNotification(ctx context.Context, n WebhookNotification) error {
	expected := NotificationSignature(n.OrderID, n.StatusCode, n.GrossAmount, s.serverKey)
	if !strings.EqualFold(n.SignatureKey, expected) {
		log.Printf("level=warn msg=webhook signature mismatch order_id=%s", n.OrderID)
		return ErrInvalidSignature
	}

	p, err := s.payments.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !amountEqual(n.GrossAmount, p.Amount) {
		log.Printf("level=warn msg=webhook amount mismatch order_id=%s got=%s want=%.2f", n.OrderID, n.GrossAmount, p.Amount)
		return ErrAmountMismatch
	}

	return s.applyStatus(ctx, p, n.TransactionStatus, n.TransactionID)
}

// Poll asks the gateway for the current transaction status and applies
// it. Used by the renter's manual "refresh" action; no automatic retry
// loop exists client- or server-side.
func (s *Service) Poll(ctx context.Context, orderID string, actorID int64) (*domain.Payment, error) {
	p, err := s.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != actorID && b.OwnerID != actorID {
		return nil, ErrForbidden
	}

	if p.Status == domain.PaymentPaid {
		return p, nil
	}

	res, err := s.gateway.TransactionStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.applyStatus(ctx, p, res.TransactionStatus, res.TransactionID); err != nil {
		return nil, err
	}

	return s.payments.GetByOrderID(ctx, orderID)
}

func (s *Service) GetByBooking(ctx context.Context, bookingID, actorID int64) (*domain.Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.RenterID != actorID && b.OwnerID != actorID {
		return nil, ErrForbidden
	}

	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) applyStatus(ctx context.Context, p *domain.Payment, transactionStatus, gatewayTxID string) error {
	mapped := MapTransactionStatus(transactionStatus)

	switch mapped {
	case domain.PaymentPaid:
		changed, err := s.payments.MarkPaidIdempotent(ctx, p.OrderID, gatewayTxID, time.Now().UTC())
		if err != nil {
			return err
		}
		if !changed {
			log.Printf("level=info msg=settlement already applied order_id=%s", p.OrderID)
			return nil
		}
		if s.notifs != nil {
			if b, err := s.bookings.GetByID(ctx, p.BookingID); err == nil {
				_ = s.notifs.NotifyPaymentSettled(ctx, b.RenterID, b.ID, p.OrderID)
				_ = s.notifs.NotifyPaymentSettled(ctx, b.OwnerID, b.ID, p.OrderID)
			}
		}
		return nil

	case domain.PaymentFailed:
		if err := s.payments.UpdateStatusIfNotPaid(ctx, p.OrderID, mapped, gatewayTxID); err != nil {
			return err
		}
		if s.notifs != nil && p.Status != domain.PaymentFailed {
			if b, err := s.bookings.GetByID(ctx, p.BookingID); err == nil {
				_ = s.notifs.NotifyPaymentFailed(ctx, b.RenterID, b.ID, p.OrderID)
			}
		}
		return nil

	default:
		return s.payments.UpdateStatusIfNotPaid(ctx, p.OrderID, mapped, gatewayTxID)
	}
}

func amountEqual(raw string, amount float64) bool {
	got, ok := new(big.Rat).SetString(strings.TrimSpace(raw))
	if !ok {
		return false
	}
	want, ok := new(big.Rat).SetString(strconv.FormatFloat(amount, 'f', -1, 64))
	if !ok {
		return false
	}
	return got.Cmp(want) == 0
}
