package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"rentlens/internal/domain"
	"rentlens/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transitions is the whole booking state machine. Anything not listed
// here is rejected; terminal states have no entries at all.
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:   {domain.BookingConfirmed, domain.BookingCancelled},
	domain.BookingConfirmed: {domain.BookingActive, domain.BookingCancelled},
	domain.BookingActive:    {domain.BookingCompleted},
}

func canTransition(from, to domain.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	bookings   BookingRepository
	products   ProductReader
	payments   PaymentReader
	notifs     NotificationSender
	courierFee float64
}

func NewService(bookings BookingRepository, products ProductReader, payments PaymentReader, notifs NotificationSender, courierFee float64) *Service {
	return &Service{
		bookings:   bookings,
		products:   products,
		payments:   payments,
		notifs:     notifs,
		courierFee: courierFee,
	}
}

// Create books a product for a date range. The booking starts pending
// with a pending QRIS payment created in the same transaction.
func (s *Service) Create(ctx context.Context, renterID int64, req CreateBookingRequest) (*domain.Booking, *domain.Payment, error) {
	start := req.StartDate.UTC().Truncate(24 * time.Hour)
	end := req.EndDate.UTC().Truncate(24 * time.Hour)

	if !end.After(start) {
		return nil, nil, ErrValidation
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		return nil, nil, ErrValidation
	}

	delivery := domain.DeliveryMethod(req.DeliveryMethod)
	if delivery == "" {
		delivery = domain.DeliveryPickup
	}
	if delivery != domain.DeliveryPickup && delivery != domain.DeliveryCourier {
		return nil, nil, ErrValidation
	}

	p, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if p.OwnerID == renterID {
		return nil, nil, ErrOwnProduct
	}
	if !p.IsAvailable {
		return nil, nil, ErrNotAvailable
	}

	overlap, err := s.bookings.HasOverlap(ctx, p.ID, start, end)
	if err != nil {
		return nil, nil, err
	}
	if overlap {
		return nil, nil, ErrNotAvailable
	}

	days := int(end.Sub(start).Hours() / 24)

	var deliveryFee float64
	if delivery == domain.DeliveryCourier {
		deliveryFee = s.courierFee
	}

	total := float64(days)*p.PricePerDay + deliveryFee
	total = math.Round(total*100) / 100

	b := &domain.Booking{
		ProductID:      p.ID,
		RenterID:       renterID,
		OwnerID:        p.OwnerID,
		StartDate:      start,
		EndDate:        end,
		TotalPrice:     total,
		Status:         domain.BookingPending,
		DeliveryMethod: delivery,
		DeliveryFee:    deliveryFee,
		Notes:          req.Notes,
	}

	pay := &domain.Payment{
		OrderID: fmt.Sprintf("RL-%s", uuid.NewString()),
		Amount:  total,
		Status:  domain.PaymentPending,
		Method:  domain.MethodQRIS,
	}

	if err := s.bookings.CreateWithPayment(ctx, b, pay); err != nil {
		// Under Postgres the exclusion constraint catches the race the
		// HasOverlap pre-check cannot.
		if repository.IsOverlapConstraint(err) {
			return nil, nil, ErrNotAvailable
		}
		return nil, nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCreated(ctx, b.OwnerID, b.ID, b.ProductID)
	}

	return b, pay, nil
}

// Confirm moves pending to confirmed. Owner only, and only once the
// payment has settled.
func (s *Service) Confirm(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.getForActor(ctx, bookingID, actorID, true)
	if err != nil {
		return nil, err
	}

	if !canTransition(b.Status, domain.BookingConfirmed) {
		return nil, ErrInvalidTransition
	}

	pay, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if pay.Status != domain.PaymentPaid {
		return nil, ErrPaymentNotCompleted
	}

	return s.apply(ctx, b, domain.BookingPending, domain.BookingConfirmed, "")
}

// Start marks the physical handover: confirmed to active. Owner only.
func (s *Service) Start(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.getForActor(ctx, bookingID, actorID, true)
	if err != nil {
		return nil, err
	}
	if !canTransition(b.Status, domain.BookingActive) || b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidTransition
	}
	return s.apply(ctx, b, domain.BookingConfirmed, domain.BookingActive, "")
}

// Complete marks the return: active to completed. Owner only.
func (s *Service) Complete(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.getForActor(ctx, bookingID, actorID, true)
	if err != nil {
		return nil, err
	}
	if !canTransition(b.Status, domain.BookingCompleted) {
		return nil, ErrInvalidTransition
	}
	return s.apply(ctx, b, domain.BookingActive, domain.BookingCompleted, "")
}

// Cancel is the renter's cancel or the owner's reject. The owner may
// only reject a pending booking; the renter may cancel pending or
// confirmed ones.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, ErrValidation
	}

	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch actorID {
	case b.OwnerID:
		if b.Status != domain.BookingPending {
			return nil, ErrInvalidTransition
		}
	case b.RenterID:
		if !canTransition(b.Status, domain.BookingCancelled) {
			return nil, ErrInvalidTransition
		}
	default:
		return nil, ErrForbidden
	}

	from := b.Status
	ok, err := s.bookings.CancelGuarded(ctx, bookingID, from, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: someone else moved the booking first.
		return nil, ErrInvalidTransition
	}

	b, err = s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		notifyTarget := b.RenterID
		if actorID == b.RenterID {
			notifyTarget = b.OwnerID
		}
		_ = s.notifs.NotifyBookingStatus(ctx, notifyTarget, b.ID, domain.BookingCancelled, reason)
	}

	return b, nil
}

func (s *Service) GetByID(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != actorID && b.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListAsRenter(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.GetByRenterID(ctx, renterID, limit, offset)
}

func (s *Service) ListAsOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.GetByOwnerID(ctx, ownerID, limit, offset)
}

func (s *Service) get(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) getForActor(ctx context.Context, bookingID, actorID int64, ownerOnly bool) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if ownerOnly && b.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) apply(ctx context.Context, b *domain.Booking, from, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	ok, err := s.bookings.UpdateStatusGuarded(ctx, b.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	updated, err := s.get(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingStatus(ctx, updated.RenterID, updated.ID, to, reason)
	}

	return updated, nil
}
