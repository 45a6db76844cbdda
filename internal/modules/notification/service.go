package notification

import (
	"context"
	"fmt"

	"rentlens/internal/domain"
	"rentlens/internal/repository"
)

// Service persists notifications and pushes them to connected websocket
// clients. A nil hub disables push; persistence always happens first.
type Service struct {
	repo *repository.NotificationRepository
	hub  *Hub
}

func NewService(repo *repository.NotificationRepository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

func (s *Service) Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string, data map[string]any) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		IsRead:  false,
	}
	if err := s.repo.Create(ctx, n, data); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, n)
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyBookingCreated(ctx context.Context, ownerID, bookingID, productID int64) error {
	return s.Create(
		ctx,
		ownerID,
		domain.NotifBookingCreated,
		"New booking request",
		"A renter requested your equipment",
		map[string]any{
			"booking_id": bookingID,
			"product_id": productID,
		},
	)
}

func (s *Service) NotifyBookingStatus(ctx context.Context, userID, bookingID int64, status domain.BookingStatus, reason string) error {
	var t domain.NotificationType
	switch status {
	case domain.BookingConfirmed:
		t = domain.NotifBookingConfirmed
	case domain.BookingActive:
		t = domain.NotifBookingStarted
	case domain.BookingCompleted:
		t = domain.NotifBookingCompleted
	case domain.BookingCancelled:
		t = domain.NotifBookingCancelled
	default:
		return nil
	}

	data := map[string]any{"booking_id": bookingID}
	if reason != "" {
		data["reason"] = reason
	}

	return s.Create(ctx, userID, t, status.Label(), fmt.Sprintf("Booking #%d: %s", bookingID, status.Label()), data)
}

func (s *Service) NotifyPaymentSettled(ctx context.Context, userID, bookingID int64, orderID string) error {
	return s.Create(
		ctx,
		userID,
		domain.NotifPaymentSettled,
		"Payment received",
		fmt.Sprintf("Payment for booking #%d has settled", bookingID),
		map[string]any{
			"booking_id": bookingID,
			"order_id":   orderID,
		},
	)
}

func (s *Service) NotifyPaymentFailed(ctx context.Context, userID, bookingID int64, orderID string) error {
	return s.Create(
		ctx,
		userID,
		domain.NotifPaymentFailed,
		"Payment failed",
		fmt.Sprintf("Payment for booking #%d failed or expired", bookingID),
		map[string]any{
			"booking_id": bookingID,
			"order_id":   orderID,
		},
	)
}
