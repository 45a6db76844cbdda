package admin

import (
	"context"
	"errors"
	"log"
	"strings"

	"rentlens/internal/domain"
	"rentlens/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	users    UserRepository
	products ProductCounter
	bookings BookingCounter
	reports  ReportCounter
}

func NewService(users UserRepository, products ProductCounter, bookings BookingCounter, reports ReportCounter) *Service {
	return &Service{
		users:    users,
		products: products,
		bookings: bookings,
		reports:  reports,
	}
}

func (s *Service) ListUsers(ctx context.Context, q ListUsersQuery) ([]domain.User, int64, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(ctx, repository.UserFilters{
		Role:   q.Role,
		Banned: q.Banned,
		Query:  strings.TrimSpace(q.Query),
		Limit:  limit,
		Offset: q.Offset,
	})
}

// BanUser flips the ban flag. The ban takes effect on the target's next
// mutating request; existing sessions are not revoked.
func (s *Service) BanUser(ctx context.Context, userID, actorID int64, reason string) (*domain.User, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrValidation
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.Role == domain.RoleAdmin {
		return nil, ErrBanAdmin
	}

	if err := s.users.SetBanned(ctx, userID, true, reason); err != nil {
		return nil, err
	}

	log.Printf("level=info msg=user banned user_id=%d admin_id=%d", userID, actorID)
	return s.users.GetByID(ctx, userID)
}

func (s *Service) UnbanUser(ctx context.Context, userID, actorID int64) (*domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.users.SetBanned(ctx, userID, false, ""); err != nil {
		return nil, err
	}

	log.Printf("level=info msg=user unbanned user_id=%d admin_id=%d", userID, actorID)
	return s.users.GetByID(ctx, userID)
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	users, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.reports.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		Users:          users,
		Products:       products,
		Bookings:       bookings,
		PendingReports: pending,
	}, nil
}
