package admin

import (
	"context"

	"rentlens/internal/domain"
	"rentlens/internal/repository"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, f repository.UserFilters) ([]domain.User, int64, error)
	SetBanned(ctx context.Context, userID int64, banned bool, reason string) error
	CountAll(ctx context.Context) (int64, error)
}

type ProductCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type BookingCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type ReportCounter interface {
	CountPending(ctx context.Context) (int64, error)
}
