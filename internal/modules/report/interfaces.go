package report

import (
	"context"

	"rentlens/internal/domain"
	"rentlens/internal/repository"
)

type ReportRepository interface {
	Create(ctx context.Context, rep *domain.Report) error
	GetByID(ctx context.Context, id int64) (*domain.Report, error)
	List(ctx context.Context, f repository.ReportFilters) ([]domain.Report, int64, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}
