package product

import (
	"context"

	"rentlens/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	GetByOwnerID(ctx context.Context, ownerID int64) ([]domain.Product, error)
}
