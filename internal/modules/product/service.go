package product

import (
	"context"
	"errors"
	"strings"

	"rentlens/internal/domain"
	"rentlens/internal/pkg/validator"

	"gorm.io/gorm"
)

type Service struct {
	products ProductRepository
}

func NewService(products ProductRepository) *Service {
	return &Service{products: products}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateProductRequest) (*domain.Product, error) {
	category := domain.ProductCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	if !category.Valid() {
		return nil, ErrValidation
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.PricePerDay <= 0 {
		return nil, ErrValidation
	}

	p := &domain.Product{
		OwnerID:     ownerID,
		Category:    category,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		PricePerDay: req.PricePerDay,
		IsAvailable: true,
		ImageURLs:   req.ImageURLs,
	}
	if fields := validator.Struct(p); fields != nil {
		return nil, ErrValidation
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	return s.products.GetByOwnerID(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, productID, actorID int64, req UpdateProductRequest) (*domain.Product, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, ErrForbidden
	}

	if req.Category != nil {
		category := domain.ProductCategory(strings.ToLower(strings.TrimSpace(*req.Category)))
		if !category.Valid() {
			return nil, ErrValidation
		}
		p.Category = category
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrValidation
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.PricePerDay != nil {
		if *req.PricePerDay <= 0 {
			return nil, ErrValidation
		}
		p.PricePerDay = *req.PricePerDay
	}
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}
	if req.ImageURLs != nil {
		p.ImageURLs = *req.ImageURLs
	}

	if fields := validator.Struct(p); fields != nil {
		return nil, ErrValidation
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, productID, actorID int64) error {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.OwnerID != actorID {
		return ErrForbidden
	}
	return s.products.Delete(ctx, productID)
}
