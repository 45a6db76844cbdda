package product

import (
	"context"
	"testing"

	"rentlens/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	if p != nil {
		p.ID = 1
	}
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func TestCreateProduct(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.OwnerID == 10 && p.Category == domain.CategoryCamera && p.IsAvailable
	})).Return(nil)

	p, err := svc.Create(context.Background(), 10, CreateProductRequest{
		Category:    " Camera ",
		Name:        "Sony A7 III",
		PricePerDay: 150000,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.CategoryCamera, p.Category)
	repo.AssertExpectations(t)
}

func TestCreateProduct_InvalidCategory(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 10, CreateProductRequest{
		Category:    "spaceship",
		Name:        "Sony A7 III",
		PricePerDay: 150000,
	})

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_InvalidPrice(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 10, CreateProductRequest{
		Category:    "camera",
		Name:        "Sony A7 III",
		PricePerDay: 0,
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProduct_OwnerOnly(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Product{ID: 1, OwnerID: 10}, nil)

	name := "New name"
	_, err := svc.Update(context.Background(), 1, 99, UpdateProductRequest{Name: &name})

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProduct_TogglesAvailability(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Product{
		ID: 1, OwnerID: 10, Category: domain.CategoryCamera, Name: "Sony A7 III", PricePerDay: 150000, IsAvailable: true,
	}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return !p.IsAvailable
	})).Return(nil)

	off := false
	p, err := svc.Update(context.Background(), 1, 10, UpdateProductRequest{IsAvailable: &off})

	assert.NoError(t, err)
	assert.False(t, p.IsAvailable)
}

func TestDeleteProduct_OwnerOnly(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Product{ID: 1, OwnerID: 10}, nil)

	err := svc.Delete(context.Background(), 1, 99)

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
