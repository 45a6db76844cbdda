package admin

import (
	"context"
	"testing"

	"rentlens/internal/domain"
	"rentlens/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilters) ([]domain.User, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) SetBanned(ctx context.Context, userID int64, banned bool, reason string) error {
	args := m.Called(ctx, userID, banned, reason)
	return args.Error(0)
}

func (m *MockUserRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounter) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newAdminService() (*Service, *MockUserRepository, *MockCounter, *MockCounter, *MockCounter) {
	users := new(MockUserRepository)
	products := new(MockCounter)
	bookings := new(MockCounter)
	reports := new(MockCounter)
	return NewService(users, products, bookings, reports), users, products, bookings, reports
}

func TestBanUser(t *testing.T) {
	svc, users, _, _, _ := newAdminService()
	banned := &domain.User{ID: 5, Role: domain.RoleUser, IsBanned: true, BanReason: "spam listings"}

	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleUser}, nil).Once()
	users.On("SetBanned", mock.Anything, int64(5), true, "spam listings").Return(nil)
	users.On("GetByID", mock.Anything, int64(5)).Return(banned, nil)

	u, err := svc.BanUser(context.Background(), 5, 1, "spam listings")

	assert.NoError(t, err)
	assert.True(t, u.IsBanned)
	users.AssertExpectations(t)
}

func TestBanUser_ReasonRequired(t *testing.T) {
	svc, users, _, _, _ := newAdminService()

	_, err := svc.BanUser(context.Background(), 5, 1, "   ")

	assert.ErrorIs(t, err, ErrValidation)
	users.AssertNotCalled(t, "SetBanned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBanUser_AdminRejected(t *testing.T) {
	svc, users, _, _, _ := newAdminService()
	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2, Role: domain.RoleAdmin}, nil)

	_, err := svc.BanUser(context.Background(), 2, 1, "power struggle")

	assert.ErrorIs(t, err, ErrBanAdmin)
	users.AssertNotCalled(t, "SetBanned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBanUser_NotFound(t *testing.T) {
	svc, users, _, _, _ := newAdminService()
	users.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.BanUser(context.Background(), 404, 1, "spam")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnbanUser(t *testing.T) {
	svc, users, _, _, _ := newAdminService()
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, IsBanned: true}, nil).Once()
	users.On("SetBanned", mock.Anything, int64(5), false, "").Return(nil)
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)

	u, err := svc.UnbanUser(context.Background(), 5, 1)

	assert.NoError(t, err)
	assert.False(t, u.IsBanned)
}

func TestStatistics(t *testing.T) {
	svc, users, products, bookings, reports := newAdminService()
	users.On("CountAll", mock.Anything).Return(int64(120), nil)
	products.On("CountAll", mock.Anything).Return(int64(45), nil)
	bookings.On("CountAll", mock.Anything).Return(int64(300), nil)
	reports.On("CountPending", mock.Anything).Return(int64(3), nil)

	stats, err := svc.Statistics(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(120), stats.Users)
	assert.Equal(t, int64(45), stats.Products)
	assert.Equal(t, int64(300), stats.Bookings)
	assert.Equal(t, int64(3), stats.PendingReports)
}

func TestListUsers_ClampsLimit(t *testing.T) {
	svc, users, _, _, _ := newAdminService()
	users.On("List", mock.Anything, mock.MatchedBy(func(f repository.UserFilters) bool {
		return f.Limit == 20
	})).Return([]domain.User{}, int64(0), nil)

	_, _, err := svc.ListUsers(context.Background(), ListUsersQuery{Limit: 500})

	assert.NoError(t, err)
	users.AssertExpectations(t)
}
