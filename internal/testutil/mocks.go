package testutil

import (
	"context"
	"time"

	"catalogbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock for SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, chatUserID int64) (domain.Session, error) {
	args := m.Called(ctx, chatUserID)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Set(ctx context.Context, chatUserID int64, session domain.Session) error {
	args := m.Called(ctx, chatUserID, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, chatUserID int64) error {
	args := m.Called(ctx, chatUserID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockCatalogAPI is a mock for CatalogAPI
type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *MockCatalogAPI) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockCatalogAPI) GetUser(ctx context.Context, token string, id int) (*domain.User, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockCatalogAPI) CreateUser(ctx context.Context, token string, in domain.UserInput) (*domain.User, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockCatalogAPI) UpdateUser(ctx context.Context, token string, id int, in domain.UserInput) (*domain.User, error) {
	args := m.Called(ctx, token, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockCatalogAPI) DeleteUser(ctx context.Context, token string, id int) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockCatalogAPI) ListItems(ctx context.Context, token string) ([]domain.Item, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockCatalogAPI) GetItem(ctx context.Context, token string, id int) (*domain.Item, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockCatalogAPI) CreateItem(ctx context.Context, token string, in domain.ItemInput) (*domain.Item, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockCatalogAPI) UpdateItem(ctx context.Context, token string, id int, in domain.ItemInput) (*domain.Item, error) {
	args := m.Called(ctx, token, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockCatalogAPI) DeleteItem(ctx context.Context, token string, id int) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockCatalogAPI) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCatalogAPI) CreateCategory(ctx context.Context, token string, in domain.CategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCatalogAPI) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockCatalogAPI) GetOrder(ctx context.Context, token string, id int) (*domain.Order, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockCatalogAPI) CreateOrder(ctx context.Context, token string, in domain.OrderInput) (*domain.Order, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
