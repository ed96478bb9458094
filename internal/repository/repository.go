package repository

import (
	"context"
	"time"

	"catalogbot/internal/domain"
)

// SessionRepository stores conversation sessions by chat user id
type SessionRepository interface {
	// Get returns the stored session, or a zero session if none exists
	Get(ctx context.Context, chatUserID int64) (domain.Session, error)
	// Set overwrites the stored session
	Set(ctx context.Context, chatUserID int64, session domain.Session) error
	Delete(ctx context.Context, chatUserID int64) error
	// DeleteIdle removes sessions last updated before the given time
	DeleteIdle(ctx context.Context, before time.Time) (int64, error)
}

// CatalogAPI is the backing catalog/order/user service.
// Every call except Login is authenticated with the caller's token.
type CatalogAPI interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)

	ListUsers(ctx context.Context, token string) ([]domain.User, error)
	GetUser(ctx context.Context, token string, id int) (*domain.User, error)
	CreateUser(ctx context.Context, token string, in domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, token string, id int, in domain.UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, token string, id int) error

	ListItems(ctx context.Context, token string) ([]domain.Item, error)
	GetItem(ctx context.Context, token string, id int) (*domain.Item, error)
	CreateItem(ctx context.Context, token string, in domain.ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, token string, id int, in domain.ItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, token string, id int) error

	ListCategories(ctx context.Context, token string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, token string, in domain.CategoryInput) (*domain.Category, error)

	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
	GetOrder(ctx context.Context, token string, id int) (*domain.Order, error)
	CreateOrder(ctx context.Context, token string, in domain.OrderInput) (*domain.Order, error)
}
