package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"catalogbot/internal/domain"
)

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	in := map[string]string{"username": username, "password": password}
	var out domain.LoginResult
	if err := c.do(ctx, http.MethodPost, "/token-login/", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers fetches GET /users/
func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, http.MethodGet, "/users/", token, nil, &out)
	return out, err
}

// GetUser fetches GET /user/{id}/
func (c *Client) GetUser(ctx context.Context, token string, id int) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/%d/", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser posts to /user/create/
func (c *Client) CreateUser(ctx context.Context, token string, in domain.UserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPost, "/user/create/", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser sends PUT /user/{id}/edit/; empty fields of in are left out
func (c *Client) UpdateUser(ctx context.Context, token string, id int, in domain.UserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/user/%d/edit/", id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser calls DELETE /user/{id}/delete/
func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/user/%d/delete/", id), token, nil, nil)
}

// ListItems fetches GET /items/
func (c *Client) ListItems(ctx context.Context, token string) ([]domain.Item, error) {
	var out []domain.Item
	err := c.do(ctx, http.MethodGet, "/items/", token, nil, &out)
	return out, err
}

// GetItem fetches GET /items/{id}/
func (c *Client) GetItem(ctx context.Context, token string, id int) (*domain.Item, error) {
	var out domain.Item
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/items/%d/", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateItem posts to /items/create/
func (c *Client) CreateItem(ctx context.Context, token string, in domain.ItemInput) (*domain.Item, error) {
	var out domain.Item
	if err := c.do(ctx, http.MethodPost, "/items/create/", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItem sends PUT /items/{id}/edit/; nil fields of in are left out
func (c *Client) UpdateItem(ctx context.Context, token string, id int, in domain.ItemInput) (*domain.Item, error) {
	var out domain.Item
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d/edit/", id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteItem calls DELETE /items/{id}/delete/
func (c *Client) DeleteItem(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d/delete/", id), token, nil, nil)
}

// ListCategories fetches GET /categories/
func (c *Client) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, http.MethodGet, "/categories/", token, nil, &out)
	return out, err
}

// CreateCategory posts to /categories/create/
func (c *Client) CreateCategory(ctx context.Context, token string, in domain.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, http.MethodPost, "/categories/create/", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders fetches GET /orders/. Staff get every order, others their own.
func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, http.MethodGet, "/orders/", token, nil, &out)
	return out, err
}

// GetOrder fetches GET /orders/{id}/
func (c *Client) GetOrder(ctx context.Context, token string, id int) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder posts to /orders/create/
func (c *Client) CreateOrder(ctx context.Context, token string, in domain.OrderInput) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders/create/", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
