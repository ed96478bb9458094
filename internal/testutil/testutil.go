package testutil

import (
	"fmt"

	"catalogbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewLoggedInSession creates a logged in session for the given role
func NewLoggedInSession(role domain.Role) domain.Session {
	return domain.Session{
		LoggedIn: true,
		Username: "alice",
		UserID:   7,
		Role:     role,
		Token:    "tok-" + string(role),
	}
}

// NewTestItem creates a test item
func NewTestItem(id int, name, price string, categories ...domain.Category) *domain.Item {
	return &domain.Item{
		ID:          id,
		Name:        name,
		Slug:        fmt.Sprintf("item-%d", id),
		Description: "test item",
		Price:       domain.Amount(price),
		Available:   true,
		Categories:  categories,
	}
}

// FakeContext is a minimal telebot context recording outgoing messages
type FakeContext struct {
	tele.Context

	SenderUser    *tele.User
	MessageText   string
	CallbackQuery *tele.Callback
	Sent          []string
	SendErr       error
	Responded     bool
}

// NewFakeContext creates a fake context for a user and message text
func NewFakeContext(userID int64, text string) *FakeContext {
	return &FakeContext{
		SenderUser:  &tele.User{ID: userID},
		MessageText: text,
	}
}

func (c *FakeContext) Sender() *tele.User {
	return c.SenderUser
}

func (c *FakeContext) Text() string {
	return c.MessageText
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.Sent = append(c.Sent, fmt.Sprint(what))
	return nil
}

func (c *FakeContext) Message() *tele.Message {
	if c.CallbackQuery != nil {
		return c.CallbackQuery.Message
	}
	return &tele.Message{Sender: c.SenderUser, Text: c.MessageText}
}

func (c *FakeContext) Callback() *tele.Callback {
	return c.CallbackQuery
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	c.Responded = true
	return nil
}
