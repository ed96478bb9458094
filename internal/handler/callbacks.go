package handler

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type menuButton struct {
	btn     tele.Btn
	command string
}

// Inline menu buttons shortcut argument-free commands
var menuButtons = []menuButton{
	{btn: tele.Btn{Unique: "list_items", Text: "🛍️ Items"}, command: "list_items"},
	{btn: tele.Btn{Unique: "list_categories", Text: "📁 Categories"}, command: "list_categories"},
	{btn: tele.Btn{Unique: "my_orders", Text: "🧾 My orders"}, command: "my_orders"},
}

// menuMarkup returns the inline menu keyboard
func menuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(menuButtons))
	for _, b := range menuButtons {
		rows = append(rows, menu.Row(b.btn))
	}
	menu.Inline(rows...)
	return menu
}

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

func (h *Handler) handleMenuButton(command string) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}

		h.logger.Debug("Menu button pressed",
			zap.Int64("user_id", userID),
			zap.String("command", command),
		)

		replies := h.botService.Execute(context.Background(), userID, command, nil)
		return h.send(c, replies)
	}
}

// handleCallback handles callbacks from buttons that are no longer registered
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	h.logger.Info("Unknown callback",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("unique", cleanCallbackData(callback.Unique)),
		zap.String("data", cleanCallbackData(callback.Data)),
	)
	return c.Respond(&tele.CallbackResponse{Text: "This button is no longer available. Use /help."})
}
