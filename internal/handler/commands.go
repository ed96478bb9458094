package handler

import (
	"context"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleCommand runs a registered command with the words after it as arguments
func (h *Handler) handleCommand(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		args := commandArgs(c.Text())

		h.logger.Debug("Command received",
			zap.Int64("user_id", userID),
			zap.String("command", name),
			zap.Int("args", len(args)),
		)

		replies := h.botService.Execute(context.Background(), userID, name, args)

		if name == "help" {
			return h.send(c, replies, menuMarkup())
		}
		return h.send(c, replies)
	}
}

func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

// handleText handles free text: login credentials, flow data or a hint
func (h *Handler) handleText(c tele.Context) error {
	replies := h.botService.HandleText(context.Background(), c.Sender().ID, c.Text())
	return h.send(c, replies)
}
