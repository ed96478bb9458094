package handler

import (
	"strings"
	"unicode/utf8"

	"catalogbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// maxMessageLen is Telegram's limit for a single text message
const maxMessageLen = 4096

// Handler manages all bot interactions
type Handler struct {
	bot        *tele.Bot
	botService *service.BotService
	logger     *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, botService *service.BotService, logger *zap.Logger) *Handler {
	return &Handler{
		bot:        bot,
		botService: botService,
		logger:     logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	for _, cmd := range h.botService.Commands() {
		h.bot.Handle("/"+cmd.Name, h.handleCommand(cmd.Name))
	}

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Menu buttons
	for _, b := range menuButtons {
		btn := b.btn
		h.bot.Handle(&btn, h.handleMenuButton(b.command))
	}
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// PublishCommands sets the command list shown by Telegram clients
func (h *Handler) PublishCommands() error {
	commands := h.botService.Commands()
	list := make([]tele.Command, 0, len(commands))
	for _, cmd := range commands {
		list = append(list, tele.Command{Text: cmd.Name, Description: cmd.Description})
	}
	return h.bot.SetCommands(list)
}

// send delivers replies in order, splitting ones over the message limit.
// Options are attached to the last message only.
func (h *Handler) send(c tele.Context, replies []string, opts ...interface{}) error {
	var chunks []string
	for _, reply := range replies {
		chunks = append(chunks, splitMessage(reply, maxMessageLen)...)
	}

	for i, chunk := range chunks {
		var err error
		if i == len(chunks)-1 {
			err = c.Send(chunk, opts...)
		} else {
			err = c.Send(chunk)
		}
		if err != nil {
			h.logger.Error("Failed to send message",
				zap.Int64("user_id", c.Sender().ID),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit runes, preferring line breaks.
// Blank chunks are dropped.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var b strings.Builder
	n := 0
	add := func(chunk string) {
		chunk = strings.Trim(chunk, "\n")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	flush := func() {
		add(b.String())
		b.Reset()
		n = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLen := utf8.RuneCountInString(line)
		if n+lineLen > limit {
			flush()
		}
		for lineLen > limit {
			runes := []rune(line)
			add(string(runes[:limit]))
			line = string(runes[limit:])
			lineLen -= limit
		}
		b.WriteString(line)
		n += lineLen
	}
	flush()

	return chunks
}
