package middleware

import (
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// LogUpdates logs one line per handled update. Free text is never logged
// because it may carry credentials.
func LogUpdates(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.Int64("user_id", senderID(c)),
				zap.String("kind", updateKind(c)),
				zap.Duration("took", time.Since(start)),
			}
			if cmd := commandName(c.Text()); cmd != "" {
				fields = append(fields, zap.String("command", cmd))
			}

			if err != nil {
				logger.Warn("Update handled with error", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("Update handled", fields...)
			}
			return err
		}
	}
}

func updateKind(c tele.Context) string {
	switch {
	case c.Callback() != nil:
		return "callback"
	case c.Message() != nil:
		return "message"
	default:
		return "other"
	}
}

// commandName returns the leading /command of text, without a @botname suffix
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return name
}
