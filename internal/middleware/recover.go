package middleware

import (
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const msgHandlerFailed = "⚠️ Something went wrong. Please try again later."

// Recover catches panics in handlers so a single update cannot stop the bot
func Recover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Panic recovered",
						zap.Int64("user_id", senderID(c)),
						zap.String("panic", fmt.Sprint(r)),
						zap.Stack("stack"),
					)
					err = c.Send(msgHandlerFailed)
				}
			}()
			return next(c)
		}
	}
}

func senderID(c tele.Context) int64 {
	if user := c.Sender(); user != nil {
		return user.ID
	}
	return 0
}
