package middleware

import (
	tele "gopkg.in/telebot.v3"
)

// Locker hands out a per-user lock
type Locker interface {
	Lock(chatUserID int64) func()
}

// Serialize runs updates from the same user one at a time
func Serialize(locker Locker) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}

			unlock := locker.Lock(user.ID)
			defer unlock()

			return next(c)
		}
	}
}
