package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const msgRateLimited = "⏳ Too many messages. Please slow down."

// RateLimit drops updates arriving from the same user faster than interval.
// A zero interval disables the limit.
func RateLimit(interval time.Duration, logger *zap.Logger) tele.MiddlewareFunc {
	var (
		lastSeen = make(map[int64]time.Time)
		mu       sync.Mutex
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || interval <= 0 {
				return next(c)
			}

			now := time.Now()

			mu.Lock()
			last, seen := lastSeen[user.ID]
			limited := seen && now.Sub(last) < interval
			if !limited {
				lastSeen[user.ID] = now
			}
			for id, ts := range lastSeen {
				if now.Sub(ts) > time.Minute+interval {
					delete(lastSeen, id)
				}
			}
			mu.Unlock()

			if limited {
				logger.Debug("Update rate limited", zap.Int64("user_id", user.ID))
				return c.Send(msgRateLimited)
			}
			return next(c)
		}
	}
}
