package middleware

import (
	"context"
	"time"

	"baristabot/internal/dedup"
	"baristabot/internal/metrics"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// DedupCallbacks drops callback queries that were already processed, e.g.
// redeliveries after a restart or a double tap racing across replicas.
// When the checker fails the callback is processed anyway.
func DedupCallbacks(checker dedup.Checker, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			cb := c.Callback()
			if cb == nil || cb.ID == "" {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			first, err := checker.Claim(ctx, cb.ID)
			cancel()

			if err != nil {
				logger.Warn("Callback dedup check failed, processing anyway",
					zap.String("callback_id", cb.ID),
					zap.Error(err),
				)
				return next(c)
			}
			if !first {
				metrics.DuplicateCallbacks.Inc()
				logger.Debug("Duplicate callback ignored",
					zap.String("callback_id", cb.ID),
					zap.Int64("user_id", c.Sender().ID),
				)
				return c.Respond()
			}
			return next(c)
		}
	}
}
