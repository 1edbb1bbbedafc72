package middleware

import (
	"context"
	"time"

	"baristabot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AccountEnsurer creates accounts on first contact
type AccountEnsurer interface {
	EnsureAccount(ctx context.Context, profile domain.User) domain.Role
}

// EnsureAccount registers the sender before any handler runs. New users get
// the Guest role.
func EnsureAccount(accounts AccountEnsurer, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || sender.IsBot {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			role := accounts.EnsureAccount(ctx, domain.User{
				UserID:    sender.ID,
				Username:  sender.Username,
				FirstName: sender.FirstName,
				LastName:  sender.LastName,
			})
			cancel()

			logger.Debug("Account resolved",
				zap.Int64("user_id", sender.ID),
				zap.String("role", string(role)),
			)
			return next(c)
		}
	}
}
