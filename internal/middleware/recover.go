package middleware

import (
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Recover turns a panicking handler into a logged error and a polite reply
func Recover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					fields := []zap.Field{zap.Any("panic", r), zap.Stack("stack")}
					if s := c.Sender(); s != nil {
						fields = append(fields, zap.Int64("user_id", s.ID))
					}
					logger.Error("Handler panicked", fields...)
					err = fmt.Errorf("handler panic: %v", r)
					_ = c.Send("Произошла ошибка. Попробуйте позже.")
				}
			}()
			return next(c)
		}
	}
}
