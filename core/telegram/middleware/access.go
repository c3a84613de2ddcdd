package middleware

import (
	"context"

	"github.com/olegsv/finkurs/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RoleResolver reports whether the user may run admin-only commands.
type RoleResolver func(ctx context.Context, userID int64) (bool, error)

// AdminOptions defines how admin-only checks behave. The statically
// configured AdminID always passes; everyone else goes through Resolve.
// A nil resolver or a resolver failure denies.
type AdminOptions struct {
	AdminID  int64
	Resolve  RoleResolver
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only admins can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			if opts.AdminID != 0 && userID == opts.AdminID {
				return next(c)
			}
			allowed := false
			if opts.Resolve != nil {
				ok, err := opts.Resolve(context.Background(), userID)
				if err != nil {
					logger.TG.Warn("role check failed",
						slog.String("event", "access.check"),
						slog.Int64("user_id", userID),
						slog.String("err", err.Error()),
					)
				} else {
					allowed = ok
				}
			}
			if !allowed {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
