package storage

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/olegsv/finkurs/core/logger"
	"github.com/olegsv/finkurs/internal/domain"
)

// UserRepo persists registered bot users.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo builds a repository over an open connection pool.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create registers a user; a second registration for the same chat yields
// a conflict.
func (r *UserRepo) Create(ctx context.Context, name string, chatID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, chat_id) VALUES ($1, $2)`, name, chatID)
	if err != nil {
		logger.SVCUsers.Warn("register failed",
			slog.String("event", "users.create"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return translate(err, "user already registered", "user not found")
	}
	logger.SVCUsers.Info("registered",
		slog.String("event", "users.create"),
		slog.Int64("chat_id", chatID),
		slog.String("username", name),
	)
	return nil
}

// GetByChatID fetches the user owning the given chat.
func (r *UserRepo) GetByChatID(ctx context.Context, chatID int64) (domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, name, chat_id, registered_on FROM users WHERE chat_id = $1`, chatID)
	if err != nil {
		return domain.User{}, translate(err, "user already registered", "user not found")
	}
	return u, nil
}
