package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/olegsv/finkurs/core/logger"
	"github.com/olegsv/finkurs/internal/domain"
)

// RoleRepo persists per-user access levels.
type RoleRepo struct {
	db *sqlx.DB
}

// NewRoleRepo builds a repository over an open connection pool.
func NewRoleRepo(db *sqlx.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

// Get resolves the user's role. An absent record is the least-privileged
// default, not an error.
func (r *RoleRepo) Get(ctx context.Context, userID int64) (domain.Role, error) {
	var raw string
	err := r.db.GetContext(ctx, &raw,
		`SELECT role FROM user_roles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoleUser, nil
	}
	if err != nil {
		return "", translate(err, "role already set", "role not found")
	}
	role, ok := domain.ParseRole(raw)
	if !ok {
		logger.SVCRoles.Warn("unknown stored role",
			slog.String("event", "roles.get"),
			slog.Int64("user_id", userID),
			slog.String("role", raw),
		)
		return domain.RoleUser, nil
	}
	return role, nil
}

// Set assigns a role, replacing any previous assignment.
func (r *RoleRepo) Set(ctx context.Context, userID int64, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
		userID, string(role))
	if err != nil {
		return translate(err, "role already set", "role not found")
	}
	logger.SVCRoles.Info("role set",
		slog.String("event", "roles.set"),
		slog.Int64("user_id", userID),
		slog.String("role", string(role)),
	)
	return nil
}
