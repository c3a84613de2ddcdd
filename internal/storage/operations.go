package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/olegsv/finkurs/core/logger"
	"github.com/olegsv/finkurs/internal/domain"
)

// OperationRepo persists income and expense records.
type OperationRepo struct {
	db *sqlx.DB
}

// NewOperationRepo builds a repository over an open connection pool.
func NewOperationRepo(db *sqlx.DB) *OperationRepo {
	return &OperationRepo{db: db}
}

// Create records one operation. A chat without a registered user yields
// a not-found error via the foreign key.
func (r *OperationRepo) Create(ctx context.Context, op domain.Operation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO operations (occurred_on, amount, chat_id, kind)
		 VALUES ($1, $2, $3, $4)`,
		op.OccurredOn, op.Amount, op.ChatID, string(op.Kind))
	if err != nil {
		logger.SVCOperations.Warn("insert failed",
			slog.String("event", "operations.create"),
			slog.Int64("chat_id", op.ChatID),
			slog.String("err", err.Error()),
		)
		return translate(err, "operation already recorded", "user not found")
	}
	logger.SVCOperations.Info("recorded",
		slog.String("event", "operations.create"),
		slog.Int64("chat_id", op.ChatID),
		slog.String("kind", string(op.Kind)),
		slog.String("amount", op.Amount.String()),
	)
	return nil
}

// ListByChat returns the chat's operations, newest first.
func (r *OperationRepo) ListByChat(ctx context.Context, chatID int64) ([]domain.Operation, error) {
	start := time.Now()
	var out []domain.Operation
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, occurred_on, amount, chat_id, kind
		 FROM operations WHERE chat_id = $1
		 ORDER BY occurred_on DESC, id DESC`, chatID)
	if err != nil {
		return nil, translate(err, "operation already recorded", "user not found")
	}
	logger.SVCOperations.Debug("listed",
		slog.String("event", "operations.list"),
		slog.Int64("chat_id", chatID),
		slog.Int("count", len(out)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return out, nil
}

// CountByChat reports how many operations the chat has recorded.
func (r *OperationRepo) CountByChat(ctx context.Context, chatID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM operations WHERE chat_id = $1`, chatID)
	if err != nil {
		return 0, translate(err, "operation already recorded", "user not found")
	}
	return count, nil
}
