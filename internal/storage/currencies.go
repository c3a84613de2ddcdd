package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/olegsv/finkurs/core/logger"
	"github.com/olegsv/finkurs/internal/domain"
)

// CurrencyRepo persists the currency table.
type CurrencyRepo struct {
	db *sqlx.DB
}

// NewCurrencyRepo builds a repository over an open connection pool.
func NewCurrencyRepo(db *sqlx.DB) *CurrencyRepo {
	return &CurrencyRepo{db: db}
}

// List returns all stored currencies ordered by name.
func (r *CurrencyRepo) List(ctx context.Context) ([]domain.Currency, error) {
	start := time.Now()
	var out []domain.Currency
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, name, rate FROM currencies ORDER BY name`)
	if err != nil {
		logger.SVCCurrencies.Error("list failed",
			slog.String("event", "currencies.list"),
			slog.String("err", err.Error()),
		)
		return nil, translate(err, "currency already exists", "currency not found")
	}
	logger.SVCCurrencies.Debug("listed",
		slog.String("event", "currencies.list"),
		slog.Int("count", len(out)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return out, nil
}

// GetByName fetches one currency by its normalized name.
func (r *CurrencyRepo) GetByName(ctx context.Context, name string) (domain.Currency, error) {
	var c domain.Currency
	err := r.db.GetContext(ctx, &c,
		`SELECT id, name, rate FROM currencies WHERE name = $1`, name)
	if err != nil {
		return domain.Currency{}, translate(err, "currency already exists", "currency not found")
	}
	return c, nil
}

// Create inserts a new currency; a duplicate name yields a conflict.
func (r *CurrencyRepo) Create(ctx context.Context, name string, rate decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO currencies (name, rate) VALUES ($1, $2)`, name, rate)
	if err != nil {
		logger.SVCCurrencies.Warn("insert failed",
			slog.String("event", "currencies.create"),
			slog.String("currency", name),
			slog.String("err", err.Error()),
		)
		return translate(err, "currency already exists", "currency not found")
	}
	logger.SVCCurrencies.Info("created",
		slog.String("event", "currencies.create"),
		slog.String("currency", name),
		slog.String("rate", rate.String()),
	)
	return nil
}

// UpdateRate replaces the rate of an existing currency.
func (r *CurrencyRepo) UpdateRate(ctx context.Context, name string, rate decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE currencies SET rate = $2 WHERE name = $1`, name, rate)
	if err != nil {
		return translate(err, "currency already exists", "currency not found")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return translate(err, "currency already exists", "currency not found")
	}
	if affected == 0 {
		return domain.ErrNotFound("currency not found")
	}
	logger.SVCCurrencies.Info("rate updated",
		slog.String("event", "currencies.update"),
		slog.String("currency", name),
		slog.String("rate", rate.String()),
	)
	return nil
}

// Delete removes a currency by name.
func (r *CurrencyRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM currencies WHERE name = $1`, name)
	if err != nil {
		return translate(err, "currency already exists", "currency not found")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return translate(err, "currency already exists", "currency not found")
	}
	if affected == 0 {
		return domain.ErrNotFound("currency not found")
	}
	logger.SVCCurrencies.Info("deleted",
		slog.String("event", "currencies.delete"),
		slog.String("currency", name),
	)
	return nil
}
